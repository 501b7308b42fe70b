package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/ctfscope/internal/tools"
)

// Server wraps the MCP SDK server and the scoped filesystem tools.
type Server struct {
	mcpServer *mcp.Server
	fileTools *tools.FileTools
	logger    *slog.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name      string
	Version   string
	Logger    *slog.Logger
	FileTools *tools.FileTools
}

// NewServer creates a new MCP server and registers the tool set. The
// registry is append-only here and immutable for the rest of the process
// lifetime.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.FileTools == nil {
		return nil, fmt.Errorf("file tools are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		fileTools: cfg.FileTools,
		logger:    cfg.Logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerFileTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. This is a blocking call
// that handles all protocol communication until the transport closes or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server running",
		"name", s.name,
		"version", s.version,
		"root", s.fileTools.Root())
	return s.mcpServer.Run(ctx, transport)
}

// registerFileTools registers the filesystem tools to the MCP server.
// Tools: list_files, explain_file, get_file.
func (s *Server) registerFileTools() error {
	listFilesSchema, err := jsonschema.For[tools.ListFilesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_files: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "list_files",
		Description: "List the files and directories inside a directory. " +
			"Paths are relative to the exploration root; an empty path lists the root itself. " +
			"Entries come back sorted by name with their kind (file, directory, other).",
		InputSchema: listFilesSchema,
	}, s.ListFiles)

	explainFileSchema, err := jsonschema.For[tools.ExplainFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for explain_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "explain_file",
		Description: "Inspect a file or directory without reading it: kind, size, MIME type, " +
			"text vs binary, timestamps, and permissions. Use this before get_file to avoid " +
			"pulling binary content.",
		InputSchema: explainFileSchema,
	}, s.ExplainFile)

	getFileSchema, err := jsonschema.For[tools.GetFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "get_file",
		Description: "Read the content of a text file. Binary files are rejected and very " +
			"large files are truncated with an explicit marker.",
		InputSchema: getFileSchema,
	}, s.GetFile)

	return nil
}

// ListFiles handles the list_files MCP tool call.
func (s *Server) ListFiles(ctx context.Context, req *mcp.CallToolRequest, input tools.ListFilesInput) (*mcp.CallToolResult, any, error) {
	logger := s.requestLogger("list_files")
	result, err := s.fileTools.ListFiles(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("list_files failed: %w", err)
	}
	return resultToMCP(result, logger), nil, nil
}

// ExplainFile handles the explain_file MCP tool call.
func (s *Server) ExplainFile(ctx context.Context, req *mcp.CallToolRequest, input tools.ExplainFileInput) (*mcp.CallToolResult, any, error) {
	logger := s.requestLogger("explain_file")
	result, err := s.fileTools.ExplainFile(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("explain_file failed: %w", err)
	}
	return resultToMCP(result, logger), nil, nil
}

// GetFile handles the get_file MCP tool call.
func (s *Server) GetFile(ctx context.Context, req *mcp.CallToolRequest, input tools.GetFileInput) (*mcp.CallToolResult, any, error) {
	logger := s.requestLogger("get_file")
	result, err := s.fileTools.GetFile(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("get_file failed: %w", err)
	}
	return resultToMCP(result, logger), nil, nil
}
