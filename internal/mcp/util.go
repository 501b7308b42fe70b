package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/ctfscope/internal/tools"
)

// Error responses carry only the stable code tag and the tool's message.
// Nothing else crosses the boundary: no stack traces, no resolved paths,
// no environment details. Clients branch on the code, not the prose.

// requestLogger returns a logger scoped to a single tool invocation, tagged
// with a generated request id for correlating client reports with server logs.
func (s *Server) requestLogger(tool string) *slog.Logger {
	return s.logger.With("tool", tool, "request_id", uuid.NewString())
}

// resultToMCP converts a tools.Result to an mcp.CallToolResult with a single
// text content block. Tool-level failures become IsError results in the
// "[CODE] message" form; success data is JSON-encoded so clients get a
// stable, parseable rendering.
func resultToMCP(result tools.Result, logger *slog.Logger) *mcp.CallToolResult {
	if logger == nil {
		logger = slog.Default()
	}

	if result.Status == tools.StatusError {
		logger.Warn("tool call failed", "code", result.Error.Code, "message", result.Error.Message)
		errorText := fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: errorText}},
			IsError: true,
		}
	}

	logger.Info("tool call succeeded")
	return dataToMCP(result.Data, logger)
}

// dataToMCP converts arbitrary data to MCP text content via JSON marshaling.
func dataToMCP(data any, logger *slog.Logger) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ""}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		logger.Warn("marshaling tool data", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "marshal error"}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}
