package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/koopa0/ctfscope/internal/config"
	"github.com/koopa0/ctfscope/internal/log"
	"github.com/koopa0/ctfscope/internal/mcp"
	"github.com/koopa0/ctfscope/internal/security"
	"github.com/koopa0/ctfscope/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe initializes and starts the MCP server on stdio transport.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := log.New(log.Config{Level: level, JSON: cfg.LogJSON})
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	boundary, err := security.NewPath(cfg.Root)
	if err != nil {
		return fmt.Errorf("initializing path boundary: %w", err)
	}

	fileTools, err := tools.NewFileTools(boundary, logger.With("component", "tools"))
	if err != nil {
		return fmt.Errorf("initializing file tools: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:      "ctfscope",
		Version:   Version,
		Logger:    logger.With("component", "mcp"),
		FileTools: fileTools,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	slog.Info("MCP server ready",
		"name", "ctfscope",
		"version", Version,
		"transport", "stdio",
		"root", boundary.Root())

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	slog.Info("MCP server shut down gracefully")
	return nil
}
