// Package cmd wires the ctfscope CLI: the stdio MCP server, the exploration
// client, and version information.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ctfscope",
	Short: "ctfscope - a scoped filesystem MCP server for capture-the-flag games",
	Long: `ctfscope exposes a deliberately small set of read-only filesystem tools
over the Model Context Protocol. Every path is confined to a single root
directory, so an agent has to compose primitive operations (list, inspect,
read) to locate the hidden flag.

Running ctfscope with no arguments starts the MCP server on stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand means server mode, matching how MCP clients
		// spawn stdio servers.
		return runServe()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
