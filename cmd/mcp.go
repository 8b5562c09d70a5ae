package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/tomato/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server speaks over stdio and provides tools for reading and changing the
timer preferences and for parsing and formatting timer input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("MCP server is disabled (set mcp.enabled = true in ~/.tomato/config.toml)")
		}

		// stdout carries the protocol.
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Starting MCP server on stdio. Press Ctrl+C to stop.")

		return withContext(func(ctx context.Context) error {
			server := mcp.NewServer(app.prefs, Version)
			if err := server.Start(ctx); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
	},
}
