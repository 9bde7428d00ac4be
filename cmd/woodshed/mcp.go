// ABOUTME: CLI command running the MCP stdio server.
// ABOUTME: Wires storage and a stderr beat sink, shuts down on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/woodshed/internal/mcp"
	"github.com/harperreed/woodshed/internal/metronome"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server for AI assistant integration",
	Long: `Run woodshed as a Model Context Protocol server on stdio.

The server exposes the song index, tempo suggestions, and the full
session lifecycle as MCP tools, so an AI assistant can register songs,
start and score practice sessions, and read history.

Stdout carries the protocol; metronome beats from a running session go
to stderr.

Example Claude Desktop configuration:

  {
    "mcpServers": {
      "woodshed": {
        "command": "woodshed",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, metronome.NewTerminalSink(os.Stderr))
		if err != nil {
			return fmt.Errorf("failed to start MCP server: %w", err)
		}
		defer server.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		fmt.Fprintln(os.Stderr, "Woodshed MCP server on stdio...")
		if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
