package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dkildau/passctl/internal/mcp"
	"github.com/dkildau/passctl/pkg/audit"
	"github.com/dkildau/passctl/pkg/store"
)

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}

// mcpServerCmd starts the MCP server for AI coding assistant integration.
var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Start the MCP server for AI coding assistant integration",
	Long: `Start the MCP server that provides read-only password store access to AI
coding assistants over stdio transport.

Plaintext passwords are never returned. Available tools:
  - entry_list:       List entry paths (no values)
  - entry_exists:     Check whether a path exists
  - entry_get_masked: Get non-secret fields plus a masked password
  - entry_search:     Search entry contents, returning paths only
  - totp_code:        Compute the current one-time code for an entry

Example MCP configuration (~/.claude.json):
  {
    "mcpServers": {
      "passctl": {
        "type": "stdio",
        "command": "/path/to/passctl",
        "args": ["mcp-server"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer()
	},
}

func runMCPServer() error {
	// The MCP bridge tags its audit events with its own source.
	root := storeRoot
	if root == "" {
		root = cfg.Store.Root
	}
	bridgeStore := store.New(store.Options{
		RootDir:       root,
		PassBin:       cfg.Store.PassBin,
		GPGBin:        cfg.Store.GPGBin,
		Timeout:       cfg.Timeout(),
		CacheCapacity: cfg.Cache.Capacity,
		CacheTTL:      cfg.CacheTTL(),
		Audit:         auditLog,
		Source:        audit.SourceMCP,
	})

	server := mcp.NewServer(bridgeStore, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
