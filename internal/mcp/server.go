// Package mcp implements passctl's MCP (Model Context Protocol) bridge.
// The bridge is read-only and never returns plaintext passwords: agents
// get listings, existence checks, masked values, and one-time codes.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dkildau/passctl/pkg/store"
)

// Server exposes a password store over MCP stdio transport.
type Server struct {
	server *mcp.Server
	store  *store.Store
}

// NewServer creates an MCP server over the given store gateway.
func NewServer(s *store.Store, version string) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "passctl",
			Version: version,
		},
		nil,
	)

	srv := &Server{server: mcpServer, store: s}
	srv.registerTools()
	return srv
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_list",
		Description: "List entry paths in the password store, optionally filtered by a glob pattern. Does NOT return secret values.",
	}, s.handleEntryList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_exists",
		Description: "Check whether an entry or folder exists at a store path. Does NOT return secret values.",
	}, s.handleEntryExists)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_get_masked",
		Description: "Get an entry's non-secret fields (username, URL, notes) plus a masked password (e.g. '****WXYZ'). Never returns the full password.",
	}, s.handleEntryGetMasked)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_search",
		Description: "Search entry contents via the store's grep. Returns matching entry paths only, never the matched text.",
	}, s.handleEntrySearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "totp_code",
		Description: "Compute the current time-based one-time code for an entry that stores a TOTP secret. Returns the code, not the secret.",
	}, s.handleTOTPCode)
}

// Run starts the MCP server using stdio transport.
func (s *Server) Run(ctx context.Context) error {
	defer s.store.Cache().Clear()

	return s.server.Run(ctx, &mcp.StdioTransport{})
}
