// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the callerid MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(resolver contract.ContactResolver, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"callerid Contact Resolution Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{resolver: resolver}

	s.AddTool(mcp.NewTool("lookup_numbers",
		mcp.WithDescription("Resolve phone numbers to contact names using the local contact cache."),
		mcp.WithArray("numbers", mcp.Description("Phone numbers to resolve, in any common notation."), mcp.WithStringItems(), mcp.Required()),
	), h.handleLookupNumbers)

	s.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Report the state of the contact cache and directory authorization."),
	), h.handleCacheStatus)

	s.AddTool(mcp.NewTool("refresh_contacts",
		mcp.WithDescription("Rebuild the contact cache from the directory. Requires the cache to be enabled."),
	), h.handleRefreshContacts)

	return s
}

// StartMCPServer serves the callerid tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, resolver contract.ContactResolver, version string) error {
	s := NewMCPServer(resolver, version)
	return server.ServeStdio(s)
}
