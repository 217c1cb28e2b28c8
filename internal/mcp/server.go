// Package mcp exposes the task store to a local MCP client over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/vthunder/tock/internal/mcp/tools"
)

// ServerName and Version identify the server during initialization.
const (
	ServerName = "tock"
	Version    = "0.1.0"
)

// NewServer creates an MCP server with every task tool registered.
func NewServer(deps *tools.Dependencies) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(true),
	)
	tools.RegisterAll(s, deps)
	return s
}

// ServeStdio serves s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
