// Package mcpserver exposes the routing core to AI agents over the Model
// Context Protocol, adapted from the teacher's internal/mcp package (same
// mark3labs/mcp-go wiring, same tool/resource registration shape) down to a
// single domain: compute, inspect and explain hyperspace routes.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"hyperroute/internal/domain"
	"hyperroute/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventEmitter allows the server to notify a host process of progress.
// Defined locally (rather than importing service.EventEmitter) so this
// package stays decoupled from any one transport's event shape; any type
// satisfying this shape — including *service.MockEmitter — works.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Server is the MCP server for the hyperspace router.
type Server struct {
	mcp     *server.MCPServer
	emitter EventEmitter
	routes  *service.RouteService
	catalog domain.PlanetCatalogReader
}

// Deps holds all dependencies passed from cmd/routerd to the MCP server.
type Deps struct {
	Emitter EventEmitter
	Routes  *service.RouteService
	Catalog domain.PlanetCatalogReader
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		emitter: deps.Emitter,
		routes:  deps.Routes,
		catalog: deps.Catalog,
	}

	s.mcp = server.NewMCPServer(
		"hyperroute-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerRouteTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
