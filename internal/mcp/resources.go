package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── hyperroute://planets ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"hyperroute://planets",
		"All Planets",
		mcp.WithMIMEType("application/json"),
	), s.handlePlanetsResource)

	// ── hyperroute://route/{routeId}/polyline ──────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"hyperroute://route/{routeId}/polyline",
			"Polyline for a Route",
		),
		s.handleRoutePolylineResource,
	)
}

func (s *Server) handlePlanetsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	planets, err := s.routes.ListPlanets(ctx)
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(planets, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "hyperroute://planets",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleRoutePolylineResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	routeID := extractRouteIDFromURI(uri)
	if routeID == "" {
		return nil, fmt.Errorf("could not extract routeId from URI: %s", uri)
	}

	polyline, err := s.routes.GetPolyline(routeID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(polyline, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractRouteIDFromURI extracts the route id from
// "hyperroute://route/{routeId}/polyline".
func extractRouteIDFromURI(uri string) string {
	const prefix = "hyperroute://route/"
	const suffix = "/polyline"
	if len(uri) <= len(prefix)+len(suffix) {
		return ""
	}
	middle := uri[len(prefix):]
	for i := 0; i < len(middle); i++ {
		if middle[i] == '/' {
			return middle[:i]
		}
	}
	return ""
}
