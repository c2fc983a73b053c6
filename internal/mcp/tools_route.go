package mcpserver

import (
	"context"
	"fmt"

	"hyperroute/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerRouteTools() {
	// ── list_planets ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_planets",
		mcp.WithDescription("List every planet in the catalog"),
	), s.handleListPlanets)

	// ── compute_route ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("compute_route",
		mcp.WithDescription("Compute (or recompute) a collision-free hyperspace route between two planets"),
		mcp.WithString("from", mcp.Description("Origin planet id or name"), mcp.Required()),
		mcp.WithString("to", mcp.Description("Destination planet id or name"), mcp.Required()),
		mcp.WithNumber("safety", mcp.Description("Obstacle safety radius in parsecs")),
		mcp.WithNumber("clearance", mcp.Description("Extra detour clearance margin in parsecs")),
	), s.handleComputeRoute)

	// ── get_route ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_route",
		mcp.WithDescription("Fetch the persisted route and polyline for a planet pair"),
		mcp.WithString("from", mcp.Description("Origin planet id or name"), mcp.Required()),
		mcp.WithString("to", mcp.Description("Destination planet id or name"), mcp.Required()),
	), s.handleGetRoute)

	// ── explain_route ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("explain_route",
		mcp.WithDescription("Explain the detour decisions behind a persisted route"),
		mcp.WithString("routeId", mcp.Description("Route id returned by compute_route/get_route"), mcp.Required()),
	), s.handleExplainRoute)
}

func (s *Server) handleListPlanets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planets, err := s.routes.ListPlanets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	return jsonResult(planets)
}

func (s *Server) handleComputeRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	to := req.GetString("to", "")
	if from == "" || to == "" {
		return nil, fmt.Errorf("from and to are required")
	}

	opts := domain.DefaultRoutingOptions()
	args := req.GetArguments()
	if v, ok := args["safety"].(float64); ok && v > 0 {
		opts.Safety = v
	}
	if v, ok := args["clearance"].(float64); ok && v >= 0 {
		opts.Clearance = v
	}

	route, err := s.routes.ComputeRoute(ctx, from, to, opts)
	if err != nil && route == nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}
	s.emitter.Emit(ctx, "mcp:route-computed", map[string]string{"routeId": route.ID, "status": string(route.Status)})
	return jsonResult(route)
}

func (s *Server) handleGetRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	to := req.GetString("to", "")
	if from == "" || to == "" {
		return nil, fmt.Errorf("from and to are required")
	}

	origin, err := s.routes.ResolvePlanet(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("resolve from: %w", err)
	}
	dest, err := s.routes.ResolvePlanet(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("resolve to: %w", err)
	}

	route, err := s.routes.GetRouteByPair(origin.ID, dest.ID)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	polyline, err := s.routes.GetPolyline(route.ID)
	if err != nil {
		return nil, fmt.Errorf("get polyline: %w", err)
	}

	return jsonResult(struct {
		Route    *domain.Route          `json:"route"`
		Polyline []domain.PolylinePoint `json:"polyline"`
	}{Route: route, Polyline: polyline})
}

func (s *Server) handleExplainRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routeID := req.GetString("routeId", "")
	if routeID == "" {
		return nil, fmt.Errorf("routeId is required")
	}
	explanation, err := s.routes.ExplainRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("explain route: %w", err)
	}
	return jsonResult(explanation)
}
