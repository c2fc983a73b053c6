package service

import (
	"context"
	"fmt"
	"strings"

	"hyperroute/internal/domain"
	"hyperroute/internal/engine"
	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
	"hyperroute/internal/routeerr"
)

// ─────────────────────────────────────────────────────────────
// Route Service — orchestrates resolution, computation and persistence
// ─────────────────────────────────────────────────────────────

// RouteService ties the planet catalog, the routing engine and the
// persistence adapter together into the single `compute` transaction of
// spec.md §4.8. It never touches geometry itself — that is the engine's job.
type RouteService struct {
	planets  domain.PlanetCatalogReader
	resolver domain.PlanetResolver
	routes   domain.RouteStore
	points   domain.WaypointStore
	emitter  EventEmitter
	guard    routeComputeGuard
}

func NewRouteService(planets domain.PlanetCatalogReader, resolver domain.PlanetResolver, routes domain.RouteStore, points domain.WaypointStore, emitter EventEmitter) *RouteService {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	return &RouteService{planets: planets, resolver: resolver, routes: routes, points: points, emitter: emitter}
}

// ResolvePlanet resolves a user-facing token to a planet, for callers
// (the MCP tool layer, the CLI) that need the id/name/coordinates ahead
// of a compute.
func (s *RouteService) ResolvePlanet(ctx context.Context, token string) (domain.Planet, error) {
	return s.resolver.ResolvePlanet(ctx, token)
}

// ListPlanets returns the full planet catalog.
func (s *RouteService) ListPlanets(ctx context.Context) ([]domain.Planet, error) {
	return s.planets.ListPlanets(ctx)
}

// GetRouteByPair returns the persisted route for (from, to), or domain.ErrNotFound.
func (s *RouteService) GetRouteByPair(fromID, toID string) (*domain.Route, error) {
	return s.routes.GetRouteByPair(fromID, toID)
}

// GetRouteByID returns the persisted route by its surrogate id.
func (s *RouteService) GetRouteByID(id string) (*domain.Route, error) {
	return s.routes.GetRouteByID(id)
}

// GetPolyline returns the persisted polyline for a route in seq order.
func (s *RouteService) GetPolyline(routeID string) ([]domain.PolylinePoint, error) {
	return s.routes.ListPolyline(routeID)
}

// WaitForIdle blocks until every in-flight ComputeRoute call finishes or
// ctx is cancelled, for callers (routerd's shutdown path) that need to
// drain outstanding computes before exiting.
func (s *RouteService) WaitForIdle(ctx context.Context) {
	s.guard.WaitAll(ctx)
}

// ComputeRoute resolves fromToken/toToken to planets, runs the engine, and
// persists the result transactionally (spec.md §4.6, §4.8). The Non-goals
// of spec.md §1 exclude concurrent multi-route computation within a
// process; guard enforces that only one compute runs per (from, to) pair
// at a time rather than trying to serialize the whole service.
func (s *RouteService) ComputeRoute(ctx context.Context, fromToken, toToken string, opts domain.RoutingOptions) (*domain.Route, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	origin, err := s.resolver.ResolvePlanet(ctx, fromToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", routeerr.ErrUnknownEndpoint, fromToken, err)
	}
	dest, err := s.resolver.ResolvePlanet(ctx, toToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", routeerr.ErrUnknownEndpoint, toToken, err)
	}

	originPt := geometry.Point{X: origin.X, Y: origin.Y}
	destPt := geometry.Point{X: dest.X, Y: dest.Y}
	if !originPt.Finite() || !destPt.Finite() || originPt.Equal(destPt) {
		return nil, fmt.Errorf("%w: origin %v, destination %v", routeerr.ErrDegenerateInput, originPt, destPt)
	}

	if !s.guard.TryLock(origin.ID, dest.ID) {
		return nil, fmt.Errorf("route %s -> %s is already being computed", origin.ID, dest.ID)
	}
	defer s.guard.Unlock(origin.ID, dest.ID)

	planets, err := s.planets.ListPlanets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	obstaclePlanets := make([]obstacle.Planet, 0, len(planets))
	for _, p := range planets {
		obstaclePlanets = append(obstaclePlanets, obstacle.Planet{ID: p.ID, X: p.X, Y: p.Y})
	}
	idx := obstacle.New(obstaclePlanets, opts.Safety)

	s.emitter.Emit(ctx, "route.compute.started", map[string]string{"from": origin.ID, "to": dest.ID})

	result := engine.Run(ctx, originPt, destPt, origin.ID, dest.ID, idx.All(), opts)

	if result.Status == engine.StatusCancelled {
		s.emitter.Emit(ctx, "route.compute.cancelled", map[string]string{"from": origin.ID, "to": dest.ID})
		return nil, routeerr.ErrCancelled
	}

	route := &domain.Route{
		FromID:      origin.ID,
		ToID:        dest.ID,
		AlgoVersion: opts.AlgoVersion,
		OptionsJSON: opts.CanonicalJSON(),
		Length:      result.Length,
		Iterations:  result.Iterations,
		Status:      domain.RouteStatus(result.Status),
		Error:       result.Error,
	}

	err = s.routes.WithTx(func(tx domain.Tx) error {
		if err := s.routes.UpsertRoute(tx, route); err != nil {
			return fmt.Errorf("upsert route: %w", err)
		}

		if result.Status != engine.StatusOK {
			// spec.md §7: on error only the metadata is persisted, never the
			// partial in-memory polyline — clear any stale prior state.
			if err := s.routes.ReplacePolyline(tx, route.ID, nil); err != nil {
				return fmt.Errorf("clear polyline: %w", err)
			}
			return s.routes.ReplaceDetours(tx, route.ID, nil)
		}

		waypointIDByPoint := make(map[geometry.Point]string, len(result.Decisions))
		detours := make([]domain.DetourRecord, 0, len(result.Decisions))
		for i, d := range result.Decisions {
			var waypointID string
			if d.HasChosenW {
				w := &domain.Waypoint{
					Name:           fmt.Sprintf("detour-%s", d.Fingerprint[:8]),
					NormalizedName: strings.ToLower(fmt.Sprintf("detour-%s", d.Fingerprint[:8])),
					X:              d.ChosenW.X,
					Y:              d.ChosenW.Y,
					Kind:           domain.WaypointKindComputed,
					Fingerprint:    d.Fingerprint,
				}
				id, err := s.points.UpsertComputed(tx, w)
				if err != nil {
					return fmt.Errorf("upsert computed waypoint: %w", err)
				}
				waypointID = id
				waypointIDByPoint[d.ChosenW] = id
				if err := s.points.EnsureAnchorLink(tx, domain.AnchorLink{
					WaypointID: id,
					PlanetID:   d.ObstacleID,
					Role:       domain.AnchorRoleAvoid,
				}); err != nil {
					return fmt.Errorf("ensure anchor link: %w", err)
				}
			}

			triesUsed := d.TriesUsed
			triesExhausted := d.TriesExhausted
			detours = append(detours, domain.DetourRecord{
				RouteID:        route.ID,
				Idx:            i,
				Iteration:      d.Iteration,
				SegmentIndex:   d.SegmentIndex,
				ObstacleID:     d.ObstacleID,
				ObstacleX:      d.ObstacleCenter.X,
				ObstacleY:      d.ObstacleCenter.Y,
				ObstacleRadius: d.ObstacleRadius,
				ClosestT:       d.ClosestT,
				QX:             d.Q.X,
				QY:             d.Q.Y,
				Distance:       d.Distance,
				OffsetUsed:     d.OffsetUsed,
				ChosenX:        d.ChosenW.X,
				ChosenY:        d.ChosenW.Y,
				DirectionTag:   d.DirectionTag,
				ScoreBase:      d.Score.Base,
				ScoreTurn:      d.Score.Turn,
				ScoreBack:      d.Score.Back,
				ScoreProximity: d.Score.Proximity,
				ScoreTotal:     d.Score.Total,
				TriesUsed:      &triesUsed,
				TriesExhausted: &triesExhausted,
				WaypointID:     waypointID,
			})
		}
		if err := s.routes.ReplaceDetours(tx, route.ID, detours); err != nil {
			return fmt.Errorf("replace detours: %w", err)
		}

		points := make([]domain.PolylinePoint, 0, len(result.Polyline))
		for i, p := range result.Polyline {
			kind := domain.PolylineKindDetour
			if i == 0 {
				kind = domain.PolylineKindStart
			} else if i == len(result.Polyline)-1 {
				kind = domain.PolylineKindEnd
			}
			points = append(points, domain.PolylinePoint{
				RouteID:    route.ID,
				Seq:        i,
				Kind:       kind,
				X:          p.X,
				Y:          p.Y,
				WaypointID: waypointIDByPoint[p],
			})
		}
		return s.routes.ReplacePolyline(tx, route.ID, points)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", routeerr.ErrPersistenceFailure, err)
	}

	s.emitter.Emit(ctx, "route.compute.finished", map[string]any{"routeId": route.ID, "status": route.Status})

	if result.Status == engine.StatusError {
		if result.Error == "no safe detour found" {
			return route, routeerr.ErrNoDetourFound
		}
		return route, routeerr.ErrMaxIterationsExceeded
	}
	return route, nil
}
