package service

import (
	"context"
	"fmt"

	"hyperroute/internal/domain"
)

// DetourExplanation is one human-readable rendering of a persisted detour
// decision (spec.md §6 "Explainability view").
type DetourExplanation struct {
	Idx              int
	Iteration        int
	ObstacleID       string
	ObstacleName     string
	ChosenWaypointID string
	WaypointName     string
	DirectionTag     string
	ScoreTotal       float64
	TriesUsed        string // "unknown" for legacy rows lacking the field
	TriesExhausted   string
}

// ExplainRoute renders the persisted decision log for a route with obstacle
// and waypoint names resolved, tolerating legacy rows that predate
// tries_used/tries_exhausted (spec.md §6, §9 "Back-compat for explain").
func (s *RouteService) ExplainRoute(ctx context.Context, routeID string) ([]DetourExplanation, error) {
	detours, err := s.routes.ListDetours(routeID)
	if err != nil {
		return nil, fmt.Errorf("list detours: %w", err)
	}

	planets, err := s.planets.ListPlanets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	planetNames := make(map[string]string, len(planets))
	for _, p := range planets {
		planetNames[p.ID] = p.Name
	}

	out := make([]DetourExplanation, 0, len(detours))
	for _, d := range detours {
		exp := DetourExplanation{
			Idx:            d.Idx,
			Iteration:      d.Iteration,
			ObstacleID:     d.ObstacleID,
			ObstacleName:   planetNames[d.ObstacleID],
			DirectionTag:   d.DirectionTag,
			ScoreTotal:     d.ScoreTotal,
			TriesUsed:      "unknown",
			TriesExhausted: "unknown",
		}
		if d.TriesUsed != nil {
			exp.TriesUsed = fmt.Sprintf("%d", *d.TriesUsed)
		}
		if d.TriesExhausted != nil {
			exp.TriesExhausted = fmt.Sprintf("%v", *d.TriesExhausted)
		}
		if d.WaypointID != "" {
			exp.ChosenWaypointID = d.WaypointID
			if w, err := s.points.GetByID(d.WaypointID); err == nil {
				exp.WaypointName = w.Name
			} else if err != domain.ErrNotFound {
				return nil, fmt.Errorf("lookup waypoint %s: %w", d.WaypointID, err)
			}
		}
		out = append(out, exp)
	}
	return out, nil
}
