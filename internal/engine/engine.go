// Package engine implements the iterative route computation loop of
// spec.md §4.6: restart-from-head detour insertion until the polyline is
// collision-free or max_iters is exhausted.
package engine

import (
	"context"

	"hyperroute/internal/candidate"
	"hyperroute/internal/collision"
	"hyperroute/internal/domain"
	"hyperroute/internal/fingerprint"
	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
	"hyperroute/internal/scoring"
)

// Status mirrors domain.RouteStatus plus the in-memory-only "cancelled"
// outcome of spec.md §7 (Cancelled never reaches persistence).
type Status string

const (
	StatusOK        Status = "ok"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Decision is one persisted detour decision, in engine-native (geometry)
// form. The service layer attaches RouteID/Idx/WaypointID when persisting.
type Decision struct {
	Iteration      int
	SegmentIndex   int
	ObstacleID     string
	ObstacleCenter geometry.Point
	ObstacleRadius float64
	ClosestT       float64
	Q              geometry.Point
	Distance       float64
	OffsetUsed     float64
	DirectionTag   string
	ChosenW        geometry.Point
	HasChosenW     bool
	Score          scoring.Breakdown
	TriesUsed      int
	TriesExhausted bool
	Fingerprint    string // empty unless a waypoint was actually chosen
}

// Result is the in-memory outcome of one compute (spec.md §6 "RouteResult").
type Result struct {
	Polyline   []geometry.Point
	Length     float64
	Iterations int
	Decisions  []Decision
	Status     Status
	Error      string
}

func polylineLength(points []geometry.Point) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += geometry.Distance(points[i], points[i+1])
	}
	return total
}

// Run executes the engine loop of spec.md §4.6 for one (origin, dest) pair
// against the given obstacle set. ctx is checked between iterations; a
// cancelled ctx aborts with StatusCancelled and no further mutation.
func Run(ctx context.Context, origin, dest geometry.Point, originID, destID string, obstacles []obstacle.Obstacle, opts domain.RoutingOptions) Result {
	polyline := []geometry.Point{origin, dest}
	var decisions []Decision
	iteration := 0

	scoringOpts := scoring.Options{
		TurnWeight:      opts.TurnWeight,
		BackWeight:      opts.BackWeight,
		ProximityWeight: opts.ProximityWeight,
		Safety:          opts.Safety,
		ProximityMargin: opts.ProximityMargin,
	}

	for {
		select {
		case <-ctx.Done():
			return Result{
				Polyline:   polyline,
				Length:     polylineLength(polyline),
				Iterations: iteration,
				Decisions:  decisions,
				Status:     StatusCancelled,
				Error:      "cancelled",
			}
		default:
		}

		if iteration >= opts.MaxIters {
			return Result{
				Polyline:   polyline,
				Length:     polylineLength(polyline),
				Iterations: iteration,
				Decisions:  decisions,
				Status:     StatusError,
				Error:      "max iterations reached",
			}
		}

		segIdx, col, hasCollision := scanForCollision(polyline, obstacles, originID, destID)
		if !hasCollision {
			return Result{
				Polyline:   polyline,
				Length:     polylineLength(polyline),
				Iterations: iteration,
				Decisions:  decisions,
				Status:     StatusOK,
			}
		}

		a, b := polyline[segIdx], polyline[segIdx+1]
		gen := candidate.Generate(a, b, col, obstacles, originID, destID, opts.Clearance, opts.OffsetGrowth, opts.MaxOffsetTries)

		if len(gen.Candidates) == 0 {
			decisions = append(decisions, Decision{
				Iteration:      iteration,
				SegmentIndex:   segIdx,
				ObstacleID:     col.ObstacleID,
				ObstacleCenter: col.Center,
				ObstacleRadius: col.Radius,
				ClosestT:       col.T,
				Q:              col.Q,
				Distance:       col.Distance,
				TriesUsed:      gen.TriesUsed,
				TriesExhausted: true,
			})
			return Result{
				Polyline:   polyline,
				Length:     polylineLength(polyline),
				Iterations: iteration,
				Decisions:  decisions,
				Status:     StatusError,
				Error:      "no safe detour found",
			}
		}

		best := scoring.SelectBest(a, b, gen.Candidates, obstacles, col.ObstacleID, originID, destID, scoringOpts)

		fp := fingerprint.Compute(
			opts.AlgoVersion, col.ObstacleID, col.Center.X, col.Center.Y,
			opts.Safety, opts.Clearance, best.Candidate.Direction.String(),
			best.Candidate.OffsetUsed, best.Candidate.W.X, best.Candidate.W.Y,
		)

		decisions = append(decisions, Decision{
			Iteration:      iteration,
			SegmentIndex:   segIdx,
			ObstacleID:     col.ObstacleID,
			ObstacleCenter: col.Center,
			ObstacleRadius: col.Radius,
			ClosestT:       col.T,
			Q:              col.Q,
			Distance:       col.Distance,
			OffsetUsed:     best.Candidate.OffsetUsed,
			DirectionTag:   best.Candidate.Direction.String(),
			ChosenW:        best.Candidate.W,
			HasChosenW:     true,
			Score:          best.Breakdown,
			TriesUsed:      gen.TriesUsed,
			TriesExhausted: gen.TriesExhausted,
			Fingerprint:    fp,
		})

		polyline = insertAfter(polyline, segIdx, best.Candidate.W)
		iteration++
	}
}

// scanForCollision finds the first segment (earliest index) with a
// collision, and within it the lowest-t collision (spec.md §4.6 step 2).
func scanForCollision(polyline []geometry.Point, obstacles []obstacle.Obstacle, originID, destID string) (int, collision.Collision, bool) {
	for i := 0; i+1 < len(polyline); i++ {
		if col, ok := collision.FirstCollisionOnSegment(polyline[i], polyline[i+1], obstacles, originID, destID); ok {
			return i, col, true
		}
	}
	return 0, collision.Collision{}, false
}

// insertAfter inserts w into polyline immediately after index i (spec.md §4.6 step 5).
func insertAfter(polyline []geometry.Point, i int, w geometry.Point) []geometry.Point {
	out := make([]geometry.Point, 0, len(polyline)+1)
	out = append(out, polyline[:i+1]...)
	out = append(out, w)
	out = append(out, polyline[i+1:]...)
	return out
}
