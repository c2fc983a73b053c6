// Package candidate synthesizes direction-diverse detour waypoints around
// a collision point, growing the offset until at least one candidate
// clears both resulting sub-segments (spec.md §4.4).
package candidate

import (
	"github.com/samber/lo"

	"hyperroute/internal/collision"
	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
)

// Direction is a detour direction tag, ordered by preference per spec.md §4.4.
// The numeric value IS the tie-break preference index (spec.md §4.5, §9).
type Direction int

const (
	DirRadial Direction = iota
	DirLateralLeft
	DirLateralRight
	DirForward
	DirBackward
	DirDiagRadialLateralLeft
	DirDiagRadialLateralRight
	DirDiagBackRadialLateralLeft
	DirDiagBackRadialLateralRight
)

func (d Direction) String() string {
	switch d {
	case DirRadial:
		return "radial"
	case DirLateralLeft:
		return "lateral_left"
	case DirLateralRight:
		return "lateral_right"
	case DirForward:
		return "forward"
	case DirBackward:
		return "backward"
	case DirDiagRadialLateralLeft:
		return "diag_radial_lateral_left"
	case DirDiagRadialLateralRight:
		return "diag_radial_lateral_right"
	case DirDiagBackRadialLateralLeft:
		return "diag_back_radial_lateral_left"
	case DirDiagBackRadialLateralRight:
		return "diag_back_radial_lateral_right"
	}
	return "unknown"
}

// Candidate is a proposed detour waypoint (spec.md §3 "Candidate").
type Candidate struct {
	W          geometry.Point
	Direction  Direction
	OffsetUsed float64
}

// directions computes the nine preference-ordered unit vectors for one
// collision: radial-away-from-center, the two segment-normal laterals,
// forward/backward along the segment, and four 45-degree radial/lateral
// mixes. radialDegenerate reports a perfect head-on hit (|Q-C| == 0); the
// radial slot is then omitted entirely rather than substituted, since its
// spec.md §4.4 fallback ("the segment-normal direction") is already one of
// the lateral slots below it — emitting both would just offer the scorer
// two identical candidates and let tie-break-by-index silently prefer the
// "radial" label over the "lateral" one it is indistinguishable from.
func directions(a, b, center, q geometry.Point) (dirs [9]geometry.Point, radialDegenerate bool) {
	segDir := b.Sub(a).Unit()
	lateralLeft := geometry.Point{X: -segDir.Y, Y: segDir.X}
	lateralRight := geometry.Point{X: segDir.Y, Y: -segDir.X}

	radialRaw := q.Sub(center)
	radialDegenerate = radialRaw.Norm() == 0
	radial := radialRaw.Unit()
	if radialDegenerate {
		radial = lateralLeft
	}

	mix := func(u, v geometry.Point) geometry.Point {
		return u.Add(v).Unit()
	}

	dirs = [9]geometry.Point{
		DirRadial:                     radial,
		DirLateralLeft:                lateralLeft,
		DirLateralRight:               lateralRight,
		DirForward:                    segDir,
		DirBackward:                   segDir.Scale(-1),
		DirDiagRadialLateralLeft:      mix(radial, lateralLeft),
		DirDiagRadialLateralRight:     mix(radial, lateralRight),
		DirDiagBackRadialLateralLeft:  mix(radial.Scale(-1), lateralLeft),
		DirDiagBackRadialLateralRight: mix(radial.Scale(-1), lateralRight),
	}
	return dirs, radialDegenerate
}

// Result bundles the generator's output with the retry telemetry spec.md
// §3 records on each Detour decision.
type Result struct {
	Candidates     []Candidate
	TriesUsed      int
	TriesExhausted bool
}

// Generate grows the offset from (radius+clearance) by offsetGrowth, up to
// maxOffsetTries attempts, until at least one of the nine directions yields
// a candidate whose two sub-segments (A->W and W->B) are both safe. It
// returns every valid candidate found at that first successful offset
// level (spec.md §4.4).
func Generate(a, b geometry.Point, col collision.Collision, obstacles []obstacle.Obstacle, originID, destID string, clearance, offsetGrowth float64, maxOffsetTries int) Result {
	dirs, radialDegenerate := directions(a, b, col.Center, col.Q)
	offset := col.Radius + clearance

	for attempt := 1; attempt <= maxOffsetTries; attempt++ {
		raw := make([]Candidate, 0, len(dirs))
		for idx, dir := range dirs {
			if radialDegenerate && Direction(idx) == DirRadial {
				continue
			}
			w := col.Q.Add(dir.Scale(offset))
			raw = append(raw, Candidate{W: w, Direction: Direction(idx), OffsetUsed: offset})
		}

		valid := lo.Filter(raw, func(c Candidate, _ int) bool {
			if !c.W.Finite() {
				return false
			}
			if a.Equal(c.W) || b.Equal(c.W) {
				return false
			}
			return collision.IsSegmentSafe(a, c.W, obstacles, originID, destID) &&
				collision.IsSegmentSafe(c.W, b, obstacles, originID, destID)
		})

		if len(valid) > 0 {
			return Result{Candidates: valid, TriesUsed: attempt, TriesExhausted: false}
		}

		offset *= offsetGrowth
	}

	return Result{Candidates: nil, TriesUsed: maxOffsetTries, TriesExhausted: true}
}
