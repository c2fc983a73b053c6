// Package collision implements the first-hit collision predicate used by
// both the route engine's scan step and the candidate validator
// (spec.md §4.3). Both must share the same endpoint-touch filter to avoid
// false positives/negatives (spec.md §9).
package collision

import (
	"sort"

	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
)

// Collision is the first disc-intersection found along a segment.
type Collision struct {
	ObstacleID string
	T          float64
	Q          geometry.Point
	Distance   float64
	Center     geometry.Point
	Radius     float64
}

// endpointTouch reports whether a hit against obstacleID at parameter t
// should be treated as permitted endpoint-touching rather than a collision:
// the obstacle equals the segment's own origin planet near t=0, or its own
// destination planet near t=1. The filter is by obstacle identity, not by
// "near t=0/1" alone, so a third planet that merely sits close to an
// endpoint is never mistaken for the endpoint itself (spec.md §9).
func endpointTouch(obstacleID string, t float64, originID, destID string) bool {
	const epsT = 1e-9
	if obstacleID == originID && t <= epsT {
		return true
	}
	if obstacleID == destID && t >= 1-epsT {
		return true
	}
	return false
}

// FirstCollisionOnSegment returns the collision with the smallest t across
// all obstacles that produce a hit on segment AB, after filtering out
// endpoint-touching. Ties in t are broken by ascending obstacle id for
// determinism (spec.md §4.3, §9).
func FirstCollisionOnSegment(a, b geometry.Point, obstacles []obstacle.Obstacle, originID, destID string) (Collision, bool) {
	var hits []Collision
	for _, o := range obstacles {
		hit, ok := geometry.SegmentDiscFirstHit(a, b, o.Center, o.Radius)
		if !ok {
			continue
		}
		if endpointTouch(o.ID, hit.T, originID, destID) {
			continue
		}
		hits = append(hits, Collision{
			ObstacleID: o.ID,
			T:          hit.T,
			Q:          hit.Q,
			Distance:   hit.Distance,
			Center:     o.Center,
			Radius:     o.Radius,
		})
	}
	if len(hits) == 0 {
		return Collision{}, false
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].T != hits[j].T {
			return hits[i].T < hits[j].T
		}
		return hits[i].ObstacleID < hits[j].ObstacleID
	})
	return hits[0], true
}

// IsSegmentSafe reports whether segment AB has no collision, using the
// same filter as FirstCollisionOnSegment (spec.md §4.3).
func IsSegmentSafe(a, b geometry.Point, obstacles []obstacle.Obstacle, originID, destID string) bool {
	_, hit := FirstCollisionOnSegment(a, b, obstacles, originID, destID)
	return !hit
}
