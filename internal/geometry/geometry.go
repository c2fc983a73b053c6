// Package geometry implements the pure two-dimensional primitives the
// router builds on: points, segments, closest-point projection, and
// segment/disc collision distance (spec.md §4.1).
package geometry

import "math"

// Point is a location in the plane, in parsecs (spec.md §3 — a semantic
// unit label only; no conversion is performed).
type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Equal reports exact coordinate equality.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dot is the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm is the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Unit returns p normalized to unit length, or the zero vector if p is zero.
func (p Point) Unit() Point {
	n := p.Norm()
	if n == 0 {
		return Point{}
	}
	return Point{p.X / n, p.Y / n}
}

// Distance is the Euclidean distance between two points.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Segment is an ordered pair of distinct endpoints.
type Segment struct {
	A, B Point
}

// Direction is the (non-unit) vector from A to B.
func (s Segment) Direction() Point { return s.B.Sub(s.A) }

// Degenerate reports whether A and B coincide.
func (s Segment) Degenerate() bool { return s.A.Equal(s.B) }

// ClosestPointOnSegment projects P onto segment AB, clamping the scalar
// parameter t to [0, 1]. Q = A + t*(B-A). Degenerate segments (A == B)
// return (A, 0) per spec.md §4.1.
func ClosestPointOnSegment(a, b, p Point) (q Point, t float64) {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return a, 0
	}
	t = ab.Dot(p.Sub(a)) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t)), t
}

// SegmentDiscHit is a collision of a segment against a single disc.
type SegmentDiscHit struct {
	T        float64 // parameter along AB of the closest approach
	Q        Point   // closest point on the segment to the disc center
	Distance float64 // distance from Q to the disc center
}

// SegmentDiscFirstHit reports the closest-approach point of segment AB to a
// disc of radius r centered at c, when that distance is strictly less than
// r. It uses the closest-point formulation rather than true entry/exit
// parametrization (spec.md §4.1, §9 Open Questions — the choice is pinned
// by this spec for cross-implementation determinism).
func SegmentDiscFirstHit(a, b, c Point, r float64) (hit SegmentDiscHit, ok bool) {
	q, t := ClosestPointOnSegment(a, b, c)
	d := Distance(q, c)
	if d >= r {
		return SegmentDiscHit{}, false
	}
	return SegmentDiscHit{T: t, Q: q, Distance: d}, true
}
