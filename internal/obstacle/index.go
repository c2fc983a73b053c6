// Package obstacle exposes the planet catalog as a uniform-radius disc
// index for collision testing (spec.md §4.2).
package obstacle

import "hyperroute/internal/geometry"

// Obstacle is a planet treated as a circular keep-out zone of radius Safety.
type Obstacle struct {
	ID     string
	Center geometry.Point
	Radius float64
}

// Index is an iterable view over obstacles with an optional AABB prune.
// Linear scan is sufficient for catalogs of O(10^3) planets per spec.md §4.2;
// no spatial tree is required.
type Index struct {
	obstacles []Obstacle
}

// Planet is the minimal shape the index needs from a catalog entry.
type Planet struct {
	ID   string
	X, Y float64
}

// New builds an Index applying a uniform safety radius to every planet.
func New(planets []Planet, safety float64) *Index {
	obs := make([]Obstacle, len(planets))
	for i, p := range planets {
		obs[i] = Obstacle{ID: p.ID, Center: geometry.Point{X: p.X, Y: p.Y}, Radius: safety}
	}
	return &Index{obstacles: obs}
}

// All returns every obstacle in the index.
func (idx *Index) All() []Obstacle {
	return idx.obstacles
}

// segmentAABB returns the bounding box of segment AB expanded by margin.
func segmentAABB(a, b geometry.Point, margin float64) (minX, minY, maxX, maxY float64) {
	minX, maxX = a.X, a.X
	if b.X < minX {
		minX = b.X
	}
	if b.X > maxX {
		maxX = b.X
	}
	minY, maxY = a.Y, a.Y
	if b.Y < minY {
		minY = b.Y
	}
	if b.Y > maxY {
		maxY = b.Y
	}
	return minX - margin, minY - margin, maxX + margin, maxY + margin
}

// NearSegment prunes the index to obstacles whose disc (inflated by
// proximityMargin) can possibly intersect the AABB of segment AB. This is
// an optional optimization (spec.md §4.2); it must never drop an obstacle
// that a full scan would have reported a collision or proximity penalty
// for, so the margin test always includes Radius.
func (idx *Index) NearSegment(a, b geometry.Point, proximityMargin float64) []Obstacle {
	out := make([]Obstacle, 0, len(idx.obstacles))
	for _, o := range idx.obstacles {
		margin := o.Radius + proximityMargin
		minX, minY, maxX, maxY := segmentAABB(a, b, margin)
		if o.Center.X < minX || o.Center.X > maxX || o.Center.Y < minY || o.Center.Y > maxY {
			continue
		}
		out = append(out, o)
	}
	return out
}
