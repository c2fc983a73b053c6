package candidate

import (
	"math"
	"testing"

	"hyperroute/internal/collision"
	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
)

func TestGenerate_HeadOnUsesLateralFallback(t *testing.T) {
	// Perfect head-on collision: Q == C, so radial is degenerate and must be
	// omitted rather than falling back onto a duplicate of lateral_left
	// (spec.md §4.4, package doc).
	col := collision.Collision{
		ObstacleID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0,
		Q: geometry.Point{X: 5, Y: 0}, Distance: 0, T: 0.5,
	}
	result := Generate(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, col, nil, "o", "d", 0.5, 1.5, 6)
	if len(result.Candidates) == 0 {
		t.Fatal("expected at least one valid candidate")
	}
	for _, c := range result.Candidates {
		if c.Direction == DirRadial {
			t.Fatal("radial direction must be omitted on a degenerate head-on hit")
		}
	}
}

func TestGenerate_GrowsOffsetUntilClear(t *testing.T) {
	// Flanking obstacles block the first-offset lateral candidates; the
	// generator must grow the offset until something clears (spec.md §8
	// scenario 4 "Cluster forces radial growth").
	col := collision.Collision{
		ObstacleID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0,
		Q: geometry.Point{X: 5, Y: 0}, Distance: 0, T: 0.5,
	}
	obstacles := []obstacle.Obstacle{
		{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0},
		{ID: "p2", Center: geometry.Point{X: 5, Y: 1.5}, Radius: 1.0},
		{ID: "p3", Center: geometry.Point{X: 5, Y: -1.5}, Radius: 1.0},
	}
	result := Generate(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, col, obstacles, "o", "d", 0.5, 1.5, 6)
	if len(result.Candidates) == 0 {
		t.Fatal("expected generator to eventually find a valid candidate")
	}
	if result.TriesUsed <= 1 {
		t.Fatalf("expected more than one try given the flanking obstacles, got %d", result.TriesUsed)
	}
	if result.TriesExhausted {
		t.Fatal("did not expect tries to be exhausted")
	}
}

func TestGenerate_ExhaustsWhenNoOffsetClears(t *testing.T) {
	col := collision.Collision{
		ObstacleID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0,
		Q: geometry.Point{X: 5, Y: 0}, Distance: 0, T: 0.5,
	}
	// A ring of large obstacles surrounding the collision point so every
	// direction at every offset level stays unsafe.
	obstacles := []obstacle.Obstacle{{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0}}
	for i := 0; i < 16; i++ {
		angle := float64(i) * math.Pi / 8
		obstacles = append(obstacles, obstacle.Obstacle{
			ID:     "ring",
			Center: geometry.Point{X: 5 + 3*math.Cos(angle), Y: 3 * math.Sin(angle)},
			Radius: 5.0,
		})
	}
	result := Generate(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, col, obstacles, "o", "d", 0.5, 1.5, 3)
	if !result.TriesExhausted {
		t.Fatal("expected tries to be exhausted when boxed in on all sides")
	}
	if len(result.Candidates) != 0 {
		t.Fatalf("expected no valid candidates, got %d", len(result.Candidates))
	}
	if result.TriesUsed != 3 {
		t.Fatalf("expected tries_used to equal max_offset_tries (3), got %d", result.TriesUsed)
	}
}
