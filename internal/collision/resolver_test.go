package collision

import (
	"testing"

	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
)

func TestFirstCollisionOnSegment_NoObstacles(t *testing.T) {
	if _, ok := FirstCollisionOnSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, nil, "o", "d"); ok {
		t.Fatal("expected no collision with zero obstacles")
	}
}

func TestFirstCollisionOnSegment_EndpointTouchIgnored(t *testing.T) {
	// O and D themselves sit on their own disc boundary at t=0/t=1; that must
	// not be reported as a collision (spec.md §8 boundary behavior).
	obstacles := []obstacle.Obstacle{
		{ID: "origin", Center: geometry.Point{X: 0, Y: 0}, Radius: 1.0},
		{ID: "dest", Center: geometry.Point{X: 10, Y: 0}, Radius: 1.0},
	}
	if _, ok := FirstCollisionOnSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, obstacles, "origin", "dest"); ok {
		t.Fatal("endpoint-touching must not be reported as a collision")
	}
}

func TestFirstCollisionOnSegment_ThirdPlanetNearEndpointStillCollides(t *testing.T) {
	// A third planet close to the origin's position, but NOT the origin
	// itself, must still be treated as an obstacle (spec.md §9).
	obstacles := []obstacle.Obstacle{
		{ID: "imposter", Center: geometry.Point{X: 0.1, Y: 0}, Radius: 1.0},
	}
	col, ok := FirstCollisionOnSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, obstacles, "origin", "dest")
	if !ok || col.ObstacleID != "imposter" {
		t.Fatalf("expected collision with imposter, got ok=%v col=%+v", ok, col)
	}
}

func TestFirstCollisionOnSegment_PicksSmallestT(t *testing.T) {
	obstacles := []obstacle.Obstacle{
		{ID: "far", Center: geometry.Point{X: 8, Y: 0}, Radius: 1.0},
		{ID: "near", Center: geometry.Point{X: 2, Y: 0}, Radius: 1.0},
	}
	col, ok := FirstCollisionOnSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, obstacles, "o", "d")
	if !ok || col.ObstacleID != "near" {
		t.Fatalf("expected collision with nearer obstacle 'near', got %+v", col)
	}
}

func TestFirstCollisionOnSegment_TieBrokenByObstacleID(t *testing.T) {
	obstacles := []obstacle.Obstacle{
		{ID: "b", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0},
		{ID: "a", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0},
	}
	col, ok := FirstCollisionOnSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, obstacles, "o", "d")
	if !ok || col.ObstacleID != "a" {
		t.Fatalf("expected tie broken to obstacle 'a', got %+v", col)
	}
}

func TestIsSegmentSafe_MatchesCollisionFilter(t *testing.T) {
	obstacles := []obstacle.Obstacle{
		{ID: "origin", Center: geometry.Point{X: 0, Y: 0}, Radius: 1.0},
	}
	if !IsSegmentSafe(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, obstacles, "origin", "dest") {
		t.Fatal("expected segment to be safe with endpoint-touch filter applied")
	}
}
