package engine

import (
	"context"
	"math"
	"testing"

	"hyperroute/internal/domain"
	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
)

func opts(overrides func(*domain.RoutingOptions)) domain.RoutingOptions {
	o := domain.DefaultRoutingOptions()
	if overrides != nil {
		overrides(&o)
	}
	return o
}

// spec.md §8 scenario 1: direct route, no obstacles.
func TestRun_DirectRoute(t *testing.T) {
	result := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, "o", "d", nil, opts(nil))
	if result.Status != StatusOK {
		t.Fatalf("expected ok, got %v (%s)", result.Status, result.Error)
	}
	if len(result.Polyline) != 2 {
		t.Fatalf("expected 2-point polyline, got %d", len(result.Polyline))
	}
	if result.Polyline[0] != (geometry.Point{X: 0, Y: 0}) || result.Polyline[1] != (geometry.Point{X: 10, Y: 0}) {
		t.Fatalf("unexpected polyline: %v", result.Polyline)
	}
	if math.Abs(result.Length-10) > 1e-9 {
		t.Fatalf("expected length 10, got %v", result.Length)
	}
	if len(result.Decisions) != 0 {
		t.Fatalf("expected 0 decisions, got %d", len(result.Decisions))
	}
}

// spec.md §8 scenario 2: single central obstacle detoured laterally.
func TestRun_SingleCentralObstacle(t *testing.T) {
	obstacles := []obstacle.Obstacle{{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0}}
	o := opts(func(o *domain.RoutingOptions) { o.Clearance = 0.5 })
	result := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, "o", "d", obstacles, o)

	if result.Status != StatusOK {
		t.Fatalf("expected ok, got %v (%s)", result.Status, result.Error)
	}
	if len(result.Polyline) != 3 {
		t.Fatalf("expected 3-point polyline, got %d: %v", len(result.Polyline), result.Polyline)
	}
	want := geometry.Point{X: 5, Y: 1.5}
	got := result.Polyline[1]
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("expected detour at %v, got %v", want, got)
	}
	wantLen := 2 * math.Hypot(5, 1.5)
	if math.Abs(result.Length-wantLen) > 1e-6 {
		t.Fatalf("expected length ~%v, got %v", wantLen, result.Length)
	}
	if len(result.Decisions) != 1 {
		t.Fatalf("expected 1 detour decision, got %d", len(result.Decisions))
	}
}

// spec.md §8 scenario 3: two sequential obstacles force two detours.
func TestRun_TwoSequentialObstacles(t *testing.T) {
	obstacles := []obstacle.Obstacle{
		{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0},
		{ID: "p2", Center: geometry.Point{X: 15, Y: 0}, Radius: 1.0},
	}
	o := opts(func(o *domain.RoutingOptions) { o.Clearance = 0.5 })
	result := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 20, Y: 0}, "o", "d", obstacles, o)

	if result.Status != StatusOK {
		t.Fatalf("expected ok, got %v (%s)", result.Status, result.Error)
	}
	if len(result.Polyline) < 4 {
		t.Fatalf("expected at least 4 points (2 detours), got %d: %v", len(result.Polyline), result.Polyline)
	}
	if result.Iterations < 2 {
		t.Fatalf("expected at least 2 iterations, got %d", result.Iterations)
	}
	assertPolylineSafe(t, result.Polyline, obstacles, "o", "d")
}

// spec.md §8 scenario 4: flanking obstacles force offset growth.
func TestRun_ClusterForcesOffsetGrowth(t *testing.T) {
	obstacles := []obstacle.Obstacle{
		{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0},
		{ID: "p2", Center: geometry.Point{X: 5, Y: 1.5}, Radius: 1.0},
		{ID: "p3", Center: geometry.Point{X: 5, Y: -1.5}, Radius: 1.0},
	}
	result := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, "o", "d", obstacles, opts(nil))

	if result.Status != StatusOK {
		t.Fatalf("expected ok, got %v (%s)", result.Status, result.Error)
	}
	assertPolylineSafe(t, result.Polyline, obstacles, "o", "d")
	found := false
	for _, d := range result.Decisions {
		if d.TriesUsed > 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one decision to record tries_used > 1")
	}
}

func TestRun_MaxIterationsExceeded(t *testing.T) {
	obstacles := []obstacle.Obstacle{{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0}}
	o := opts(func(o *domain.RoutingOptions) { o.MaxIters = 0 })
	result := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, "o", "d", obstacles, o)
	if result.Status != StatusError || result.Error != "max iterations reached" {
		t.Fatalf("expected max-iterations error, got %v/%s", result.Status, result.Error)
	}
}

func TestRun_NoSafeDetourFound(t *testing.T) {
	// A ring of large obstacles boxes in every possible detour offset within
	// the small number of tries allotted.
	obstacles := []obstacle.Obstacle{{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0}}
	for i := 0; i < 16; i++ {
		angle := float64(i) * math.Pi / 8
		obstacles = append(obstacles, obstacle.Obstacle{
			ID:     "ring",
			Center: geometry.Point{X: 5 + 3*math.Cos(angle), Y: 3 * math.Sin(angle)},
			Radius: 5.0,
		})
	}
	o := opts(func(o *domain.RoutingOptions) { o.MaxOffsetTries = 2 })
	result := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, "o", "d", obstacles, o)
	if result.Status != StatusError || result.Error != "no safe detour found" {
		t.Fatalf("expected no-safe-detour error, got %v/%s", result.Status, result.Error)
	}
	if len(result.Decisions) == 0 || !result.Decisions[len(result.Decisions)-1].TriesExhausted {
		t.Fatal("expected the final decision to record tries_exhausted=true")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obstacles := []obstacle.Obstacle{{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0}}
	result := Run(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, "o", "d", obstacles, opts(nil))
	if result.Status != StatusCancelled {
		t.Fatalf("expected cancelled status, got %v", result.Status)
	}
}

func TestRun_Deterministic(t *testing.T) {
	obstacles := []obstacle.Obstacle{
		{ID: "p1", Center: geometry.Point{X: 5, Y: 0}, Radius: 1.0},
		{ID: "p2", Center: geometry.Point{X: 15, Y: 0}, Radius: 1.0},
	}
	o := opts(func(o *domain.RoutingOptions) { o.Clearance = 0.5 })
	r1 := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 20, Y: 0}, "o", "d", obstacles, o)
	r2 := Run(context.Background(), geometry.Point{X: 0, Y: 0}, geometry.Point{X: 20, Y: 0}, "o", "d", obstacles, o)
	if len(r1.Polyline) != len(r2.Polyline) {
		t.Fatalf("expected identical polyline lengths, got %d vs %d", len(r1.Polyline), len(r2.Polyline))
	}
	for i := range r1.Polyline {
		if r1.Polyline[i] != r2.Polyline[i] {
			t.Fatalf("polyline point %d differs: %v vs %v", i, r1.Polyline[i], r2.Polyline[i])
		}
	}
	if len(r1.Decisions) != len(r2.Decisions) {
		t.Fatalf("expected identical decision counts, got %d vs %d", len(r1.Decisions), len(r2.Decisions))
	}
	for i := range r1.Decisions {
		if r1.Decisions[i].Fingerprint != r2.Decisions[i].Fingerprint {
			t.Fatalf("decision %d fingerprint differs: %q vs %q", i, r1.Decisions[i].Fingerprint, r2.Decisions[i].Fingerprint)
		}
	}
}

func assertPolylineSafe(t *testing.T, polyline []geometry.Point, obstacles []obstacle.Obstacle, originID, destID string) {
	t.Helper()
	for i := 0; i+1 < len(polyline); i++ {
		a, b := polyline[i], polyline[i+1]
		if a == b {
			t.Fatalf("consecutive duplicate points at index %d: %v", i, a)
		}
		for _, o := range obstacles {
			hit, ok := geometry.SegmentDiscFirstHit(a, b, o.Center, o.Radius)
			if !ok {
				continue
			}
			if o.ID == originID && hit.T <= 1e-9 {
				continue
			}
			if o.ID == destID && hit.T >= 1-1e-9 {
				continue
			}
			t.Fatalf("segment %d (%v -> %v) collides with obstacle %s at t=%v", i, a, b, o.ID, hit.T)
		}
	}
}
