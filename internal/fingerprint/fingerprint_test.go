package fingerprint

import "testing"

func TestCompute_Deterministic(t *testing.T) {
	a := Compute("v1", "p1", 5.0, 0.0, 1.0, 0.5, "lateral_left", 1.5, 5.0, 1.5)
	b := Compute("v1", "p1", 5.0, 0.0, 1.0, 0.5, "lateral_left", 1.5, 5.0, 1.5)
	if a != b {
		t.Fatalf("expected identical inputs to fingerprint identically, got %q vs %q", a, b)
	}
}

func TestCompute_DiffersOnAnyField(t *testing.T) {
	base := Compute("v1", "p1", 5.0, 0.0, 1.0, 0.5, "lateral_left", 1.5, 5.0, 1.5)
	variants := []string{
		Compute("v2", "p1", 5.0, 0.0, 1.0, 0.5, "lateral_left", 1.5, 5.0, 1.5),
		Compute("v1", "p2", 5.0, 0.0, 1.0, 0.5, "lateral_left", 1.5, 5.0, 1.5),
		Compute("v1", "p1", 5.0, 0.0, 1.0, 0.5, "lateral_right", 1.5, 5.0, 1.5),
		Compute("v1", "p1", 5.0, 0.0, 1.0, 0.5, "lateral_left", 1.5, 5.000001, 1.5),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d unexpectedly matched the base fingerprint", i)
		}
	}
}

func TestCompute_RoundsToPinnedPrecision(t *testing.T) {
	// Values that differ only beyond 6 decimal places must fingerprint
	// identically (spec.md §9 pins the rounding precision for cross-run dedup).
	a := Compute("v1", "p1", 5.0000001, 0.0, 1.0, 0.5, "radial", 1.5, 5.0000004, 1.5)
	b := Compute("v1", "p1", 5.0000002, 0.0, 1.0, 0.5, "radial", 1.5, 5.0000003, 1.5)
	if a != b {
		t.Fatalf("expected sub-precision differences to collapse to the same fingerprint, got %q vs %q", a, b)
	}
}
