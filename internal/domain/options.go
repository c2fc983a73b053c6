package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoutingOptions configures one route computation (spec.md §3, §6).
type RoutingOptions struct {
	Safety           float64 `json:"safety"`
	Clearance        float64 `json:"clearance"`
	ProximityMargin  float64 `json:"proximity_margin"`
	TurnWeight       float64 `json:"turn_weight"`
	BackWeight       float64 `json:"back_weight"`
	ProximityWeight  float64 `json:"proximity_weight"`
	OffsetGrowth     float64 `json:"offset_growth"`
	MaxOffsetTries   int     `json:"max_offset_tries"`
	MaxIters         int     `json:"max_iters"`
	AlgoVersion      string  `json:"algo_version"`
}

// DefaultRoutingOptions returns sane defaults matching the worked examples in spec.md §8.
func DefaultRoutingOptions() RoutingOptions {
	return RoutingOptions{
		Safety:          1.0,
		Clearance:       0.5,
		ProximityMargin: 1.0,
		TurnWeight:      1.0,
		BackWeight:      1.0,
		ProximityWeight: 1.0,
		OffsetGrowth:    1.5,
		MaxOffsetTries:  6,
		MaxIters:        64,
		AlgoVersion:     "v1",
	}
}

// Validate enforces the invariants of spec.md §3: all weights >= 0, safety > 0,
// clearance >= 0, max_iters >= 1, max_offset_tries >= 1, offset_growth > 1.
func (o RoutingOptions) Validate() error {
	switch {
	case o.Safety <= 0:
		return fmt.Errorf("routing options: safety must be > 0, got %v", o.Safety)
	case o.Clearance < 0:
		return fmt.Errorf("routing options: clearance must be >= 0, got %v", o.Clearance)
	case o.ProximityMargin <= 0:
		return fmt.Errorf("routing options: proximity_margin must be > 0, got %v", o.ProximityMargin)
	case o.TurnWeight < 0 || o.BackWeight < 0 || o.ProximityWeight < 0:
		return fmt.Errorf("routing options: weights must be >= 0")
	case o.OffsetGrowth <= 1:
		return fmt.Errorf("routing options: offset_growth must be > 1, got %v", o.OffsetGrowth)
	case o.MaxOffsetTries < 1:
		return fmt.Errorf("routing options: max_offset_tries must be >= 1, got %d", o.MaxOffsetTries)
	case o.MaxIters < 1:
		return fmt.Errorf("routing options: max_iters must be >= 1, got %d", o.MaxIters)
	case o.AlgoVersion == "":
		return fmt.Errorf("routing options: algo_version must be set")
	}
	return nil
}

// canonicalPrecision is the fixed decimal precision used when rendering
// numeric fields for canonical serialization, so textual equality implies
// semantic equality (spec.md §6).
const canonicalPrecision = 6

// CanonicalJSON renders the options as a canonical JSON object: keys sorted
// lexicographically, numbers rendered with fixed precision. This is the
// form persisted as routes.options_json.
func (o RoutingOptions) CanonicalJSON() string {
	var b strings.Builder
	b.WriteByte('{')
	fields := []struct {
		key string
		val string
	}{
		{"algo_version", strconv.Quote(o.AlgoVersion)},
		{"back_weight", formatCanonical(o.BackWeight)},
		{"clearance", formatCanonical(o.Clearance)},
		{"max_iters", strconv.Itoa(o.MaxIters)},
		{"max_offset_tries", strconv.Itoa(o.MaxOffsetTries)},
		{"offset_growth", formatCanonical(o.OffsetGrowth)},
		{"proximity_margin", formatCanonical(o.ProximityMargin)},
		{"proximity_weight", formatCanonical(o.ProximityWeight)},
		{"safety", formatCanonical(o.Safety)},
		{"turn_weight", formatCanonical(o.TurnWeight)},
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(f.key)
		b.WriteString(`":`)
		b.WriteString(f.val)
	}
	b.WriteByte('}')
	return b.String()
}

// ParseRoutingOptionsJSON deserializes a RoutingOptions from its canonical
// (or any structurally-equivalent) JSON form. Round-tripping through
// CanonicalJSON must preserve every value at the fixed precision (spec.md §8).
func ParseRoutingOptionsJSON(data string) (RoutingOptions, error) {
	var o RoutingOptions
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return RoutingOptions{}, fmt.Errorf("parse routing options: %w", err)
	}
	return o, nil
}

func formatCanonical(v float64) string {
	return strconv.FormatFloat(round(v, canonicalPrecision), 'f', canonicalPrecision, 64)
}

func round(v float64, places int) float64 {
	mul := math.Pow10(places)
	return math.Round(v*mul) / mul
}
