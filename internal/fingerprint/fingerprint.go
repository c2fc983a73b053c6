// Package fingerprint computes the deterministic catalog identity of a
// computed waypoint (spec.md §4.7).
package fingerprint

import (
	"fmt"
	"hash/fnv"
	"math"
)

// precision is the fixed rounding precision pinned by spec.md §9 (Open
// Questions: "This spec pins it at 6 decimal places").
const precision = 6

func round(v float64) float64 {
	mul := math.Pow10(precision)
	return math.Round(v*mul) / mul
}

// Compute renders the stable hash over
// (algoVersion, obstacleID, round(obstacleX), round(obstacleY), safety,
// clearance, directionTag, round(offset), round(Wx), round(Wy))
// as a fixed-seed 64-bit FNV-1a hash in hex (spec.md §4.7). FNV-1a's offset
// basis and prime are fixed constants, so the hash is reproducible across
// runs and processes without any seeding step of our own.
func Compute(algoVersion, obstacleID string, obstacleX, obstacleY, safety, clearance float64, directionTag string, offset, wx, wy float64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%.6f|%.6f|%.6f|%.6f|%s|%.6f|%.6f|%.6f",
		algoVersion, obstacleID,
		round(obstacleX), round(obstacleY),
		round(safety), round(clearance),
		directionTag,
		round(offset), round(wx), round(wy),
	)
	return fmt.Sprintf("%016x", h.Sum64())
}
