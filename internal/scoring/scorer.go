// Package scoring implements the weighted candidate scorer of spec.md §4.5:
// base length, turn penalty, backtrack penalty, and proximity penalty
// against every other planet.
package scoring

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"hyperroute/internal/candidate"
	"hyperroute/internal/geometry"
	"hyperroute/internal/obstacle"
)

// Breakdown is the persisted score breakdown of a Detour decision (spec.md §3).
type Breakdown struct {
	Base       float64
	Turn       float64
	Back       float64
	Proximity  float64
	Total      float64
}

// Scored pairs a candidate with its breakdown.
type Scored struct {
	Candidate candidate.Candidate
	Breakdown Breakdown
}

// Options carries the weights and margins the scorer needs (a slice of
// domain.RoutingOptions so this package stays independent of domain).
type Options struct {
	TurnWeight      float64
	BackWeight      float64
	ProximityWeight float64
	Safety          float64
	ProximityMargin float64
}

// Score computes the breakdown for one candidate W detouring segment A->B,
// excluding the just-resolved obstacle (obstacleID) and the route endpoints
// from the proximity sum (spec.md §4.5).
func Score(a, b, w geometry.Point, obstacles []obstacle.Obstacle, obstacleID, originID, destID string, opt Options) Breakdown {
	base := geometry.Distance(a, w) + geometry.Distance(w, b)

	aw := a.Sub(w)
	bw := b.Sub(w)
	awNorm, bwNorm := aw.Norm(), bw.Norm()
	var turn float64
	if awNorm == 0 || bwNorm == 0 {
		turn = opt.TurnWeight * 2
	} else {
		cosTheta := aw.Dot(bw) / (awNorm * bwNorm)
		if cosTheta > 1 {
			cosTheta = 1
		} else if cosTheta < -1 {
			cosTheta = -1
		}
		turn = opt.TurnWeight * (1 - cosTheta)
	}

	ab := b.Sub(a).Unit()
	wa := w.Sub(a).Unit()
	back := opt.BackWeight * math.Max(0, -ab.Dot(wa))

	warning := opt.Safety + opt.ProximityMargin
	var proximitySum float64
	for _, o := range obstacles {
		if o.ID == obstacleID || o.ID == originID || o.ID == destID {
			continue
		}
		_, t1 := geometry.ClosestPointOnSegment(a, w, o.Center)
		q1 := a.Add(w.Sub(a).Scale(t1))
		d1 := geometry.Distance(q1, o.Center)
		_, t2 := geometry.ClosestPointOnSegment(w, b, o.Center)
		q2 := w.Add(b.Sub(w).Scale(t2))
		d2 := geometry.Distance(q2, o.Center)
		dp := math.Min(d1, d2)
		if dp >= warning {
			continue
		}
		ratio := (warning - dp) / opt.ProximityMargin
		proximitySum += ratio * ratio
	}
	proximity := opt.ProximityWeight * proximitySum

	return Breakdown{
		Base:      base,
		Turn:      turn,
		Back:      back,
		Proximity: proximity,
		Total:     base + turn + back + proximity,
	}
}

// SelectBest scores every candidate and returns the minimum-total one,
// tie-broken by direction-preference index then lexicographic (x, y)
// (spec.md §4.5, §9). Candidates must be non-empty.
func SelectBest(a, b geometry.Point, candidates []candidate.Candidate, obstacles []obstacle.Obstacle, obstacleID, originID, destID string, opt Options) Scored {
	scored := lo.Map(candidates, func(c candidate.Candidate, _ int) Scored {
		return Scored{Candidate: c, Breakdown: Score(a, b, c.W, obstacles, obstacleID, originID, destID, opt)}
	})

	sort.SliceStable(scored, func(i, j int) bool {
		si, sj := scored[i], scored[j]
		if si.Breakdown.Total != sj.Breakdown.Total {
			return si.Breakdown.Total < sj.Breakdown.Total
		}
		if si.Candidate.Direction != sj.Candidate.Direction {
			return si.Candidate.Direction < sj.Candidate.Direction
		}
		if si.Candidate.W.X != sj.Candidate.W.X {
			return si.Candidate.W.X < sj.Candidate.W.X
		}
		return si.Candidate.W.Y < sj.Candidate.W.Y
	})

	return scored[0]
}
