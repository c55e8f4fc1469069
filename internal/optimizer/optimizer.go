// Package optimizer finds the effectiveness-maximizing impression level
// for a single channel under a budget constraint.
package optimizer

import (
	"fmt"
	"math"

	"media-mix-lab/internal/curves"
	"media-mix-lab/internal/domain"
)

// Search parameters. The objective is piecewise (effective frequency is
// a ramp), so a coarse grid scan brackets the maximum before
// golden-section refinement narrows it.
const (
	gridPoints        = 256
	refineTolerance   = 1e-6
	defaultEpsilon    = 1e-4
	goldenRatio       = 0.6180339887498949 // (sqrt(5)-1)/2
	maxRefineIter     = 200
	defaultThreshold  = 3.0
	defaultSaturation = 8.0
)

// Options tune the search. Zero values fall back to defaults.
type Options struct {
	// FrequencyThreshold and FrequencySaturation parameterize the
	// effective-frequency ramp.
	FrequencyThreshold  float64
	FrequencySaturation float64

	// Epsilon is the effectiveness band within which the lower-cost
	// impression level wins the tie-break.
	Epsilon float64
}

func (o Options) withDefaults() Options {
	if o.FrequencyThreshold <= 0 {
		o.FrequencyThreshold = defaultThreshold
	}
	if o.FrequencySaturation <= 0 {
		o.FrequencySaturation = defaultSaturation
	}
	if o.Epsilon <= 0 {
		o.Epsilon = defaultEpsilon
	}
	return o
}

// Optimize maximizes reach * effectiveFrequency * qualityWeight over
// impressions in [0, budget/costPerImpression].
//
// A non-positive budget is a normal boundary case and returns a
// zero allocation with AllocationZeroBudget. A non-positive
// cost-per-impression, audience size or reach curve violates the
// channel invariant and is an error: with a or b at zero the reach
// curve is identically zero and every impression level looks equally
// worthless.
func Optimize(ch *domain.Channel, budget float64, opts Options) (*domain.ChannelAllocation, error) {
	if ch.CostPerImpression <= 0 {
		return nil, fmt.Errorf("%w: channel %s cost per impression must be positive, got %v",
			curves.ErrDomain, ch.ChannelID, ch.CostPerImpression)
	}
	if ch.AudienceSize <= 0 {
		return nil, fmt.Errorf("%w: channel %s audience size must be positive, got %v",
			curves.ErrDomain, ch.ChannelID, ch.AudienceSize)
	}
	if ch.ReachA <= 0 || ch.ReachB <= 0 {
		return nil, fmt.Errorf("%w: channel %s reach curve parameters must be positive, got a=%v b=%v",
			curves.ErrDomain, ch.ChannelID, ch.ReachA, ch.ReachB)
	}
	if ch.ReachCeiling < 0 || ch.ReachCeiling >= 1 {
		return nil, fmt.Errorf("%w: channel %s reach ceiling must be in [0,1), got %v",
			curves.ErrDomain, ch.ChannelID, ch.ReachCeiling)
	}

	if budget <= 0 {
		return &domain.ChannelAllocation{
			ChannelID: ch.ChannelID,
			Status:    domain.AllocationZeroBudget,
			Note:      "empty feasible interval: budget <= 0",
		}, nil
	}

	opts = opts.withDefaults()
	upper := budget / ch.CostPerImpression

	objective := func(imps float64) float64 {
		reach, err := curves.Reach(imps, ch.AudienceSize, ch.ReachA, ch.ReachB, ch.ReachCeiling)
		if err != nil {
			return 0
		}
		freq := curves.Frequency(imps, reach, ch.AudienceSize)
		eff := curves.EffectiveFrequency(freq, opts.FrequencyThreshold, opts.FrequencySaturation)
		return reach * eff * ch.QualityWeight()
	}

	bestImps, bestVal := gridScan(objective, upper)
	bestImps, bestVal = refine(objective, bestImps, upper, bestVal)

	// Tie-break: walk down the grid and take the cheapest impression
	// level whose effectiveness is within epsilon of the maximum.
	bestImps, bestVal = preferCheaper(objective, upper, bestImps, bestVal, opts.Epsilon)

	// Guard against floating drift pushing cost past the budget. The
	// clamp happens before the derived fields are computed so reach,
	// frequency and effectiveness match the clamped impression level.
	cost := bestImps * ch.CostPerImpression
	if cost > budget {
		cost = budget
		bestImps = budget / ch.CostPerImpression
		bestVal = objective(bestImps)
	}

	reach, err := curves.Reach(bestImps, ch.AudienceSize, ch.ReachA, ch.ReachB, ch.ReachCeiling)
	if err != nil {
		return nil, err
	}

	return &domain.ChannelAllocation{
		ChannelID:     ch.ChannelID,
		Impressions:   bestImps,
		Reach:         reach,
		Frequency:     curves.Frequency(bestImps, reach, ch.AudienceSize),
		Cost:          cost,
		Effectiveness: bestVal,
		Status:        domain.AllocationOK,
	}, nil
}

// gridScan evaluates the objective on an even grid over [0, upper] and
// returns the best point.
func gridScan(f func(float64) float64, upper float64) (float64, float64) {
	bestX, bestV := 0.0, f(0)
	for i := 1; i <= gridPoints; i++ {
		x := upper * float64(i) / gridPoints
		if v := f(x); v > bestV {
			bestX, bestV = x, v
		}
	}
	return bestX, bestV
}

// refine runs a golden-section search on the grid cell around x.
func refine(f func(float64) float64, x, upper, fallback float64) (float64, float64) {
	cell := upper / gridPoints
	lo := math.Max(0, x-cell)
	hi := math.Min(upper, x+cell)

	a, b := lo, hi
	c := b - goldenRatio*(b-a)
	d := a + goldenRatio*(b-a)
	fc, fd := f(c), f(d)

	for i := 0; i < maxRefineIter && b-a > refineTolerance*upper; i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - goldenRatio*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + goldenRatio*(b-a)
			fd = f(d)
		}
	}

	mid := (a + b) / 2
	if v := f(mid); v >= fallback {
		return mid, v
	}
	return x, fallback
}

// preferCheaper scans impression levels below best and returns the
// lowest level whose objective is within epsilon of bestVal.
func preferCheaper(f func(float64) float64, upper, bestX, bestVal, epsilon float64) (float64, float64) {
	for i := 0; i <= gridPoints; i++ {
		x := upper * float64(i) / gridPoints
		if x >= bestX {
			break
		}
		if v := f(x); bestVal-v <= epsilon {
			return x, v
		}
	}
	return bestX, bestVal
}
