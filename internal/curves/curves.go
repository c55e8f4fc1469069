// Package curves provides the pure response-curve math used by the
// planning components: reach saturation, effective-frequency ramp,
// adstock carry-over and the Hill saturation transform. All functions
// are stateless and safe for concurrent use.
package curves

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain is returned for mathematically invalid input
// (non-positive audience size, negative impressions).
var ErrDomain = errors.New("domain error")

// Effective-frequency ramp constants. Below the threshold an exposure
// is worth at most 30% of a fully effective one; wear-out decays
// exponentially past the saturation point.
const (
	rampFloor   = 0.3
	wearOutRate = 0.15
)

// Reach returns the fraction of the audience exposed at least once:
// (1 - e^(-a*(impressions/audienceSize)^b)) * (1 - c).
// Monotonically increasing in impressions, bounded below 1-c.
func Reach(impressions, audienceSize, a, b, c float64) (float64, error) {
	if audienceSize <= 0 {
		return 0, fmt.Errorf("%w: audience size must be positive, got %v", ErrDomain, audienceSize)
	}
	if impressions < 0 {
		return 0, fmt.Errorf("%w: impressions must be non-negative, got %v", ErrDomain, impressions)
	}
	if impressions == 0 {
		return 0, nil
	}

	ratio := impressions / audienceSize
	return (1 - math.Exp(-a*math.Pow(ratio, b))) * (1 - c), nil
}

// Frequency returns average exposures per reached individual:
// impressions / (reach * audienceSize). Zero reach yields 0 rather
// than a division error.
func Frequency(impressions, reach, audienceSize float64) float64 {
	if reach == 0 || audienceSize == 0 {
		return 0
	}
	return impressions / (reach * audienceSize)
}

// EffectiveFrequency maps average frequency to effectiveness in [0,1].
// Piecewise: linear 0->0.3 below threshold, linear 0.3->1.0 between
// threshold and saturation, exponential wear-out decay above
// saturation. Continuous at both breakpoints.
func EffectiveFrequency(freq, threshold, saturation float64) float64 {
	if freq <= 0 {
		return 0
	}
	if saturation <= threshold {
		saturation = threshold + 1
	}

	switch {
	case freq < threshold:
		return rampFloor * freq / threshold
	case freq <= saturation:
		return rampFloor + (1-rampFloor)*(freq-threshold)/(saturation-threshold)
	default:
		return math.Exp(-wearOutRate * (freq - saturation))
	}
}

// Adstock applies a geometrically decaying carry-over to a series: each
// value becomes itself plus the preceding maxLag values weighted by
// decayRate^lag. decayRate must be in [0,1); maxLag bounds the work to
// O(n*maxLag). The input is never mutated.
func Adstock(series []float64, decayRate float64, maxLag int) []float64 {
	out := make([]float64, len(series))
	if decayRate < 0 || decayRate >= 1 || maxLag < 0 {
		copy(out, series)
		return out
	}

	for i := range series {
		v := series[i]
		weight := 1.0
		for lag := 1; lag <= maxLag && i-lag >= 0; lag++ {
			weight *= decayRate
			v += series[i-lag] * weight
		}
		out[i] = v
	}
	return out
}

// Saturate applies a diminishing-returns Hill transform normalized by
// the series maximum: x / (x + saturationPoint*max). Output is in
// [0,1), monotone non-decreasing in x. An all-zero series passes
// through unchanged.
func Saturate(series []float64, saturationPoint float64) []float64 {
	out := make([]float64, len(series))

	max := 0.0
	for _, v := range series {
		if v > max {
			max = v
		}
	}
	if max == 0 || saturationPoint <= 0 {
		copy(out, series)
		return out
	}

	half := saturationPoint * max
	for i, v := range series {
		out[i] = v / (v + half)
	}
	return out
}
