// Package frequency analyzes marginal conversion rate by exposure
// frequency and recommends an optimal cap.
package frequency

import (
	"sort"

	"media-mix-lab/internal/domain"
)

// Advise computes per-level conversion statistics, the first-difference
// marginal conversion rate, the optimal cap and a cap simulation.
//
// The optimal cap is the highest frequency level before the marginal
// conversion rate first turns negative. If it never turns negative the
// cap defaults to the maximum observed frequency.
func Advise(buckets []*domain.ExposureBucket) *domain.FrequencyCapReport {
	report := &domain.FrequencyCapReport{}
	if len(buckets) == 0 {
		return report
	}

	// Merge buckets that share a frequency level (e.g. multiple
	// channels feeding a global analysis).
	byFreq := make(map[int]*domain.ExposureBucket)
	for _, b := range buckets {
		agg, ok := byFreq[b.Frequency]
		if !ok {
			agg = &domain.ExposureBucket{Frequency: b.Frequency}
			byFreq[b.Frequency] = agg
		}
		agg.Impressions += b.Impressions
		agg.Conversions += b.Conversions
		agg.Cost += b.Cost
	}

	freqs := make([]int, 0, len(byFreq))
	for f := range byFreq {
		freqs = append(freqs, f)
	}
	sort.Ints(freqs)

	prevRate := 0.0
	for i, f := range freqs {
		b := byFreq[f]
		rate := b.ConversionRate()

		level := &domain.FrequencyLevelStats{
			Frequency:      f,
			Impressions:    b.Impressions,
			Conversions:    b.Conversions,
			Cost:           b.Cost,
			ConversionRate: rate,
		}
		if b.Conversions > 0 {
			level.CostPerConversion = b.Cost / b.Conversions
		}
		if i > 0 {
			level.MarginalRate = rate - prevRate
		}
		prevRate = rate
		report.Levels = append(report.Levels, level)
	}

	report.OptimalCap = optimalCap(report.Levels)
	report.Simulation = simulate(report.Levels, freqs[len(freqs)-1])
	return report
}

// optimalCap returns the level preceding the first negative marginal,
// or the maximum observed frequency when the marginal never turns
// negative.
func optimalCap(levels []*domain.FrequencyLevelStats) int {
	for i := 1; i < len(levels); i++ {
		if levels[i].MarginalRate < 0 {
			return levels[i-1].Frequency
		}
	}
	return levels[len(levels)-1].Frequency
}

// simulate re-aggregates performance for every candidate cap in
// [1, maxFreq]. Exposure above the cap is truncated: impressions and
// cost scale by cap/frequency and conversions are re-estimated at the
// cap level's conversion rate.
func simulate(levels []*domain.FrequencyLevelStats, maxFreq int) []*domain.CapSimulation {
	rateAt := func(cap int) float64 {
		// Rate of the highest level not exceeding the cap.
		rate := 0.0
		for _, l := range levels {
			if l.Frequency <= cap {
				rate = l.ConversionRate
			}
		}
		return rate
	}

	var out []*domain.CapSimulation
	for cap := 1; cap <= maxFreq; cap++ {
		var conversions, cost float64
		capRate := rateAt(cap)

		for _, l := range levels {
			if l.Frequency <= cap {
				conversions += l.Conversions
				cost += l.Cost
				continue
			}
			scale := float64(cap) / float64(l.Frequency)
			truncImpressions := l.Impressions * scale
			conversions += truncImpressions * capRate
			cost += l.Cost * scale
		}

		roi := 0.0
		if cost > 0 {
			roi = conversions / cost
		}
		out = append(out, &domain.CapSimulation{Cap: cap, ROI: roi})
	}
	return out
}
