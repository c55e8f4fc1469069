// Package daypart reallocates a fixed budget across hours of day by an
// efficiency score blending performance and audience activity.
package daypart

import (
	"sort"

	"media-mix-lab/internal/domain"
)

const hoursPerDay = 24

// Allocate scores every hour as ROAS(hour) * activity(hour)/max(activity),
// flags the top-k hours as optimal and redistributes the budget
// proportionally to efficiency. Hours with zero efficiency receive zero
// budget; an all-zero efficiency distribution falls back to an even
// 24-way split so the total is always preserved deterministically.
func Allocate(hourly []*domain.HourlyPerformance, totalBudget float64, topK int) *domain.DaypartReport {
	report := &domain.DaypartReport{TotalBudget: totalBudget}

	// Index by hour; absent hours behave as empty aggregates.
	byHour := make(map[int]*domain.HourlyPerformance, len(hourly))
	maxActivity := 0.0
	for _, h := range hourly {
		if h.Hour < 0 || h.Hour >= hoursPerDay {
			continue
		}
		byHour[h.Hour] = h
		if h.Activity > maxActivity {
			maxActivity = h.Activity
		}
	}

	totalEfficiency := 0.0
	for hour := 0; hour < hoursPerDay; hour++ {
		alloc := &domain.HourAllocation{Hour: hour}
		if h, ok := byHour[hour]; ok {
			if h.Spend > 0 {
				alloc.ROAS = h.Revenue / h.Spend
			}
			if maxActivity > 0 {
				alloc.Efficiency = alloc.ROAS * h.Activity / maxActivity
			}
		}
		totalEfficiency += alloc.Efficiency
		report.Hours = append(report.Hours, alloc)
	}

	if totalEfficiency > 0 {
		for _, alloc := range report.Hours {
			alloc.Budget = totalBudget * alloc.Efficiency / totalEfficiency
		}
	} else {
		for _, alloc := range report.Hours {
			alloc.Budget = totalBudget / hoursPerDay
		}
	}

	report.OptimalHours = topHours(report.Hours, topK)
	for _, h := range report.OptimalHours {
		report.Hours[h].Optimal = true
	}
	return report
}

// topHours returns the k hours with the highest efficiency in
// descending order; ties break on the earlier hour.
func topHours(hours []*domain.HourAllocation, k int) []int {
	if k <= 0 {
		return nil
	}

	ranked := make([]*domain.HourAllocation, len(hours))
	copy(ranked, hours)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Efficiency > ranked[j].Efficiency
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]int, 0, k)
	for _, h := range ranked[:k] {
		out = append(out, h.Hour)
	}
	return out
}
