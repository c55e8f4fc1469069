// Package report renders a planning report for humans and machines.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"media-mix-lab/internal/domain"
)

// RenderMarkdown renders a PlanningReport as a Markdown string.
func RenderMarkdown(r *domain.PlanningReport) string {
	var sb strings.Builder

	sb.WriteString("# Media Plan Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Budget: %.2f\n\n", r.Budget))

	writeAllocation(&sb, r.Allocation)
	writeContributions(&sb, r.Contributions)
	writeSynergies(&sb, r.TopSynergies)
	writeFrequencyCap(&sb, r.FrequencyCap)
	writeDayparting(&sb, r.Dayparting)
	writeAttribution(&sb, r)
	writeWarnings(&sb, r.Warnings)

	return sb.String()
}

func writeAllocation(sb *strings.Builder, plan *domain.AllocationPlan) {
	sb.WriteString("## Channel Allocation\n\n")
	if plan == nil || len(plan.Channels) == 0 {
		sb.WriteString("No channels allocated.\n\n")
		return
	}

	sb.WriteString("| Channel | Impressions | Reach | Frequency | Cost | Effectiveness | Status |\n")
	sb.WriteString("|---------|-------------|-------|-----------|------|---------------|--------|\n")
	for _, a := range plan.Channels {
		sb.WriteString(fmt.Sprintf("| %s | %.0f | %.4f | %.2f | %.2f | %.4f | %s |\n",
			a.ChannelID, a.Impressions, a.Reach, a.Frequency, a.Cost, a.Effectiveness, a.Status))
	}
	sb.WriteString(fmt.Sprintf("\nTotal cost: %.2f of %.2f\n\n", plan.TotalCost, plan.Budget))
}

func writeContributions(sb *strings.Builder, result *domain.ContributionResult) {
	sb.WriteString("## Channel Contributions\n\n")
	if result == nil || len(result.Channels) == 0 {
		sb.WriteString("Contribution model not available for this snapshot.\n\n")
		return
	}

	sb.WriteString("| Channel | Contribution | ROAS | Status |\n")
	sb.WriteString("|---------|--------------|------|--------|\n")
	for _, c := range result.Channels {
		roas := "n/a"
		if c.ROAS != nil {
			roas = fmt.Sprintf("%.3f", *c.ROAS)
		}
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %s | %s |\n",
			c.ChannelID, c.Contribution, roas, c.Status))
	}
	sb.WriteString(fmt.Sprintf("\nTotal incremental: %.2f (model accuracy %.3f)\n\n",
		result.TotalIncremental, result.Accuracy))
}

func writeSynergies(sb *strings.Builder, pairs []*domain.SynergyPair) {
	sb.WriteString("## Top Channel Synergies\n\n")
	if len(pairs) == 0 {
		sb.WriteString("No synergy pairs observed.\n\n")
		return
	}

	sb.WriteString("| # | Pair | Synergy |\n")
	sb.WriteString("|---|------|--------|\n")
	for i, p := range pairs {
		sb.WriteString(fmt.Sprintf("| %d | %s + %s | %.3f |\n", i+1, p.ChannelA, p.ChannelB, p.Score))
	}
	sb.WriteString("\n")
}

func writeFrequencyCap(sb *strings.Builder, fc *domain.FrequencyCapReport) {
	sb.WriteString("## Frequency Cap\n\n")
	if fc == nil || len(fc.Levels) == 0 {
		sb.WriteString("No exposure data available.\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("Recommended cap: %d exposures\n\n", fc.OptimalCap))

	sb.WriteString("| Frequency | Impressions | Conversions | Conv. Rate | Marginal |\n")
	sb.WriteString("|-----------|-------------|-------------|------------|----------|\n")
	for _, l := range fc.Levels {
		sb.WriteString(fmt.Sprintf("| %d | %.0f | %.0f | %.4f | %+.4f |\n",
			l.Frequency, l.Impressions, l.Conversions, l.ConversionRate, l.MarginalRate))
	}
	sb.WriteString("\n")
}

func writeDayparting(sb *strings.Builder, dp *domain.DaypartReport) {
	sb.WriteString("## Daypart Allocation\n\n")
	if dp == nil || len(dp.Hours) == 0 {
		sb.WriteString("No hourly data available.\n\n")
		return
	}

	sb.WriteString("| Hour | ROAS | Efficiency | Budget | Optimal |\n")
	sb.WriteString("|------|------|------------|--------|--------|\n")
	for _, h := range dp.Hours {
		optimal := ""
		if h.Optimal {
			optimal = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %02d:00 | %.3f | %.4f | %.2f | %s |\n",
			h.Hour, h.ROAS, h.Efficiency, h.Budget, optimal))
	}
	sb.WriteString("\n")
}

func writeAttribution(sb *strings.Builder, r *domain.PlanningReport) {
	sb.WriteString("## Attribution\n\n")
	if len(r.Attribution) == 0 {
		sb.WriteString("No closed journeys to attribute.\n\n")
		return
	}

	// Aggregate per-channel credit across journeys; per-journey splits
	// stay in the JSON artifact.
	totals := make(map[string]float64)
	var totalValue float64
	var sampled int
	for _, res := range r.Attribution {
		totalValue += res.ConversionValue
		for ch, credit := range res.Credits {
			totals[ch] += credit
		}
		if res.Approximate {
			sampled++
		}
	}

	sb.WriteString(fmt.Sprintf("Journeys attributed: %d (%d sampled), total value %.2f\n\n",
		len(r.Attribution), sampled, totalValue))

	sb.WriteString("| Channel | Credited Value | Share |\n")
	sb.WriteString("|---------|----------------|-------|\n")
	for _, ch := range sortedKeys(totals) {
		share := 0.0
		if totalValue > 0 {
			share = totals[ch] / totalValue
		}
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.1f%% |\n", ch, totals[ch], share*100))
	}
	sb.WriteString("\n")
}

func writeWarnings(sb *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	sb.WriteString("## Warnings\n\n")
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}
	sb.WriteString("\n")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
