package optimizer

import (
	"errors"
	"math"
	"testing"

	"media-mix-lab/internal/curves"
	"media-mix-lab/internal/domain"
)

func testChannel() *domain.Channel {
	return &domain.Channel{
		ChannelID:         "search",
		CostPerImpression: 0.5,
		AudienceSize:      10000,
		Viewability:       0.9,
		BrandSafety:       0.95,
		AudienceQuality:   0.8,
		ReachA:            2.0,
		ReachB:            0.9,
		ReachCeiling:      0.1,
	}
}

func TestOptimize_RespectsBudget(t *testing.T) {
	// Single channel, budget 1000, cost per impression 0.5:
	// impressions <= 2000 and cost <= 1000.
	alloc, err := Optimize(testChannel(), 1000, Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if alloc.Impressions > 2000 {
		t.Errorf("impressions %f exceed feasible 2000", alloc.Impressions)
	}
	if alloc.Cost > 1000 {
		t.Errorf("cost %f exceeds budget 1000", alloc.Cost)
	}
	if alloc.Status != domain.AllocationOK {
		t.Errorf("expected AllocationOK, got %s", alloc.Status)
	}
}

func TestOptimize_BudgetNeverExceeded(t *testing.T) {
	budgets := []float64{1, 50, 1000, 250000, 1e7}
	for _, budget := range budgets {
		alloc, err := Optimize(testChannel(), budget, Options{})
		if err != nil {
			t.Fatalf("Optimize(budget=%f) failed: %v", budget, err)
		}
		if alloc.Cost > budget {
			t.Errorf("budget %f: cost %f exceeds it", budget, alloc.Cost)
		}
	}
}

func TestOptimize_ZeroBudget(t *testing.T) {
	// Empty feasible interval is a boundary case, not an error.
	for _, budget := range []float64{0, -100} {
		alloc, err := Optimize(testChannel(), budget, Options{})
		if err != nil {
			t.Fatalf("Optimize(budget=%f) failed: %v", budget, err)
		}
		if alloc.Status != domain.AllocationZeroBudget {
			t.Errorf("expected zero-budget status, got %s", alloc.Status)
		}
		if alloc.Impressions != 0 || alloc.Cost != 0 {
			t.Errorf("expected zero allocation, got %+v", alloc)
		}
	}
}

func TestOptimize_InvalidCostPerImpression(t *testing.T) {
	ch := testChannel()
	ch.CostPerImpression = 0

	_, err := Optimize(ch, 1000, Options{})
	if !errors.Is(err, curves.ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}
}

func TestOptimize_UnsetReachCurve(t *testing.T) {
	// An unset reach curve makes reach identically zero; the optimizer
	// must refuse the channel instead of returning a zero allocation
	// with an ok status.
	for _, mutate := range []func(*domain.Channel){
		func(ch *domain.Channel) { ch.ReachA = 0 },
		func(ch *domain.Channel) { ch.ReachB = 0 },
		func(ch *domain.Channel) { ch.ReachCeiling = 1 },
	} {
		ch := testChannel()
		mutate(ch)
		_, err := Optimize(ch, 1000, Options{})
		if !errors.Is(err, curves.ErrDomain) {
			t.Errorf("channel %+v: expected ErrDomain, got %v", ch, err)
		}
	}
}

func TestOptimize_AllocationFieldsConsistent(t *testing.T) {
	// Cost, reach, frequency and effectiveness must all be derived from
	// the final (possibly budget-clamped) impression level.
	ch := testChannel()
	for _, budget := range []float64{1, 333.33, 1000, 49999.99} {
		alloc, err := Optimize(ch, budget, Options{})
		if err != nil {
			t.Fatalf("Optimize(budget=%f) failed: %v", budget, err)
		}

		if diff := math.Abs(alloc.Cost - alloc.Impressions*ch.CostPerImpression); diff > 1e-6 {
			t.Errorf("budget %f: cost %f disagrees with impressions %f by %g",
				budget, alloc.Cost, alloc.Impressions, diff)
		}

		reach, err := curves.Reach(alloc.Impressions, ch.AudienceSize, ch.ReachA, ch.ReachB, ch.ReachCeiling)
		if err != nil {
			t.Fatalf("Reach failed: %v", err)
		}
		if math.Abs(alloc.Reach-reach) > 1e-12 {
			t.Errorf("budget %f: reach %f not derived from final impressions (want %f)",
				budget, alloc.Reach, reach)
		}
		if got, want := alloc.Frequency, curves.Frequency(alloc.Impressions, reach, ch.AudienceSize); math.Abs(got-want) > 1e-12 {
			t.Errorf("budget %f: frequency %f not derived from final impressions (want %f)",
				budget, got, want)
		}
	}
}

func TestOptimize_PositiveEffectiveness(t *testing.T) {
	// A generous budget on a healthy channel must find a working point.
	alloc, err := Optimize(testChannel(), 50000, Options{})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if alloc.Effectiveness <= 0 {
		t.Errorf("expected positive effectiveness, got %f", alloc.Effectiveness)
	}
	if alloc.Reach <= 0 || alloc.Reach >= 1 {
		t.Errorf("reach %f out of (0,1)", alloc.Reach)
	}
}

func TestOptimize_TieBreakPrefersCheaper(t *testing.T) {
	// With a huge epsilon every point ties, so the tie-break must pick
	// the cheapest (zero-impression) level.
	alloc, err := Optimize(testChannel(), 1000, Options{Epsilon: 10})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if alloc.Impressions != 0 {
		t.Errorf("expected cheapest point under full tie, got %f impressions", alloc.Impressions)
	}
}
