package contribution

import (
	"math"
	"testing"

	"media-mix-lab/internal/domain"
)

func TestDecompose_Deterministic(t *testing.T) {
	series := []float64{10, 12, 14, 11, 13, 15, 12, 10, 12, 14, 11, 13, 15, 12}

	a := Decompose(series, 7)
	b := Decompose(series, 7)

	for i := range series {
		if a.Combined[i] != b.Combined[i] {
			t.Fatalf("decomposition not deterministic at %d: %f vs %f", i, a.Combined[i], b.Combined[i])
		}
	}
}

func TestDecompose_SeasonalSumsToZero(t *testing.T) {
	series := []float64{5, 9, 7, 5, 9, 7, 5, 9, 7, 5, 9, 7}
	b := Decompose(series, 3)

	sum := 0.0
	for i := 0; i < 3; i++ {
		sum += b.Seasonal[i]
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("seasonal component not centered: sum over period = %f", sum)
	}
}

func TestFit_LearnsStepFunction(t *testing.T) {
	// y depends only on feature 0; the ensemble should recover it and
	// assign feature 0 all the importance.
	var (
		rows   [][]float64
		target []float64
	)
	for i := 0; i < 40; i++ {
		x := float64(i)
		rows = append(rows, []float64{x, 1.0})
		if x < 20 {
			target = append(target, 10)
		} else {
			target = append(target, 50)
		}
	}

	e, err := Fit(rows, target, FitOptions{})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if pred := e.Predict([]float64{5, 1}); math.Abs(pred-10) > 2 {
		t.Errorf("low-side prediction %f far from 10", pred)
	}
	if pred := e.Predict([]float64{35, 1}); math.Abs(pred-50) > 2 {
		t.Errorf("high-side prediction %f far from 50", pred)
	}

	imp := e.FeatureImportance()
	if imp[0] < 0.99 {
		t.Errorf("expected feature 0 to dominate importance, got %v", imp)
	}
}

func TestFit_EmptyInput(t *testing.T) {
	if _, err := Fit(nil, nil, FitOptions{}); err == nil {
		t.Error("expected error on empty input")
	}
}

func modelInput() *Input {
	n := 56
	spendA := make([]float64, n)
	spendB := make([]float64, n)
	outcome := make([]float64, n)
	for i := 0; i < n; i++ {
		spendA[i] = 100 + 50*math.Sin(float64(i)/5)
		spendB[i] = 80 + 40*math.Cos(float64(i)/7)
		outcome[i] = 1000 + 3*spendA[i] + 1.5*spendB[i]
	}
	return &Input{
		Channels: []*domain.Channel{
			{ChannelID: "search", DecayRate: 0.3, SaturationPoint: 0.5},
			{ChannelID: "social", DecayRate: 0.5, SaturationPoint: 0.5},
		},
		Spend:        map[string][]float64{"search": spendA, "social": spendB},
		Outcome:      outcome,
		SeasonPeriod: 7,
	}
}

func TestModel_ContributionsBoundedByIncremental(t *testing.T) {
	result, err := New(FitOptions{}).Run(modelInput())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sum := 0.0
	for _, c := range result.Channels {
		if c.Contribution < 0 {
			t.Errorf("channel %s has negative contribution %f", c.ChannelID, c.Contribution)
		}
		sum += c.Contribution
	}
	if sum > result.TotalIncremental+1e-6 {
		t.Errorf("contributions %f exceed total incremental %f", sum, result.TotalIncremental)
	}
}

func TestModel_ZeroSpendChannelSkipped(t *testing.T) {
	in := modelInput()
	in.Spend["display"] = make([]float64, len(in.Outcome))

	result, err := New(FitOptions{}).Run(in)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var display *domain.ChannelContribution
	for _, c := range result.Channels {
		if c.ChannelID == "display" {
			display = c
		}
	}
	if display == nil {
		t.Fatal("display channel missing from result")
	}
	if display.Status != domain.ContributionZeroSpend {
		t.Errorf("expected zero-spend status, got %s", display.Status)
	}
	if display.ROAS != nil {
		t.Errorf("expected undefined ROAS for zero spend, got %f", *display.ROAS)
	}
	if display.Contribution != 0 {
		t.Errorf("expected zero contribution, got %f", display.Contribution)
	}
}

func TestModel_DegenerateChannelDoesNotFailRun(t *testing.T) {
	in := modelInput()
	constant := make([]float64, len(in.Outcome))
	for i := range constant {
		constant[i] = 42
	}
	in.Spend["billboard"] = constant

	result, err := New(FitOptions{}).Run(in)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, c := range result.Channels {
		if c.ChannelID == "billboard" {
			if c.Status != domain.ContributionDegenerate {
				t.Errorf("expected degenerate status, got %s", c.Status)
			}
			if c.Contribution != 0 {
				t.Errorf("expected zero contribution, got %f", c.Contribution)
			}
			return
		}
	}
	t.Fatal("billboard channel missing from result")
}

func TestModel_SeriesMismatch(t *testing.T) {
	in := modelInput()
	in.Spend["search"] = in.Spend["search"][:10]

	if _, err := New(FitOptions{}).Run(in); err == nil {
		t.Error("expected series-mismatch error")
	}
}
