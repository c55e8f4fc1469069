package attribution

import (
	"math"
	"testing"

	"media-mix-lab/internal/domain"
)

func closedJourney(value float64, channels ...string) *domain.CustomerJourney {
	return &domain.CustomerJourney{
		JourneyID:       "j1",
		CustomerID:      "cust-1",
		State:           domain.JourneyClosed,
		ConversionValue: value,
		Channels:        channels,
	}
}

func TestAttribute_TwoChannelExact(t *testing.T) {
	// Journey [A impression, B conversion(100)] with rateA=0.1,
	// rateB=0.2. Shapley marginals: A=0.09, B=0.19, coalition
	// probability 0.28 -> credits 100*0.09/0.28 and 100*0.19/0.28.
	engine := NewEngine(map[string]float64{"A": 0.1, "B": 0.2}, Config{})

	result, err := engine.Attribute(closedJourney(100, "A", "B"))
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if result.Approximate {
		t.Error("two-channel journey should use exact mode")
	}

	sum := result.Credits["A"] + result.Credits["B"]
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("credits sum to %f, want exactly 100", sum)
	}
	if result.Credits["B"] <= result.Credits["A"] {
		t.Errorf("higher-rate channel B (%f) should out-earn A (%f)",
			result.Credits["B"], result.Credits["A"])
	}

	wantA := 100 * 0.09 / 0.28
	if math.Abs(result.Credits["A"]-wantA) > 1e-9 {
		t.Errorf("credit A = %f, want %f", result.Credits["A"], wantA)
	}
}

func TestAttribute_Efficiency(t *testing.T) {
	// Per-journey credits must sum exactly to the conversion value.
	engine := NewEngine(map[string]float64{
		"A": 0.05, "B": 0.1, "C": 0.3, "D": 0.02, "E": 0.15,
	}, Config{})

	result, err := engine.Attribute(closedJourney(250, "A", "B", "C", "D", "E"))
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}

	sum := 0.0
	for _, credit := range result.Credits {
		sum += credit
	}
	if math.Abs(sum-250) > 1e-9 {
		t.Errorf("credits sum to %f, want 250", sum)
	}
}

func TestAttribute_Symmetry(t *testing.T) {
	// Channels with identical rates earn identical credit.
	engine := NewEngine(map[string]float64{"A": 0.2, "B": 0.2, "C": 0.05}, Config{})

	result, err := engine.Attribute(closedJourney(90, "A", "B", "C"))
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if math.Abs(result.Credits["A"]-result.Credits["B"]) > 1e-9 {
		t.Errorf("symmetric channels diverged: A=%f B=%f",
			result.Credits["A"], result.Credits["B"])
	}
}

func TestAttribute_NullChannel(t *testing.T) {
	// A channel that never changes the conversion probability earns
	// zero credit.
	engine := NewEngine(map[string]float64{"A": 0.3, "noop": 0}, Config{})

	result, err := engine.Attribute(closedJourney(100, "A", "noop"))
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if result.Credits["noop"] != 0 {
		t.Errorf("null channel earned %f, want 0", result.Credits["noop"])
	}
	if math.Abs(result.Credits["A"]-100) > 1e-9 {
		t.Errorf("active channel earned %f, want 100", result.Credits["A"])
	}
}

func TestAttribute_ZeroProbabilityCoalition(t *testing.T) {
	// All rates zero: credit splits evenly so efficiency still holds.
	engine := NewEngine(map[string]float64{}, Config{})

	result, err := engine.Attribute(closedJourney(100, "A", "B"))
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if result.Credits["A"] != 50 || result.Credits["B"] != 50 {
		t.Errorf("expected even split, got %v", result.Credits)
	}
}

func TestAttribute_LongJourneyGoesApproximate(t *testing.T) {
	rates := map[string]float64{}
	channels := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"}
	for i, ch := range channels {
		rates[ch] = 0.02 + float64(i)*0.01
	}
	engine := NewEngine(rates, Config{ExactLimit: 8, SampleCount: 2000, Seed: 7})

	result, err := engine.Attribute(closedJourney(1000, channels...))
	if err != nil {
		t.Fatalf("Attribute failed: %v", err)
	}
	if !result.Approximate {
		t.Error("expected approximate flag for 10-channel journey")
	}
	if result.SampleCount != 2000 {
		t.Errorf("expected sample count 2000, got %d", result.SampleCount)
	}

	sum := 0.0
	for _, credit := range result.Credits {
		sum += credit
	}
	// Normalization keeps efficiency tight even in sampled mode.
	if math.Abs(sum-1000) > 1e-6 {
		t.Errorf("approximate credits sum to %f, want 1000 within tolerance", sum)
	}
}

func TestAttribute_ApproximateReproducible(t *testing.T) {
	rates := map[string]float64{}
	channels := make([]string, 10)
	for i := range channels {
		channels[i] = string(rune('a' + i))
		rates[channels[i]] = 0.05
	}

	run := func() map[string]float64 {
		engine := NewEngine(rates, Config{ExactLimit: 4, SampleCount: 500, Seed: 42})
		result, err := engine.Attribute(closedJourney(100, channels...))
		if err != nil {
			t.Fatalf("Attribute failed: %v", err)
		}
		return result.Credits
	}

	a, b := run(), run()
	for ch := range a {
		if a[ch] != b[ch] {
			t.Fatalf("same seed produced different credit for %s: %f vs %f", ch, a[ch], b[ch])
		}
	}
}

func TestAttribute_NotClosed(t *testing.T) {
	engine := NewEngine(nil, Config{})
	_, err := engine.Attribute(&domain.CustomerJourney{State: domain.JourneyDiscarded})
	if err == nil {
		t.Error("expected error for non-closed journey")
	}
}
