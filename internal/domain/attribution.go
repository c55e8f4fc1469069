package domain

// AttributionResult is the per-journey Shapley credit split.
// Invariant (efficiency): credits sum to ConversionValue for every
// closed journey; approximate mode sums within a configured tolerance.
type AttributionResult struct {
	JourneyID       string
	ConversionValue float64
	Credits         map[string]float64 // channel -> credited value

	// Approximate is true when credit was estimated by sampled
	// permutations instead of exact enumeration.
	Approximate bool
	SampleCount int // permutations sampled; 0 in exact mode
}

// SynergyPair is one unordered channel pair with its synergy score.
type SynergyPair struct {
	ChannelA string
	ChannelB string
	Score    float64
}

// SynergyMatrix is a symmetric channel-pair synergy mapping with a zero
// diagonal. Channels holds the row/column order of Scores.
type SynergyMatrix struct {
	Channels []string
	Scores   [][]float64
}

// Score returns the synergy score for a pair, 0 when either channel is
// unknown. Lookup is symmetric.
func (m *SynergyMatrix) Score(a, b string) float64 {
	ai, bi := -1, -1
	for i, c := range m.Channels {
		if c == a {
			ai = i
		}
		if c == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return 0
	}
	return m.Scores[ai][bi]
}
