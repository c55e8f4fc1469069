package attribution

import (
	"errors"
	"math/rand"

	"media-mix-lab/internal/domain"
)

// ErrNotClosed is returned when attribution is requested for a journey
// that did not end in a conversion.
var ErrNotClosed = errors.New("journey is not closed: no conversion to attribute")

// Defaults for the exact/sampled switch. Exact enumeration is n! in the
// number of distinct channels, so it is bounded to short journeys.
const (
	DefaultExactLimit  = 8
	DefaultSampleCount = 5000
)

// Engine computes Shapley-value credit over closed journeys.
type Engine struct {
	// rates holds the estimated base conversion rate per channel.
	// A channel absent from the map has rate 0 and earns zero credit.
	rates map[string]float64

	exactLimit  int
	sampleCount int
	seed        int64
}

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// ExactLimit is the maximum distinct-channel count for exact
	// factorial enumeration; longer journeys switch to sampling.
	ExactLimit int

	// SampleCount is the number of permutations sampled in
	// approximate mode.
	SampleCount int

	// Seed makes the sampled estimate reproducible.
	Seed int64
}

// NewEngine creates an attribution engine over the given per-channel
// base conversion rates.
func NewEngine(rates map[string]float64, cfg Config) *Engine {
	if cfg.ExactLimit <= 0 {
		cfg.ExactLimit = DefaultExactLimit
	}
	if cfg.SampleCount <= 0 {
		cfg.SampleCount = DefaultSampleCount
	}
	return &Engine{
		rates:       rates,
		exactLimit:  cfg.ExactLimit,
		sampleCount: cfg.SampleCount,
		seed:        cfg.Seed,
	}
}

// Attribute computes per-channel credit for one closed journey.
// Exact mode enumerates all orderings of the participating channels;
// beyond the exact limit a seeded permutation sample estimates the
// Shapley value and the result is flagged approximate. In both modes
// credits are normalized so they sum to the conversion value.
func (e *Engine) Attribute(j *domain.CustomerJourney) (*domain.AttributionResult, error) {
	if j.State != domain.JourneyClosed {
		return nil, ErrNotClosed
	}

	result := &domain.AttributionResult{
		JourneyID:       j.JourneyID,
		ConversionValue: j.ConversionValue,
		Credits:         make(map[string]float64, len(j.Channels)),
	}
	if len(j.Channels) == 0 {
		return result, nil
	}

	var marginals []float64
	if len(j.Channels) <= e.exactLimit {
		marginals = e.exactMarginals(j.Channels)
	} else {
		marginals = e.sampledMarginals(j.Channels, journeySeed(e.seed, j.JourneyID))
		result.Approximate = true
		result.SampleCount = e.sampleCount
	}

	// Marginals telescope to the full-coalition conversion probability
	// per ordering, so normalizing by their sum preserves efficiency:
	// credits sum exactly to the conversion value. A zero-probability
	// coalition (all rates zero) splits credit evenly instead.
	total := 0.0
	for _, m := range marginals {
		total += m
	}
	for i, ch := range j.Channels {
		if total > 0 {
			result.Credits[ch] = j.ConversionValue * marginals[i] / total
		} else {
			result.Credits[ch] = j.ConversionValue / float64(len(j.Channels))
		}
	}
	return result, nil
}

// conversionProbability models a coalition as independent per-channel
// conversion chances: 1 - prod(1 - rate_c).
func (e *Engine) conversionProbability(coalition []string) float64 {
	nonConversion := 1.0
	for _, ch := range coalition {
		nonConversion *= 1 - e.rates[ch]
	}
	return 1 - nonConversion
}

// exactMarginals averages each channel's marginal contribution over all
// n! orderings, enumerated with Heap's algorithm.
func (e *Engine) exactMarginals(channels []string) []float64 {
	n := len(channels)
	sums := make([]float64, n)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	count := 0
	accumulate := func() {
		coalition := make([]string, 0, n)
		prev := 0.0
		for _, idx := range perm {
			coalition = append(coalition, channels[idx])
			p := e.conversionProbability(coalition)
			sums[idx] += p - prev
			prev = p
		}
		count++
	}

	// Heap's algorithm, iterative form.
	accumulate()
	c := make([]int, n)
	for i := 0; i < n; {
		if c[i] < i {
			if i%2 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[c[i]], perm[i] = perm[i], perm[c[i]]
			}
			accumulate()
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}

	for i := range sums {
		sums[i] /= float64(count)
	}
	return sums
}

// sampledMarginals estimates the marginal averages from randomly
// sampled permutations.
func (e *Engine) sampledMarginals(channels []string, seed int64) []float64 {
	n := len(channels)
	sums := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	coalition := make([]string, 0, n)
	for s := 0; s < e.sampleCount; s++ {
		rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		coalition = coalition[:0]
		prev := 0.0
		for _, idx := range perm {
			coalition = append(coalition, channels[idx])
			p := e.conversionProbability(coalition)
			sums[idx] += p - prev
			prev = p
		}
	}

	for i := range sums {
		sums[i] /= float64(e.sampleCount)
	}
	return sums
}

// journeySeed derives a per-journey seed so journeys are independent
// but a run is reproducible end to end.
func journeySeed(base int64, journeyID string) int64 {
	h := base
	for _, r := range journeyID {
		h = h*31 + int64(r)
	}
	return h
}
