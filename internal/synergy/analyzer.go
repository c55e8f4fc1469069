// Package synergy computes pairwise cross-channel synergy from
// co-exposure performance observations.
package synergy

import (
	"sort"

	"media-mix-lab/internal/domain"
)

// Analyze computes synergy(A,B) = combined(A,B) - (solo(A)+solo(B)) for
// every unordered channel pair. solo(X) averages performance over
// periods exposed to exactly {X}; combined(A,B) over periods exposed to
// exactly {A,B}. Patterns never observed resolve to 0, never an error.
// The matrix is symmetric with a zero diagonal.
func Analyze(records []*domain.CoExposureRecord) *domain.SynergyMatrix {
	// Collect the channel universe in deterministic order.
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, c := range r.Channels {
			seen[c] = struct{}{}
		}
	}
	channels := make([]string, 0, len(seen))
	for c := range seen {
		channels = append(channels, c)
	}
	sort.Strings(channels)

	// Average performance keyed by the exact exposure set.
	type cell struct {
		sum   float64
		count int
	}
	byPattern := make(map[string]*cell)
	for _, r := range records {
		key := patternKey(r.Channels)
		if key == "" {
			continue
		}
		c, ok := byPattern[key]
		if !ok {
			c = &cell{}
			byPattern[key] = c
		}
		c.sum += r.Performance
		c.count++
	}

	mean := func(key string) (float64, bool) {
		c, ok := byPattern[key]
		if !ok || c.count == 0 {
			return 0, false
		}
		return c.sum / float64(c.count), true
	}

	n := len(channels)
	m := &domain.SynergyMatrix{Channels: channels, Scores: make([][]float64, n)}
	for i := range m.Scores {
		m.Scores[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		soloA, okA := mean(channels[i])
		for j := i + 1; j < n; j++ {
			soloB, okB := mean(channels[j])
			combined, okC := mean(patternKey([]string{channels[i], channels[j]}))

			// Undefined cell: some required pattern was never observed.
			if !okA || !okB || !okC {
				continue
			}

			score := combined - (soloA + soloB)
			m.Scores[i][j] = score
			m.Scores[j][i] = score
		}
	}

	return m
}

// TopPairs returns the k highest-synergy pairs in descending score
// order; ties break on channel names for determinism.
func TopPairs(m *domain.SynergyMatrix, k int) []*domain.SynergyPair {
	var pairs []*domain.SynergyPair
	for i := 0; i < len(m.Channels); i++ {
		for j := i + 1; j < len(m.Channels); j++ {
			pairs = append(pairs, &domain.SynergyPair{
				ChannelA: m.Channels[i],
				ChannelB: m.Channels[j],
				Score:    m.Scores[i][j],
			})
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Score != pairs[b].Score {
			return pairs[a].Score > pairs[b].Score
		}
		if pairs[a].ChannelA != pairs[b].ChannelA {
			return pairs[a].ChannelA < pairs[b].ChannelA
		}
		return pairs[a].ChannelB < pairs[b].ChannelB
	})

	if k > 0 && len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}

// patternKey canonicalizes an exposure set. Duplicates collapse.
func patternKey(channels []string) string {
	if len(channels) == 0 {
		return ""
	}
	dedup := make([]string, 0, len(channels))
	seen := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		dedup = append(dedup, c)
	}
	sort.Strings(dedup)

	key := dedup[0]
	for _, c := range dedup[1:] {
		key += "|" + c
	}
	return key
}
