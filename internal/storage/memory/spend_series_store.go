package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// SpendSeriesStore is an in-memory implementation of
// storage.SpendSeriesStore.
type SpendSeriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SpendPoint // keyed by (channel|period)
}

// NewSpendSeriesStore creates a new in-memory spend series store.
func NewSpendSeriesStore() *SpendSeriesStore {
	return &SpendSeriesStore{data: make(map[string]*domain.SpendPoint)}
}

func spendKey(p *domain.SpendPoint) string {
	return fmt.Sprintf("%s|%d", p.ChannelID, p.PeriodStart)
}

// InsertBulk adds multiple points atomically. Fails entire batch on any
// duplicate.
func (s *SpendSeriesStore) InsertBulk(_ context.Context, points []*domain.SpendPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.ChannelID == "" {
			return storage.ErrInvalidInput
		}
		key := spendKey(p)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[spendKey(p)] = &copy
	}
	return nil
}

// GetByChannelID retrieves all points for a channel, ordered by
// period_start ASC.
func (s *SpendSeriesStore) GetByChannelID(_ context.Context, channelID string) ([]*domain.SpendPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SpendPoint
	for _, p := range s.data {
		if p.ChannelID == channelID {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart < result[j].PeriodStart
	})

	return result, nil
}

// ListChannelIDs retrieves the distinct channel IDs present, ordered ASC.
func (s *SpendSeriesStore) ListChannelIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.data {
		seen[p.ChannelID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

var _ storage.SpendSeriesStore = (*SpendSeriesStore)(nil)
