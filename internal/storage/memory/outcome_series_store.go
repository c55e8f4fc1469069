package memory

import (
	"context"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// OutcomeSeriesStore is an in-memory implementation of
// storage.OutcomeSeriesStore.
type OutcomeSeriesStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.OutcomePoint // keyed by period_start
}

// NewOutcomeSeriesStore creates a new in-memory outcome series store.
func NewOutcomeSeriesStore() *OutcomeSeriesStore {
	return &OutcomeSeriesStore{data: make(map[int64]*domain.OutcomePoint)}
}

// InsertBulk adds multiple points atomically. Fails entire batch on any
// duplicate.
func (s *OutcomeSeriesStore) InsertBulk(_ context.Context, points []*domain.OutcomePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if p == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.PeriodStart]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.PeriodStart]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.PeriodStart] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[p.PeriodStart] = &copy
	}
	return nil
}

// ListAll retrieves all points ordered by period_start ASC.
func (s *OutcomeSeriesStore) ListAll(_ context.Context) ([]*domain.OutcomePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.OutcomePoint, 0, len(s.data))
	for _, p := range s.data {
		copy := *p
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart < result[j].PeriodStart
	})

	return result, nil
}

var _ storage.OutcomeSeriesStore = (*OutcomeSeriesStore)(nil)
