package memory

import (
	"context"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// HourlyPerformanceStore is an in-memory implementation of
// storage.HourlyPerformanceStore.
type HourlyPerformanceStore struct {
	mu   sync.RWMutex
	data map[int]*domain.HourlyPerformance // keyed by hour of day
}

// NewHourlyPerformanceStore creates a new in-memory hourly performance store.
func NewHourlyPerformanceStore() *HourlyPerformanceStore {
	return &HourlyPerformanceStore{data: make(map[int]*domain.HourlyPerformance)}
}

// InsertBulk adds multiple rows atomically. Fails entire batch on any
// duplicate.
func (s *HourlyPerformanceStore) InsertBulk(_ context.Context, rows []*domain.HourlyPerformance) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Hour < 0 || r.Hour > 23 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.Hour]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.Hour]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.Hour] = struct{}{}
	}

	for _, r := range rows {
		copy := *r
		s.data[r.Hour] = &copy
	}
	return nil
}

// ListAll retrieves all rows ordered by hour ASC.
func (s *HourlyPerformanceStore) ListAll(_ context.Context) ([]*domain.HourlyPerformance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.HourlyPerformance, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Hour < result[j].Hour
	})

	return result, nil
}

var _ storage.HourlyPerformanceStore = (*HourlyPerformanceStore)(nil)
