package memory

import (
	"context"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// CoExposureStore is an in-memory implementation of storage.CoExposureStore.
type CoExposureStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.CoExposureRecord // keyed by period_start
}

// NewCoExposureStore creates a new in-memory co-exposure store.
func NewCoExposureStore() *CoExposureStore {
	return &CoExposureStore{data: make(map[int64]*domain.CoExposureRecord)}
}

// InsertBulk adds multiple records atomically. Fails entire batch on
// any duplicate.
func (s *CoExposureStore) InsertBulk(_ context.Context, records []*domain.CoExposureRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.PeriodStart]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.PeriodStart]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.PeriodStart] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		copy.Channels = append([]string(nil), r.Channels...)
		s.data[r.PeriodStart] = &copy
	}
	return nil
}

// ListAll retrieves all records ordered by period_start ASC.
func (s *CoExposureStore) ListAll(_ context.Context) ([]*domain.CoExposureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.CoExposureRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		copy.Channels = append([]string(nil), r.Channels...)
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart < result[j].PeriodStart
	})

	return result, nil
}

var _ storage.CoExposureStore = (*CoExposureStore)(nil)
