package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// TouchpointStore is an in-memory implementation of storage.TouchpointStore.
type TouchpointStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Touchpoint // keyed by (customer|channel|ts|action)
}

// NewTouchpointStore creates a new in-memory touchpoint store.
func NewTouchpointStore() *TouchpointStore {
	return &TouchpointStore{data: make(map[string]*domain.Touchpoint)}
}

func touchpointKey(tp *domain.Touchpoint) string {
	return fmt.Sprintf("%s|%s|%d|%s", tp.CustomerID, tp.ChannelID, tp.Timestamp, tp.Action)
}

// InsertBulk adds multiple touchpoints atomically. Fails entire batch
// on any duplicate.
func (s *TouchpointStore) InsertBulk(_ context.Context, tps []*domain.Touchpoint) error {
	if len(tps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(tps))
	for _, tp := range tps {
		if tp == nil || tp.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		key := touchpointKey(tp)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, tp := range tps {
		copy := *tp
		s.data[touchpointKey(tp)] = &copy
	}
	return nil
}

// GetByCustomerID retrieves all touchpoints for a customer, ordered by
// timestamp ASC.
func (s *TouchpointStore) GetByCustomerID(_ context.Context, customerID string) ([]*domain.Touchpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Touchpoint
	for _, tp := range s.data {
		if tp.CustomerID == customerID {
			copy := *tp
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}

// ListAll retrieves all touchpoints ordered by customer_id, timestamp ASC.
func (s *TouchpointStore) ListAll(_ context.Context) ([]*domain.Touchpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Touchpoint, 0, len(s.data))
	for _, tp := range s.data {
		copy := *tp
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CustomerID != result[j].CustomerID {
			return result[i].CustomerID < result[j].CustomerID
		}
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}

var _ storage.TouchpointStore = (*TouchpointStore)(nil)
