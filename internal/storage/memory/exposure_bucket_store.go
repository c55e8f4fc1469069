package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// ExposureBucketStore is an in-memory implementation of
// storage.ExposureBucketStore.
type ExposureBucketStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ExposureBucket // keyed by (channel|frequency)
}

// NewExposureBucketStore creates a new in-memory exposure bucket store.
func NewExposureBucketStore() *ExposureBucketStore {
	return &ExposureBucketStore{data: make(map[string]*domain.ExposureBucket)}
}

func bucketKey(b *domain.ExposureBucket) string {
	return fmt.Sprintf("%s|%d", b.ChannelID, b.Frequency)
}

// InsertBulk adds multiple buckets atomically. Fails entire batch on
// any duplicate.
func (s *ExposureBucketStore) InsertBulk(_ context.Context, buckets []*domain.ExposureBucket) error {
	if len(buckets) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(buckets))
	for _, b := range buckets {
		if b == nil || b.Frequency < 0 {
			return storage.ErrInvalidInput
		}
		key := bucketKey(b)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, b := range buckets {
		copy := *b
		s.data[bucketKey(b)] = &copy
	}
	return nil
}

// GetByChannelID retrieves buckets for a channel ordered by frequency ASC.
func (s *ExposureBucketStore) GetByChannelID(_ context.Context, channelID string) ([]*domain.ExposureBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ExposureBucket
	for _, b := range s.data {
		if b.ChannelID == channelID {
			copy := *b
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Frequency < result[j].Frequency
	})

	return result, nil
}

// ListAll retrieves all buckets ordered by channel_id, frequency ASC.
func (s *ExposureBucketStore) ListAll(_ context.Context) ([]*domain.ExposureBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ExposureBucket, 0, len(s.data))
	for _, b := range s.data {
		copy := *b
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ChannelID != result[j].ChannelID {
			return result[i].ChannelID < result[j].ChannelID
		}
		return result[i].Frequency < result[j].Frequency
	})

	return result, nil
}

var _ storage.ExposureBucketStore = (*ExposureBucketStore)(nil)
