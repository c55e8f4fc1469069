package memory

import (
	"context"
	"sort"
	"sync"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// ChannelStore is an in-memory implementation of storage.ChannelStore.
type ChannelStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Channel // keyed by channel_id
}

// NewChannelStore creates a new in-memory channel store.
func NewChannelStore() *ChannelStore {
	return &ChannelStore{data: make(map[string]*domain.Channel)}
}

// Insert adds a new channel. Returns ErrDuplicateKey if channel_id exists.
func (s *ChannelStore) Insert(_ context.Context, c *domain.Channel) error {
	if c == nil || c.ChannelID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ChannelID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *c
	s.data[c.ChannelID] = &copy
	return nil
}

// GetByID retrieves a channel by its ID. Returns ErrNotFound if not exists.
func (s *ChannelStore) GetByID(_ context.Context, channelID string) (*domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[channelID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *c
	return &copy, nil
}

// List retrieves all channels ordered by channel_id ASC.
func (s *ChannelStore) List(_ context.Context) ([]*domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Channel, 0, len(s.data))
	for _, c := range s.data {
		copy := *c
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ChannelID < result[j].ChannelID
	})

	return result, nil
}

var _ storage.ChannelStore = (*ChannelStore)(nil)
