package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// ChannelStore implements storage.ChannelStore using PostgreSQL.
type ChannelStore struct {
	pool *Pool
}

// NewChannelStore creates a new ChannelStore.
func NewChannelStore(pool *Pool) *ChannelStore {
	return &ChannelStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChannelStore = (*ChannelStore)(nil)

// Insert adds a new channel. Returns ErrDuplicateKey if channel_id exists.
func (s *ChannelStore) Insert(ctx context.Context, c *domain.Channel) error {
	if c == nil || c.ChannelID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO channels (
			channel_id, name, cost_per_impression, audience_size,
			viewability, brand_safety, audience_quality,
			decay_rate, saturation_point, reach_a, reach_b, reach_ceiling
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11, $12
		)
	`

	_, err := s.pool.Exec(ctx, query,
		c.ChannelID, c.Name, c.CostPerImpression, c.AudienceSize,
		c.Viewability, c.BrandSafety, c.AudienceQuality,
		c.DecayRate, c.SaturationPoint, c.ReachA, c.ReachB, c.ReachCeiling,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

// GetByID retrieves a channel by its ID. Returns ErrNotFound if not exists.
func (s *ChannelStore) GetByID(ctx context.Context, channelID string) (*domain.Channel, error) {
	query := `
		SELECT
			channel_id, name, cost_per_impression, audience_size,
			viewability, brand_safety, audience_quality,
			decay_rate, saturation_point, reach_a, reach_b, reach_ceiling
		FROM channels
		WHERE channel_id = $1
	`

	row := s.pool.QueryRow(ctx, query, channelID)
	c, err := scanChannel(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get channel by id: %w", err)
	}
	return c, nil
}

// List retrieves all channels ordered by channel_id ASC.
func (s *ChannelStore) List(ctx context.Context) ([]*domain.Channel, error) {
	query := `
		SELECT
			channel_id, name, cost_per_impression, audience_size,
			viewability, brand_safety, audience_quality,
			decay_rate, saturation_point, reach_a, reach_b, reach_ceiling
		FROM channels
		ORDER BY channel_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []*domain.Channel
	for rows.Next() {
		var c domain.Channel
		err := rows.Scan(
			&c.ChannelID, &c.Name, &c.CostPerImpression, &c.AudienceSize,
			&c.Viewability, &c.BrandSafety, &c.AudienceQuality,
			&c.DecayRate, &c.SaturationPoint, &c.ReachA, &c.ReachB, &c.ReachCeiling,
		)
		if err != nil {
			return nil, fmt.Errorf("scan channel row: %w", err)
		}
		channels = append(channels, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel rows: %w", err)
	}

	return channels, nil
}

// scanChannel scans a single row into a Channel.
func scanChannel(row pgx.Row) (*domain.Channel, error) {
	var c domain.Channel

	err := row.Scan(
		&c.ChannelID, &c.Name, &c.CostPerImpression, &c.AudienceSize,
		&c.Viewability, &c.BrandSafety, &c.AudienceQuality,
		&c.DecayRate, &c.SaturationPoint, &c.ReachA, &c.ReachB, &c.ReachCeiling,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
