package storage

import (
	"context"

	"media-mix-lab/internal/domain"
)

// ChannelStore provides access to channel storage.
type ChannelStore interface {
	// Insert adds a new channel. Returns ErrDuplicateKey if channel_id exists.
	Insert(ctx context.Context, c *domain.Channel) error

	// GetByID retrieves a channel by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, channelID string) (*domain.Channel, error)

	// List retrieves all channels ordered by channel_id ASC.
	List(ctx context.Context) ([]*domain.Channel, error)
}

// TouchpointStore provides access to touchpoint storage.
type TouchpointStore interface {
	// InsertBulk adds multiple touchpoints atomically. Fails the entire
	// batch on a duplicate (customer_id, channel_id, timestamp, action).
	InsertBulk(ctx context.Context, tps []*domain.Touchpoint) error

	// GetByCustomerID retrieves all touchpoints for a customer, ordered
	// by timestamp ASC.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Touchpoint, error)

	// ListAll retrieves all touchpoints ordered by customer_id, timestamp ASC.
	ListAll(ctx context.Context) ([]*domain.Touchpoint, error)
}

// ExposureBucketStore provides access to exposure-by-frequency storage.
type ExposureBucketStore interface {
	// InsertBulk adds multiple buckets atomically. Fails the entire
	// batch on a duplicate (channel_id, frequency).
	InsertBulk(ctx context.Context, buckets []*domain.ExposureBucket) error

	// GetByChannelID retrieves buckets for a channel ordered by frequency ASC.
	GetByChannelID(ctx context.Context, channelID string) ([]*domain.ExposureBucket, error)

	// ListAll retrieves all buckets ordered by channel_id, frequency ASC.
	ListAll(ctx context.Context) ([]*domain.ExposureBucket, error)
}

// SpendSeriesStore provides access to per-period channel spend storage.
type SpendSeriesStore interface {
	// InsertBulk adds multiple points. Fails the entire batch on a
	// duplicate (channel_id, period_start).
	InsertBulk(ctx context.Context, points []*domain.SpendPoint) error

	// GetByChannelID retrieves all points for a channel, ordered by
	// period_start ASC.
	GetByChannelID(ctx context.Context, channelID string) ([]*domain.SpendPoint, error)

	// ListChannelIDs retrieves the distinct channel IDs present,
	// ordered ASC.
	ListChannelIDs(ctx context.Context) ([]string, error)
}

// OutcomeSeriesStore provides access to the per-period outcome series.
type OutcomeSeriesStore interface {
	// InsertBulk adds multiple points. Fails the entire batch on a
	// duplicate period_start.
	InsertBulk(ctx context.Context, points []*domain.OutcomePoint) error

	// ListAll retrieves all points ordered by period_start ASC.
	ListAll(ctx context.Context) ([]*domain.OutcomePoint, error)
}

// CoExposureStore provides access to per-period exposure-indicator
// observations used for synergy analysis.
type CoExposureStore interface {
	// InsertBulk adds multiple records. Fails the entire batch on a
	// duplicate period_start.
	InsertBulk(ctx context.Context, records []*domain.CoExposureRecord) error

	// ListAll retrieves all records ordered by period_start ASC.
	ListAll(ctx context.Context) ([]*domain.CoExposureRecord, error)
}

// HourlyPerformanceStore provides access to hour-of-day aggregates.
type HourlyPerformanceStore interface {
	// InsertBulk adds multiple rows. Fails the entire batch on a
	// duplicate hour.
	InsertBulk(ctx context.Context, rows []*domain.HourlyPerformance) error

	// ListAll retrieves all rows ordered by hour ASC.
	ListAll(ctx context.Context) ([]*domain.HourlyPerformance, error)
}
