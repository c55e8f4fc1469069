package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// ExposureBucketStore implements storage.ExposureBucketStore using PostgreSQL.
type ExposureBucketStore struct {
	pool *Pool
}

// NewExposureBucketStore creates a new ExposureBucketStore.
func NewExposureBucketStore(pool *Pool) *ExposureBucketStore {
	return &ExposureBucketStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ExposureBucketStore = (*ExposureBucketStore)(nil)

const exposureBucketInsertQuery = `
	INSERT INTO exposure_buckets (
		channel_id, frequency, impressions, conversions, cost
	) VALUES (
		$1, $2, $3, $4, $5
	)
`

// InsertBulk adds multiple buckets atomically. Fails entire batch on
// any duplicate.
func (s *ExposureBucketStore) InsertBulk(ctx context.Context, buckets []*domain.ExposureBucket) error {
	if len(buckets) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range buckets {
		if b == nil || b.Frequency < 0 {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, exposureBucketInsertQuery,
			b.ChannelID, b.Frequency, b.Impressions, b.Conversions, b.Cost,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert exposure bucket in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByChannelID retrieves buckets for a channel ordered by frequency ASC.
func (s *ExposureBucketStore) GetByChannelID(ctx context.Context, channelID string) ([]*domain.ExposureBucket, error) {
	query := `
		SELECT channel_id, frequency, impressions, conversions, cost
		FROM exposure_buckets
		WHERE channel_id = $1
		ORDER BY frequency ASC
	`

	rows, err := s.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("get exposure buckets by channel id: %w", err)
	}
	defer rows.Close()

	return scanExposureBuckets(rows)
}

// ListAll retrieves all buckets ordered by channel_id, frequency ASC.
func (s *ExposureBucketStore) ListAll(ctx context.Context) ([]*domain.ExposureBucket, error) {
	query := `
		SELECT channel_id, frequency, impressions, conversions, cost
		FROM exposure_buckets
		ORDER BY channel_id ASC, frequency ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list exposure buckets: %w", err)
	}
	defer rows.Close()

	return scanExposureBuckets(rows)
}

// scanExposureBuckets scans multiple rows into a slice of ExposureBucket.
func scanExposureBuckets(rows pgx.Rows) ([]*domain.ExposureBucket, error) {
	var buckets []*domain.ExposureBucket

	for rows.Next() {
		var b domain.ExposureBucket

		err := rows.Scan(&b.ChannelID, &b.Frequency, &b.Impressions, &b.Conversions, &b.Cost)
		if err != nil {
			return nil, fmt.Errorf("scan exposure bucket row: %w", err)
		}

		buckets = append(buckets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exposure bucket rows: %w", err)
	}

	return buckets, nil
}
