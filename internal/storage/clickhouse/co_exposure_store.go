package clickhouse

import (
	"context"
	"fmt"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// CoExposureStore implements storage.CoExposureStore using ClickHouse.
type CoExposureStore struct {
	conn *Conn
}

// NewCoExposureStore creates a new CoExposureStore.
func NewCoExposureStore(conn *Conn) *CoExposureStore {
	return &CoExposureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CoExposureStore = (*CoExposureStore)(nil)

// InsertBulk adds multiple records atomically. Fails entire batch on
// any duplicate.
func (s *CoExposureStore) InsertBulk(ctx context.Context, records []*domain.CoExposureRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[r.PeriodStart]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.PeriodStart] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range records {
		exists, err := s.exists(ctx, r.PeriodStart)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO co_exposure (period_start, channels, performance)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		if err := batch.Append(r.PeriodStart, r.Channels, r.Performance); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// ListAll retrieves all records ordered by period_start ASC.
func (s *CoExposureStore) ListAll(ctx context.Context) ([]*domain.CoExposureRecord, error) {
	query := `
		SELECT period_start, channels, performance
		FROM co_exposure FINAL
		ORDER BY period_start ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	var records []*domain.CoExposureRecord
	for rows.Next() {
		var r domain.CoExposureRecord
		if err := rows.Scan(&r.PeriodStart, &r.Channels, &r.Performance); err != nil {
			return nil, fmt.Errorf("scan co-exposure row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate co-exposure rows: %w", err)
	}

	return records, nil
}

// exists checks if a record with the given period exists.
func (s *CoExposureStore) exists(ctx context.Context, periodStart int64) (bool, error) {
	query := `
		SELECT count(*) FROM co_exposure FINAL
		WHERE period_start = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, periodStart).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
