package clickhouse

import (
	"context"
	"fmt"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// HourlyPerformanceStore implements storage.HourlyPerformanceStore using ClickHouse.
type HourlyPerformanceStore struct {
	conn *Conn
}

// NewHourlyPerformanceStore creates a new HourlyPerformanceStore.
func NewHourlyPerformanceStore(conn *Conn) *HourlyPerformanceStore {
	return &HourlyPerformanceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.HourlyPerformanceStore = (*HourlyPerformanceStore)(nil)

// InsertBulk adds multiple rows atomically. Fails entire batch on any
// duplicate.
func (s *HourlyPerformanceStore) InsertBulk(ctx context.Context, rows []*domain.HourlyPerformance) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Hour < 0 || r.Hour > 23 {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[r.Hour]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.Hour] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range rows {
		exists, err := s.exists(ctx, r.Hour)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO hourly_performance (hour, spend, revenue, conversions, activity)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		if err := batch.Append(int32(r.Hour), r.Spend, r.Revenue, r.Conversions, r.Activity); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// ListAll retrieves all rows ordered by hour ASC.
func (s *HourlyPerformanceStore) ListAll(ctx context.Context) ([]*domain.HourlyPerformance, error) {
	query := `
		SELECT hour, spend, revenue, conversions, activity
		FROM hourly_performance FINAL
		ORDER BY hour ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	var result []*domain.HourlyPerformance
	for rows.Next() {
		var hour int32
		var r domain.HourlyPerformance
		if err := rows.Scan(&hour, &r.Spend, &r.Revenue, &r.Conversions, &r.Activity); err != nil {
			return nil, fmt.Errorf("scan hourly performance row: %w", err)
		}
		r.Hour = int(hour)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly performance rows: %w", err)
	}

	return result, nil
}

// exists checks if a row for the given hour exists.
func (s *HourlyPerformanceStore) exists(ctx context.Context, hour int) (bool, error) {
	query := `
		SELECT count(*) FROM hourly_performance FINAL
		WHERE hour = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, int32(hour)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
