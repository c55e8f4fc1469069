package clickhouse

import (
	"context"
	"fmt"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// OutcomeSeriesStore implements storage.OutcomeSeriesStore using ClickHouse.
type OutcomeSeriesStore struct {
	conn *Conn
}

// NewOutcomeSeriesStore creates a new OutcomeSeriesStore.
func NewOutcomeSeriesStore(conn *Conn) *OutcomeSeriesStore {
	return &OutcomeSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OutcomeSeriesStore = (*OutcomeSeriesStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any
// duplicate.
func (s *OutcomeSeriesStore) InsertBulk(ctx context.Context, points []*domain.OutcomePoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if p == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[p.PeriodStart]; exists {
			return storage.ErrDuplicateKey
		}
		seen[p.PeriodStart] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.PeriodStart)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO outcome_points (period_start, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.PeriodStart, p.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// ListAll retrieves all points ordered by period_start ASC.
func (s *OutcomeSeriesStore) ListAll(ctx context.Context) ([]*domain.OutcomePoint, error) {
	query := `
		SELECT period_start, value
		FROM outcome_points FINAL
		ORDER BY period_start ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	var points []*domain.OutcomePoint
	for rows.Next() {
		var p domain.OutcomePoint
		if err := rows.Scan(&p.PeriodStart, &p.Value); err != nil {
			return nil, fmt.Errorf("scan outcome point row: %w", err)
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome point rows: %w", err)
	}

	return points, nil
}

// exists checks if a point with the given period exists.
func (s *OutcomeSeriesStore) exists(ctx context.Context, periodStart int64) (bool, error) {
	query := `
		SELECT count(*) FROM outcome_points FINAL
		WHERE period_start = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, periodStart).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
