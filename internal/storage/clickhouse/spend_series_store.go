package clickhouse

import (
	"context"
	"fmt"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// SpendSeriesStore implements storage.SpendSeriesStore using ClickHouse.
type SpendSeriesStore struct {
	conn *Conn
}

// NewSpendSeriesStore creates a new SpendSeriesStore.
func NewSpendSeriesStore(conn *Conn) *SpendSeriesStore {
	return &SpendSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SpendSeriesStore = (*SpendSeriesStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any
// duplicate.
func (s *SpendSeriesStore) InsertBulk(ctx context.Context, points []*domain.SpendPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.ChannelID == "" {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%d", p.ChannelID, p.PeriodStart)
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.ChannelID, p.PeriodStart)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO spend_points (
			channel_id, period_start, spend, impressions, conversions, value
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(p.ChannelID, p.PeriodStart, p.Spend, p.Impressions, p.Conversions, p.Value)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByChannelID retrieves all points for a channel, ordered by
// period_start ASC.
func (s *SpendSeriesStore) GetByChannelID(ctx context.Context, channelID string) ([]*domain.SpendPoint, error) {
	query := `
		SELECT channel_id, period_start, spend, impressions, conversions, value
		FROM spend_points FINAL
		WHERE channel_id = ?
		ORDER BY period_start ASC
	`

	rows, err := s.conn.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("query by channel: %w", err)
	}
	defer rows.Close()

	return scanSpendPoints(rows)
}

// ListChannelIDs retrieves the distinct channel IDs present, ordered ASC.
func (s *SpendSeriesStore) ListChannelIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT channel_id
		FROM spend_points FINAL
		ORDER BY channel_id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query channel ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan channel id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel ids: %w", err)
	}

	return ids, nil
}

// exists checks if a point with the given key exists.
func (s *SpendSeriesStore) exists(ctx context.Context, channelID string, periodStart int64) (bool, error) {
	query := `
		SELECT count(*) FROM spend_points FINAL
		WHERE channel_id = ? AND period_start = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, channelID, periodStart).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanSpendPoints scans multiple rows into a slice.
func scanSpendPoints(rows chRows) ([]*domain.SpendPoint, error) {
	var points []*domain.SpendPoint

	for rows.Next() {
		var p domain.SpendPoint
		err := rows.Scan(&p.ChannelID, &p.PeriodStart, &p.Spend, &p.Impressions, &p.Conversions, &p.Value)
		if err != nil {
			return nil, fmt.Errorf("scan spend point row: %w", err)
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spend point rows: %w", err)
	}

	return points, nil
}
