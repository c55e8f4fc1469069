package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

// TouchpointStore implements storage.TouchpointStore using PostgreSQL.
type TouchpointStore struct {
	pool *Pool
}

// NewTouchpointStore creates a new TouchpointStore.
func NewTouchpointStore(pool *Pool) *TouchpointStore {
	return &TouchpointStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TouchpointStore = (*TouchpointStore)(nil)

const touchpointInsertQuery = `
	INSERT INTO touchpoints (
		customer_id, channel_id, ts, action, value
	) VALUES (
		$1, $2, $3, $4, $5
	)
`

// InsertBulk adds multiple touchpoints atomically. Fails entire batch
// on any duplicate.
func (s *TouchpointStore) InsertBulk(ctx context.Context, tps []*domain.Touchpoint) error {
	if len(tps) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, tp := range tps {
		if tp == nil || tp.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, touchpointInsertQuery,
			tp.CustomerID, tp.ChannelID, tp.Timestamp, string(tp.Action), tp.Value,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert touchpoint in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByCustomerID retrieves all touchpoints for a customer, ordered by
// timestamp ASC.
func (s *TouchpointStore) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Touchpoint, error) {
	query := `
		SELECT customer_id, channel_id, ts, action, value
		FROM touchpoints
		WHERE customer_id = $1
		ORDER BY ts ASC, channel_id ASC
	`

	rows, err := s.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("get touchpoints by customer id: %w", err)
	}
	defer rows.Close()

	return scanTouchpoints(rows)
}

// ListAll retrieves all touchpoints ordered by customer_id, timestamp ASC.
func (s *TouchpointStore) ListAll(ctx context.Context) ([]*domain.Touchpoint, error) {
	query := `
		SELECT customer_id, channel_id, ts, action, value
		FROM touchpoints
		ORDER BY customer_id ASC, ts ASC, channel_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list touchpoints: %w", err)
	}
	defer rows.Close()

	return scanTouchpoints(rows)
}

// scanTouchpoints scans multiple rows into a slice of Touchpoint.
func scanTouchpoints(rows pgx.Rows) ([]*domain.Touchpoint, error) {
	var tps []*domain.Touchpoint

	for rows.Next() {
		var tp domain.Touchpoint
		var action string

		err := rows.Scan(&tp.CustomerID, &tp.ChannelID, &tp.Timestamp, &action, &tp.Value)
		if err != nil {
			return nil, fmt.Errorf("scan touchpoint row: %w", err)
		}
		tp.Action = domain.Action(action)

		tps = append(tps, &tp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate touchpoint rows: %w", err)
	}

	return tps, nil
}
