package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool.Pool; the relational snapshot stores (channels,
// touchpoints, exposure buckets) share one pool.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to Postgres and verifies the connection with a ping.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close releases the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// Postgres reports a violated unique constraint as SQLSTATE 23505.
const pgErrUniqueViolation = "23505"

// isDuplicateKeyError reports whether err is a unique-constraint
// violation; the stores map it onto storage.ErrDuplicateKey.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}

	return false
}

// isNotFoundError reports whether the query matched no rows.
func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
