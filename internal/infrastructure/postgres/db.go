package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// maxHistoryConns bounds the pool; history writes are one row per
// notification.
const maxHistoryConns = 4

// NewPool creates a pgx connection pool for the notification history and
// checks the database is reachable.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if config.MaxConns > maxHistoryConns {
		config.MaxConns = maxHistoryConns
	}
	config.ConnConfig.RuntimeParams["application_name"] = "event-console"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}
