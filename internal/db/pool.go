package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LockTimeout bounds how long a class replacement waits for row or table locks
// held by another session before failing.
const LockTimeout = 30 * time.Second

// NewPool opens a pool for one tagclean command and verifies it with a ping.
// maxConns <= 0 keeps the pgxpool default. The caller must Close the pool.
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	params := cfg.ConnConfig.RuntimeParams
	params["application_name"] = "tagclean"
	params["lock_timeout"] = fmt.Sprintf("%dms", LockTimeout.Milliseconds())
	// Bulk COPY sessions run without a statement timeout.
	params["statement_timeout"] = "0"
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
