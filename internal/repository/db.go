// Package repository implements pgx-backed persistence for every domain
// aggregate, grounded on codeready-toolchain-tarsy's pkg/database client
// pattern (pgxpool.Pool behind a thin per-aggregate repository, context on
// every call, row mapping via hand-written rows.Scan loops).
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renohub/core/internal/config"
)

// Pool wraps a pgxpool.Pool; repositories take it by value so callers can
// share one pool across every aggregate without import cycles.
type Pool struct {
	*pgxpool.Pool
}

// NewPool opens a connection pool sized from cfg and verifies connectivity.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return Pool{}, fmt.Errorf("repository: parsing dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return Pool{}, fmt.Errorf("repository: opening pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return Pool{}, fmt.Errorf("repository: ping: %w", err)
	}
	return Pool{pool}, nil
}
