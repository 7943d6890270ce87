package repository

import (
	"context"
	"time"

	"github.com/renohub/core/internal/domain"
)

// CacheRepository wraps the cache_get/cache_set/cache_invalidate/
// cache_cleanup SQL functions backing the unlogged cache table. Keeping the
// TTL logic in SQL functions, rather than Go-side expiry checks, pushes
// short-lived state into the database the service already holds open.
type CacheRepository struct {
	pool Pool
}

func NewCacheRepository(pool Pool) CacheRepository {
	return CacheRepository{pool: pool}
}

// Get returns (value, true, nil) on a live hit, (nil, false, nil) on a miss
// or expired entry.
func (r CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT cache_get($1)`, key).Scan(&value)
	if err != nil {
		return nil, false, domain.Unexpected("repository: cache get", err)
	}
	if value == nil {
		return nil, false, nil
	}
	return value, true, nil
}

func (r CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.pool.Exec(ctx, `SELECT cache_set($1, $2, $3)`, key, value, int(ttl.Seconds()))
	if err != nil {
		return domain.Unexpected("repository: cache set", err)
	}
	return nil
}

func (r CacheRepository) Invalidate(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `SELECT cache_invalidate($1)`, key)
	if err != nil {
		return domain.Unexpected("repository: cache invalidate", err)
	}
	return nil
}

// Cleanup deletes every expired row and reports how many were removed;
// invoked by the scheduler's 60-second cache sweep job.
func (r CacheRepository) Cleanup(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT cache_cleanup()`).Scan(&n)
	if err != nil {
		return 0, domain.Unexpected("repository: cache cleanup", err)
	}
	return n, nil
}
