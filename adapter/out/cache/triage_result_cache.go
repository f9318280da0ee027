// Package cache implements the triage result cache on Redis. Results are
// keyed by a digest of the submission so identical emails resolve without
// re-running the pipeline.
package cache

import (
	"context"
	"time"

	"mailtriage/core/port/out"
	"mailtriage/pkg/cache"
)

const defaultTTL = 6 * time.Hour

// ResultCacheAdapter implements ResultCache
type ResultCacheAdapter struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewResultCacheAdapter creates a new ResultCacheAdapter. A zero TTL selects
// the default.
func NewResultCacheAdapter(c *cache.RedisCache, ttl time.Duration) *ResultCacheAdapter {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ResultCacheAdapter{cache: c, ttl: ttl}
}

// Ensure ResultCacheAdapter implements ResultCache
var _ out.ResultCache = (*ResultCacheAdapter)(nil)

// GetJSON retrieves a cached result. Returns false on a miss.
func (a *ResultCacheAdapter) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return a.cache.GetJSON(ctx, key, dest)
}

// SetJSON stores a result under the adapter's TTL when ttl is zero.
func (a *ResultCacheAdapter) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = a.ttl
	}
	return a.cache.SetJSON(ctx, key, value, ttl)
}
