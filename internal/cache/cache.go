package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound = errors.New("cache: entry not found")
	ErrClosed   = errors.New("cache: closed")
)

// Cache is a key-value cache with per-entry TTL.
// Sweep drops expired entries; backends that expire natively may no-op.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Sweep(ctx context.Context) (int, error)
	Close() error
}

// Group collapses concurrent misses on the same key. Each cache owner keeps
// its own, so unrelated caches never share a computation.
type Group struct{ sf singleflight.Group }

// GetOrSet returns the cached value for key or computes it with fn.
// Concurrent misses on the same key within g share one call to fn. The shared
// call is detached from ctx cancellation so one caller leaving does not fail
// the others.
func GetOrSet[V any](ctx context.Context, g *Group, c Cache[V], key string, ttl time.Duration, fn func(ctx context.Context) (V, error)) (V, bool, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, true, nil
	}

	shared := context.WithoutCancel(ctx)
	v, err, _ := g.sf.Do(key, func() (any, error) {
		val, err := fn(shared)
		if err != nil {
			return nil, err
		}
		_ = c.Set(shared, key, val, ttl)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return v.(V), false, nil
}
