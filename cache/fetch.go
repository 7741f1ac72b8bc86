package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Fetcher wraps a Cache with a get-or-fetch path. Concurrent misses on
// the same key coalesce into a single upstream call via singleflight,
// so a burst of reads inside one freshness window costs one network
// round-trip.
type Fetcher struct {
	cache *Cache
	group singleflight.Group
}

// NewFetcher creates a Fetcher over c.
func NewFetcher(c *Cache) *Fetcher {
	return &Fetcher{cache: c}
}

// Cache returns the underlying cache, for targeted clears.
func (f *Fetcher) Cache() *Cache {
	return f.cache
}

// do is the untyped get-or-fetch. Errors are never cached.
func (f *Fetcher) do(ctx context.Context, p Policy, key string, fetch func(context.Context) (any, error)) (any, error) {
	ns := p.EffectiveNamespace()

	if v, ok := f.cache.GetNS(ns, key); ok {
		return v, nil
	}

	v, err, _ := f.group.Do(ns+":"+key, func() (any, error) {
		// Another goroutine may have populated the entry while this
		// one waited on the flight group.
		if v, ok := f.cache.GetNS(ns, key); ok {
			return v, nil
		}

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		f.cache.SetNS(ns, key, v, p.EffectiveTTL())
		return v, nil
	})
	return v, err
}

// Fetch returns the cached value for key, or runs fetch and caches the
// result under the policy's namespace and TTL.
func Fetch[T any](ctx context.Context, f *Fetcher, p Policy, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	v, err := f.do(ctx, p, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		// A namespace collision put a different type under this key;
		// fall through to a direct fetch rather than failing the read.
		return fetch(ctx)
	}
	return typed, nil
}
