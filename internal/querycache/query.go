package querycache

import (
	"context"
	"time"
)

// Query declares how to read one entity.
type Query[T any] struct {
	Key Key
	// Enabled is the gating condition; a disabled query never reaches the remote.
	Enabled   bool
	StaleTime time.Duration
	Fetch     func(ctx context.Context) (T, error)
	// RefetchInterval decides polling from the cached data after each update.
	// ok is false while nothing is cached. Zero means no polling.
	RefetchInterval func(data T, ok bool) time.Duration
}

func (q Query[T]) fetcher() func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		data, err := q.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
}

func (q Query[T]) interval(data T, ok bool) time.Duration {
	if q.RefetchInterval == nil {
		return 0
	}
	if d := q.RefetchInterval(data, ok); d > 0 {
		return d
	}
	return 0
}

// Fetch reads q through the cache. Fresh data is returned as is; stale data is
// returned immediately and refetched in the background; a missing or
// invalidated entry is fetched before returning.
func Fetch[T any](ctx context.Context, c *Cache, q Query[T]) (T, error) {
	var zero T
	if !q.Enabled {
		return zero, ErrDisabled
	}

	s := c.snapshot(q.Key)
	if data, ok := s.data.(T); ok && s.hasData && !s.invalidated {
		if c.now().Sub(s.updatedAt) < q.StaleTime {
			c.metrics.request(q.Key.Entity(), "hit")
			return data, nil
		}
		c.metrics.request(q.Key.Entity(), "stale")
		go c.revalidate(context.WithoutCancel(ctx), q.Key, q.fetcher())
		return data, nil
	}

	c.metrics.request(q.Key.Entity(), "miss")
	return Refresh(ctx, c, q)
}

// Refresh fetches q from the remote regardless of what is cached.
func Refresh[T any](ctx context.Context, c *Cache, q Query[T]) (T, error) {
	var zero T
	if !q.Enabled {
		return zero, ErrDisabled
	}
	v, err := c.run(ctx, q.Key, q.fetcher())
	if err != nil {
		return zero, err
	}
	data, _ := v.(T)
	return data, nil
}
