// Package querycache is the process-wide store behind the entity hooks. It
// keeps one entry per Key, deduplicates concurrent fetches, serves stale data
// while revalidating, and lets mounted observers react to invalidations.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"studyhub/internal/logging"
)

// ErrDisabled is returned for queries whose gating condition is false.
// It is not a remote failure and is never recorded on an entry.
var ErrDisabled = errors.New("query disabled")

// FetchError wraps a remote failure with the key it was fetching.
type FetchError struct {
	Key Key
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// EventKind tells subscribers why an entry changed.
type EventKind int

const (
	EventUpdated EventKind = iota
	EventInvalidated
	EventRemoved
)

type entry struct {
	key         Key
	data        any
	hasData     bool
	err         error
	updatedAt   time.Time
	errorAt     time.Time
	invalidated bool
	// gen increments on every invalidation; fetches remember the gen they began in.
	gen uint64
	// version increments on every change, so observers can skip no-op notifications.
	version uint64
}

type snapshot struct {
	data        any
	hasData     bool
	err         error
	updatedAt   time.Time
	invalidated bool
	version     uint64
}

type subscriber struct {
	id int
	fn func(EventKind)
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	subs    map[string][]subscriber
	nextSub int

	group   singleflight.Group
	now     func() time.Time
	metrics *Metrics
	tracer  trace.Tracer
	log     *logging.Logger
}

type Option func(*Cache)

// WithClock replaces time.Now for freshness decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Cache) { c.tracer = t }
}

func WithLogger(l *logging.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		subs:    make(map[string][]subscriber),
		now:     time.Now,
		tracer:  otel.Tracer("studyhub/querycache"),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensure returns the entry for key, creating an empty one. Caller holds mu.
func (c *Cache) ensure(key Key) *entry {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key}
		c.entries[id] = e
	}
	return e
}

func (c *Cache) snapshot(key Key) snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok {
		return snapshot{}
	}
	return snapshot{
		data:        e.data,
		hasData:     e.hasData,
		err:         e.err,
		updatedAt:   e.updatedAt,
		invalidated: e.invalidated,
		version:     e.version,
	}
}

// Get returns the cached data for key regardless of freshness.
func Get[T any](c *Cache, key Key) (T, bool) {
	s := c.snapshot(key)
	v, ok := s.data.(T)
	return v, ok && s.hasData
}

// Set seeds key with data as if it had just been fetched.
func (c *Cache) Set(key Key, data any) {
	c.mu.Lock()
	e := c.ensure(key)
	e.data = data
	e.hasData = true
	e.err = nil
	e.updatedAt = c.now()
	e.invalidated = false
	e.version++
	c.mu.Unlock()

	c.notify([]string{key.id()}, EventUpdated)
}

// Invalidate marks every entry under prefix as invalidated and returns how many
// matched. Active observers of those keys refetch.
func (c *Cache) Invalidate(prefix Key) int {
	ids := c.mark(prefix, func(e *entry) {
		e.invalidated = true
	})
	c.metrics.invalidated(prefix.Entity(), len(ids))
	c.notify(ids, EventInvalidated)
	return len(ids)
}

// Remove drops the data under prefix, e.g. everything scoped to a user who
// signed out. In-flight fetches that began earlier still store their result
// but leave the entry invalidated.
func (c *Cache) Remove(prefix Key) int {
	ids := c.mark(prefix, func(e *entry) {
		e.data = nil
		e.hasData = false
		e.err = nil
		e.updatedAt = time.Time{}
		e.invalidated = true
	})
	c.notify(ids, EventRemoved)
	return len(ids)
}

func (c *Cache) mark(prefix Key, apply func(*entry)) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		apply(e)
		e.gen++
		e.version++
		ids = append(ids, id)
	}
	return ids
}

// subscribe registers fn for changes of key and returns the unsubscribe func.
func (c *Cache) subscribe(key Key, fn func(EventKind)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure(key)
	id := key.id()
	c.nextSub++
	subID := c.nextSub
	c.subs[id] = append(c.subs[id], subscriber{id: subID, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		list := c.subs[id]
		for i, s := range list {
			if s.id == subID {
				c.subs[id] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(c.subs[id]) == 0 {
			delete(c.subs, id)
		}
	}
}

// notify runs subscriber callbacks outside the lock.
func (c *Cache) notify(ids []string, kind EventKind) {
	var fns []func(EventKind)
	c.mu.Lock()
	for _, id := range ids {
		for _, s := range c.subs[id] {
			fns = append(fns, s.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(kind)
	}
}

// begin returns the generation a new fetch of key starts in.
func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensure(key).gen
}

// store applies a resolved fetch. The last response to resolve wins; one that
// began before an invalidation is kept but leaves the entry invalidated.
func (c *Cache) store(key Key, gen uint64, data any, err error) {
	c.mu.Lock()
	e := c.ensure(key)
	now := c.now()
	if err != nil {
		e.err = err
		e.errorAt = now
	} else {
		e.data = data
		e.hasData = true
		e.err = nil
		e.updatedAt = now
		e.invalidated = e.gen != gen
	}
	e.version++
	c.mu.Unlock()

	c.notify([]string{key.id()}, EventUpdated)
}

// run fetches key through singleflight. Flights are scoped by generation so a
// read issued after an invalidation never joins a fetch that started before it.
// The flight is detached from ctx: a caller that goes away only stops waiting,
// and the fetch still resolves for everyone else sharing it.
func (c *Cache) run(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	gen := c.begin(key)
	flight := key.id() + "@" + strconv.FormatUint(gen, 10)
	shared := context.WithoutCancel(ctx)

	ch := c.group.DoChan(flight, func() (any, error) {
		return c.resolve(shared, key, gen, fetch)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (c *Cache) resolve(ctx context.Context, key Key, gen uint64, fetch func(context.Context) (any, error)) (any, error) {
	ctx, span := c.tracer.Start(ctx, "querycache.fetch", trace.WithAttributes(
		attribute.String("querycache.entity", key.Entity()),
		attribute.String("querycache.key", key.String()),
	))
	defer span.End()

	start := time.Now()
	data, err := fetch(ctx)
	c.metrics.fetched(key.Entity(), time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.store(key, gen, nil, err)
		return nil, &FetchError{Key: key, Err: err}
	}

	c.store(key, gen, data, nil)
	return data, nil
}

// revalidate refetches key in the background after a stale read.
func (c *Cache) revalidate(ctx context.Context, key Key, fetch func(context.Context) (any, error)) {
	if _, err := c.run(ctx, key, fetch); err != nil {
		c.log.Warn("background refetch failed", logging.Fields{
			"component": "querycache",
			"key":       key.String(),
			"error":     err,
		})
	}
}
