package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"studyhub/internal/logging"
)

type Status string

const (
	StatusDisabled Status = "disabled"
	StatusLoading  Status = "loading"
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
)

// State is what a mounted hook exposes. Data is kept across errors, so
// Status can be error while HasData is true.
type State[T any] struct {
	Status    Status
	Data      T
	HasData   bool
	Err       error
	UpdatedAt time.Time
	Polling   time.Duration
}

// Observer is a mounted query: it loads on mount, follows cache updates for its
// key, refetches after invalidation and polls while RefetchInterval says so.
type Observer[T any] struct {
	cache    *Cache
	query    Query[T]
	onChange func(State[T])

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards state and also serializes onChange, so onChange must not call
	// back into the observer.
	mu          sync.Mutex
	state       State[T]
	version     uint64
	timer       *time.Timer
	closed      bool
	unsubscribe func()
}

// Observe mounts q. onChange, when non-nil, receives every state change until
// Close returns.
func Observe[T any](c *Cache, q Query[T], onChange func(State[T])) *Observer[T] {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Observer[T]{
		cache:    c,
		query:    q,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}

	if !q.Enabled {
		o.state = State[T]{Status: StatusDisabled}
		return o
	}

	o.unsubscribe = c.subscribe(q.Key, o.handle)
	o.sync(true)
	go o.load()
	return o
}

// State returns the current state.
func (o *Observer[T]) State() State[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Refetch forces a remote fetch of the observed key.
func (o *Observer[T]) Refetch(ctx context.Context) error {
	if !o.query.Enabled {
		return ErrDisabled
	}
	if o.isClosed() {
		return context.Canceled
	}
	_, err := Refresh(ctx, o.cache, o.query)
	o.sync(false)
	return err
}

// Close unmounts the observer. No response resolving afterwards is applied to
// its state or delivered to onChange.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.cancel()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
}

func (o *Observer[T]) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

func (o *Observer[T]) load() {
	_, err := Fetch(o.ctx, o.cache, o.query)
	if err != nil && !errors.Is(err, context.Canceled) {
		o.cache.log.Warn("query load failed", logging.Fields{
			"component": "querycache",
			"key":       o.query.Key.String(),
			"error":     err,
		})
	}
	// a fresh hit stores nothing, so nothing else would move us out of loading
	o.sync(false)
}

func (o *Observer[T]) refetch() {
	_, _ = Refresh(o.ctx, o.cache, o.query)
}

func (o *Observer[T]) handle(kind EventKind) {
	if o.isClosed() {
		return
	}
	if kind == EventInvalidated || kind == EventRemoved {
		go o.refetch()
	}
	o.sync(false)
}

// sync recomputes state from the cache and re-arms the poll timer.
func (o *Observer[T]) sync(initial bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	s := o.cache.snapshot(o.query.Key)
	if !initial && s.version == o.version {
		return
	}
	o.version = s.version

	next := State[T]{Status: StatusLoading}
	data, ok := s.data.(T)
	if ok && s.hasData {
		next.Data = data
		next.HasData = true
		next.UpdatedAt = s.updatedAt
		next.Status = StatusSuccess
	}
	if s.err != nil {
		next.Err = s.err
		next.Status = StatusError
	}
	next.Polling = o.query.interval(next.Data, next.HasData)
	o.state = next
	o.arm(next.Polling)

	if o.onChange != nil {
		o.onChange(next)
	}
}

// arm replaces the poll timer. Caller holds mu.
func (o *Observer[T]) arm(every time.Duration) {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if every <= 0 {
		return
	}
	o.timer = time.AfterFunc(every, o.refetch)
}
