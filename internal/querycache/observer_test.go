package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string
	Status string
}

func anyGenerating(interval time.Duration) func([]item, bool) time.Duration {
	return func(items []item, ok bool) time.Duration {
		if !ok {
			return 0
		}
		for _, it := range items {
			if it.Status == "generating" {
				return interval
			}
		}
		return 0
	}
}

type recorder[T any] struct {
	mu     sync.Mutex
	states []State[T]
}

func (r *recorder[T]) record(s State[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder[T]) first() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[0]
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func TestObserve_Disabled(t *testing.T) {
	c := New()
	var calls atomic.Int32
	o := Observe(c, Query[int]{Key: NewKey("profile", ""), Fetch: counter(&calls)}, nil)
	defer o.Close()

	assert.Equal(t, StatusDisabled, o.State().Status)
	assert.ErrorIs(t, o.Refetch(context.Background()), ErrDisabled)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestObserve_LoadsThenRefetchesOnInvalidate(t *testing.T) {
	c := New()
	var calls atomic.Int32
	rec := &recorder[int]{}
	q := Query[int]{Key: NewKey("documents", "u1"), Enabled: true, StaleTime: time.Hour, Fetch: counter(&calls)}

	o := Observe(c, q, rec.record)
	defer o.Close()

	require.Eventually(t, func() bool { return o.State().Status == StatusSuccess }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, o.State().Data)
	assert.Equal(t, StatusLoading, rec.first().Status)

	c.Invalidate(NewKey("documents", "u1"))
	require.Eventually(t, func() bool { return o.State().Data == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestObserve_ErrorState(t *testing.T) {
	c := New()
	boom := errors.New("timeout")
	o := Observe(c, Query[int]{
		Key:     NewKey("courses", "u1"),
		Enabled: true,
		Fetch:   func(context.Context) (int, error) { return 0, boom },
	}, nil)
	defer o.Close()

	require.Eventually(t, func() bool { return o.State().Status == StatusError }, time.Second, 5*time.Millisecond)
	st := o.State()
	assert.False(t, st.HasData)
	assert.ErrorIs(t, st.Err, boom)
}

func TestObserve_PollsWhileGenerating(t *testing.T) {
	c := New()
	var calls atomic.Int32
	q := Query[[]item]{
		Key:     NewKey("error-revisions", "u1"),
		Enabled: true,
		Fetch: func(context.Context) ([]item, error) {
			if calls.Add(1) < 3 {
				return []item{{ID: "r1", Status: "generating"}}, nil
			}
			return []item{{ID: "r1", Status: "completed"}}, nil
		},
		RefetchInterval: anyGenerating(10 * time.Millisecond),
	}

	o := Observe(c, q, nil)
	defer o.Close()

	require.Eventually(t, func() bool {
		st := o.State()
		return st.HasData && st.Data[0].Status == "completed"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, o.State().Polling)

	settled := calls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "polling stops once nothing is generating")
}

func TestObserve_PollingStateExposed(t *testing.T) {
	c := New()
	q := Query[[]item]{
		Key:     NewKey("revision-sheets", "u1"),
		Enabled: true,
		Fetch: func(context.Context) ([]item, error) {
			return []item{{ID: "s1", Status: "generating"}}, nil
		},
		RefetchInterval: anyGenerating(time.Hour),
	}
	o := Observe(c, q, nil)
	defer o.Close()

	require.Eventually(t, func() bool { return o.State().HasData }, time.Second, 5*time.Millisecond)
	assert.Equal(t, time.Hour, o.State().Polling)
}

func TestObserve_CloseDiscardsLateResponse(t *testing.T) {
	c := New()
	started := make(chan struct{})
	release := make(chan struct{})
	rec := &recorder[int]{}
	q := Query[int]{
		Key:     NewKey("profile", "u1"),
		Enabled: true,
		Fetch: func(context.Context) (int, error) {
			close(started)
			<-release
			return 7, nil
		},
	}

	o := Observe(c, q, rec.record)
	<-started
	o.Close()
	seen := rec.count()
	close(release)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, seen, rec.count())
	assert.Equal(t, StatusLoading, o.State().Status)
	assert.ErrorIs(t, o.Refetch(context.Background()), context.Canceled)
}

func TestObserve_CloseKeepsSharedFetchForOthers(t *testing.T) {
	c := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	q := Query[int]{
		Key:       NewKey("courses", "u1"),
		Enabled:   true,
		StaleTime: time.Hour,
		Fetch: func(ctx context.Context) (int, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			select {
			case <-release:
				return 3, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		},
	}

	first := Observe(c, q, nil)
	<-started
	second := Observe(c, q, nil)
	defer second.Close()
	// let the second load join the first one's flight
	time.Sleep(20 * time.Millisecond)

	first.Close()
	close(release)

	require.Eventually(t, func() bool {
		return second.State().Status == StatusSuccess
	}, time.Second, 5*time.Millisecond)
	st := second.State()
	assert.True(t, st.HasData)
	assert.Equal(t, 3, st.Data)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StatusLoading, first.State().Status)
}

func TestObserve_SharesCachedData(t *testing.T) {
	c := New()
	c.Set(NewKey("user-role", "u1"), "teacher")

	var calls atomic.Int32
	o := Observe(c, Query[string]{
		Key:       NewKey("user-role", "u1"),
		Enabled:   true,
		StaleTime: time.Hour,
		Fetch: func(context.Context) (string, error) {
			calls.Add(1)
			return "admin", nil
		},
	}, nil)
	defer o.Close()

	st := o.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, "teacher", st.Data)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
