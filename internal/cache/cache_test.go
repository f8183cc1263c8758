package cache

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

// fakeClock is a manually-advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c := New(opts...)
	t.Cleanup(c.Close)
	return c
}

func TestFreshWindowServesWithoutRefetch(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, WithClock(clock.Now))

	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		calls.Add(1)
		return "v1", nil
	}
	key := List("products")

	v, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(time.Minute)
	v, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.EqualValues(t, 1, calls.Load(), "fresh entry must be served from cache")

	clock.Advance(DefaultFreshFor)
	_, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load(), "expired entry must refetch")
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	c := newTestCache(t)

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	key := List("users")
	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), key, fetch)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every goroutine time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load(), "duplicate in-flight reads must share one store read")
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestDisabledReadShortCircuits(t *testing.T) {
	c := newTestCache(t)

	var calls atomic.Int32
	v, ran, err := c.GetIf(context.Background(), false, ByID("products", 0), func(context.Context) (any, error) {
		calls.Add(1)
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Nil(t, v)
	assert.Zero(t, calls.Load(), "a disabled read must never hit the store")
	assert.Zero(t, c.Len())
}

func TestFailureWithNoPriorDataLeavesNothingCached(t *testing.T) {
	c := newTestCache(t)

	boom := errors.New("disk I/O error")
	_, err := c.Get(context.Background(), List("users"), func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len(), "failed first fetch must leave the entry absent")
}

func TestFailureKeepsPriorData(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, WithClock(clock.Now))
	key := List("users")

	_, err := c.Get(context.Background(), key, func(context.Context) (any, error) {
		return "old", nil
	})
	require.NoError(t, err)

	clock.Advance(DefaultFreshFor + time.Second)
	_, err = c.Get(context.Background(), key, func(context.Context) (any, error) {
		return nil, errors.New("statement failed")
	})
	require.Error(t, err)

	c.mu.Lock()
	e := c.entries[key]
	c.mu.Unlock()
	require.NotNil(t, e, "entry with prior data must survive a failed refetch")
	assert.Equal(t, "old", e.value)
	assert.Equal(t, stateStale, e.state)
}

func TestInvalidateRefetchesForSubscribers(t *testing.T) {
	var (
		mu     sync.Mutex
		events []Event
	)
	c := newTestCache(t, WithNotifier(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))

	var calls atomic.Int32
	key := List("products")
	fetch := func(context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}

	unsubscribe := c.Subscribe(key)
	defer unsubscribe()

	v, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	c.Invalidate(key)

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond, "subscribed key must refetch on invalidation")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		var sawInvalidate, sawRefresh bool
		for _, e := range events {
			if e.Key != key.String() {
				continue
			}
			sawInvalidate = sawInvalidate || e.Type == "invalidate"
			sawRefresh = sawRefresh || e.Type == "refresh"
		}
		return sawInvalidate && sawRefresh
	}, time.Second, 5*time.Millisecond)

	v, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "reader must see the refetched value")
}

func TestInvalidateDoesNotReuseInFlightFetch(t *testing.T) {
	c := newTestCache(t)

	var calls atomic.Int32
	release := make(chan struct{})
	key := List("products")
	fetch := func(context.Context) (any, error) {
		n := int(calls.Add(1))
		if n == 1 {
			<-release // first read stalls mid-flight
		}
		return n, nil
	}

	unsubscribe := c.Subscribe(key)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Get(context.Background(), key, fetch)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, time.Millisecond, "first read must be in flight")

	// Invalidation after a committed mutation: the eager refetch must start
	// its own store read, not coalesce with the stalled pre-mutation one.
	c.Invalidate(key)

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, time.Millisecond, "refetch must issue a fresh store read")

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		e, ok := c.entries[key]
		return ok && e.hasValue && e.value == 2
	}, time.Second, time.Millisecond, "refetch must record the post-mutation value")

	close(release)
	<-done
}

func TestInvalidateWithoutSubscribersMarksStale(t *testing.T) {
	c := newTestCache(t)

	var calls atomic.Int32
	key := List("deliveries")
	fetch := func(context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	c.Invalidate(key)
	assert.EqualValues(t, 1, calls.Load(), "no subscriber, no eager refetch")

	v, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "stale entry must refetch on next access")
}

func TestInvalidateKindCoversScopedKeys(t *testing.T) {
	c := newTestCache(t)

	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}

	_, err := c.Get(context.Background(), List("products"), fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), ByID("products", 7), fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), List("users"), fetch)
	require.NoError(t, err)
	require.EqualValues(t, 3, calls.Load())

	c.InvalidateKind("products")

	_, err = c.Get(context.Background(), List("products"), fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), ByID("products", 7), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 5, calls.Load(), "both product keys must refetch")

	_, err = c.Get(context.Background(), List("users"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 5, calls.Load(), "other kinds stay fresh")
}

func TestRetentionEvictsUnusedEntries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, WithClock(clock.Now))

	keyIdle := List("products")
	keySubscribed := List("users")
	fetch := func(context.Context) (any, error) { return "v", nil }

	_, err := c.Get(context.Background(), keyIdle, fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), keySubscribed, fetch)
	require.NoError(t, err)
	unsubscribe := c.Subscribe(keySubscribed)
	defer unsubscribe()

	clock.Advance(DefaultRetention + time.Minute)
	c.evictExpired()

	c.mu.Lock()
	_, idleAlive := c.entries[keyIdle]
	_, subscribedAlive := c.entries[keySubscribed]
	c.mu.Unlock()

	assert.False(t, idleAlive, "unused entry past retention must be evicted")
	assert.True(t, subscribedAlive, "subscribed entry must survive retention")
}
