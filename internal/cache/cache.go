// Package cache gives readers a key-addressed, deduplicated view over
// repository reads, and mutations a controlled invalidation channel.
//
// Each entry walks a fixed life cycle:
//
//	absent -> loading -> fresh -> stale -> loading -> fresh | evicted
//
// Fresh entries are served without refetching until the fresh window
// expires; entries unused for the retention window are evicted outright. A
// failed fetch with no prior data removes the entry and surfaces the error;
// with prior data the stale value stays put (no optimistic writes, so there
// is never anything to roll back).
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultFreshFor  = 5 * time.Minute
	DefaultRetention = 30 * time.Minute
)

// FetchFunc loads the value for a key from the underlying store.
type FetchFunc func(ctx context.Context) (any, error)

// Event is pushed to the notifier whenever cached state changes in a way
// subscribed readers care about.
type Event struct {
	Type string `json:"type"` // "invalidate" | "refresh"
	Key  string `json:"key"`
}

type state int

const (
	stateLoading state = iota
	stateFresh
	stateStale
)

type entry struct {
	state       state
	value       any
	hasValue    bool
	fetchedAt   time.Time
	lastAccess  time.Time
	subscribers int
	fetch       FetchFunc // last fetcher, reused for invalidation refetches
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group

	freshFor  time.Duration
	retention time.Duration
	now       func() time.Time
	notify    func(Event)

	stop     chan struct{}
	stopOnce sync.Once
}

// Option tweaks cache construction; defaults match the source system's
// five-minute fresh and thirty-minute retention windows.
type Option func(*Cache)

func WithFreshFor(d time.Duration) Option  { return func(c *Cache) { c.freshFor = d } }
func WithRetention(d time.Duration) Option { return func(c *Cache) { c.retention = d } }

// WithNotifier registers a sink for invalidate/refresh events (the ws hub in
// production).
func WithNotifier(fn func(Event)) Option { return func(c *Cache) { c.notify = fn } }

// WithClock injects the time source. Tests only.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[Key]*entry),
		freshFor:  DefaultFreshFor,
		retention: DefaultRetention,
		now:       time.Now,
		notify:    func(Event) {},
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.janitor()
	return c
}

// Close stops the eviction janitor.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Get returns the cached value for key, fetching through fn on a miss or
// after the fresh window has lapsed. Concurrent callers for one key share a
// single in-flight fetch.
func (c *Cache) Get(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{state: stateLoading}
		c.entries[key] = e
	}
	e.lastAccess = c.now()
	e.fetch = fn
	if ok && e.state == stateFresh && c.now().Sub(e.fetchedAt) < c.freshFor {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	e.state = stateLoading
	c.mu.Unlock()

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		return fn(ctx)
	})
	return c.settle(key, v, err)
}

// GetIf is Get behind a conditional-enablement gate: a disabled read never
// touches the store and returns neither data nor an error. The second return
// reports whether the read actually ran.
func (c *Cache) GetIf(ctx context.Context, enabled bool, key Key, fn FetchFunc) (any, bool, error) {
	if !enabled {
		return nil, false, nil
	}
	v, err := c.Get(ctx, key, fn)
	return v, true, err
}

// settle records a fetch outcome under the lock.
func (c *Cache) settle(key Key, v any, err error) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if err != nil {
		if ok && e.hasValue {
			e.state = stateStale // keep prior data, surface the error
		} else if ok {
			delete(c.entries, key) // loading -> absent
		}
		return nil, err
	}
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.value = v
	e.hasValue = true
	e.state = stateFresh
	e.fetchedAt = c.now()
	e.lastAccess = c.now()
	return v, nil
}

// Subscribe registers interest in a key. Subscribed keys are refetched
// eagerly on invalidation and are exempt from retention eviction. The
// returned func cancels the subscription.
func (c *Cache) Subscribe(key Key) func() {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{state: stateLoading}
		e.lastAccess = c.now()
		c.entries[key] = e
	}
	e.subscribers++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if e, ok := c.entries[key]; ok && e.subscribers > 0 {
				e.subscribers--
				e.lastAccess = c.now()
			}
			c.mu.Unlock()
		})
	}
}

// Invalidate marks the given keys stale. Keys with live subscribers are
// refetched immediately so readers see the post-mutation state without
// waiting for their next access.
func (c *Cache) Invalidate(keys ...Key) {
	for _, key := range keys {
		c.mu.Lock()
		e, ok := c.entries[key]
		var refetch FetchFunc
		if ok {
			if e.state == stateFresh {
				e.state = stateStale
			}
			if e.subscribers > 0 && e.fetch != nil {
				refetch = e.fetch
				e.state = stateLoading
			}
		}
		c.mu.Unlock()

		// Drop any in-flight fetch for this key: a refetch issued after a
		// committed mutation must not coalesce with a read that started
		// before it and pin the pre-mutation value as fresh.
		c.group.Forget(key.String())

		c.notify(Event{Type: "invalidate", Key: key.String()})
		if refetch != nil {
			go func(key Key, fn FetchFunc) {
				v, err, _ := c.group.Do(key.String(), func() (any, error) {
					return fn(context.Background())
				})
				if _, err = c.settle(key, v, err); err == nil {
					c.notify(Event{Type: "refresh", Key: key.String()})
				}
			}(key, refetch)
		}
	}
}

// InvalidateKind invalidates every cached entry of one entity kind: the list
// key and all id-scoped keys.
func (c *Cache) InvalidateKind(kind string) {
	c.mu.Lock()
	keys := make([]Key, 0, len(c.entries))
	for key := range c.entries {
		if key.Kind == kind {
			keys = append(keys, key)
		}
	}
	c.mu.Unlock()
	c.Invalidate(keys...)
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

// evictExpired drops entries that have had no subscribers and no access for
// the retention window, regardless of freshness.
func (c *Cache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.retention)
	for key, e := range c.entries {
		if e.subscribers == 0 && e.lastAccess.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fetch is the typed front door to Cache.Get.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil || v == nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// FetchIf is the typed front door to Cache.GetIf; ok is false when the read
// was disabled.
func FetchIf[T any](ctx context.Context, c *Cache, enabled bool, key Key, fn func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T
	v, ran, err := c.GetIf(ctx, enabled, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil || !ran || v == nil {
		return zero, ran, err
	}
	return v.(T), true, nil
}
