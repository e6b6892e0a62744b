package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SpatialKey rounds both components to 3 decimals (~110 m) and joins them.
func SpatialKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lon)
}

type cacheEntry[T any] struct {
	val T
	err error
}

// SpatialCache memoizes one lookup per spatial key for the lifetime of a single run.
//
// Concurrent callers for the same key share one upstream call. Errors are memoized
// as well, so a failing location is not retried within the run.
type SpatialCache[T any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[T]
	group   singleflight.Group

	// onHit is called when a lookup is served without calling the loader.
	onHit func()
}

func NewSpatialCache[T any](onHit func()) *SpatialCache[T] {
	return &SpatialCache[T]{entries: make(map[string]cacheEntry[T]), onHit: onHit}
}

func (c *SpatialCache[T]) lookup(key string) (cacheEntry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// Get returns the memoized value for the rounded location, calling load at most once per key.
func (c *SpatialCache[T]) Get(
	ctx context.Context,
	lat, lon float64,
	load func(ctx context.Context) (T, error),
) (T, error) {
	key := SpatialKey(lat, lon)
	if e, ok := c.lookup(key); ok {
		c.hit()
		return e.val, e.err
	}

	loaded := false
	v, _, _ := c.group.Do(key, func() (any, error) {
		// A caller that missed the map may arrive after the previous flight finished.
		if e, ok := c.lookup(key); ok {
			return e, nil
		}
		loaded = true
		val, err := load(ctx)
		e := cacheEntry[T]{val: val, err: err}

		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})
	if !loaded {
		c.hit()
	}

	e := v.(cacheEntry[T])
	return e.val, e.err
}

// Len returns the number of distinct keys loaded so far.
func (c *SpatialCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *SpatialCache[T]) hit() {
	if c.onHit != nil {
		c.onHit()
	}
}
