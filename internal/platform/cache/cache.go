// Package cache memoizes upstream lookups for a fixed TTL and collapses
// concurrent misses for the same key into one call.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds a shared call once it no longer follows any caller's
// cancellation.
const flightTimeout = 30 * time.Second

type Cache[V any] struct {
	store *ristretto.Cache[string, V]
	ttl   time.Duration
	group singleflight.Group
}

// New returns a cache holding at most maxEntries values, each for ttl.
func New[V any](maxEntries int64, ttl time.Duration) (*Cache[V], error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cache[V]{store: store, ttl: ttl}, nil
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.store.Get(key)
}

// Set stores v and waits until it is visible to Get.
func (c *Cache[V]) Set(key string, v V) {
	c.store.SetWithTTL(key, v, 1, c.ttl)
	c.store.Wait()
}

// Do returns the cached value for key, or runs fn once for all concurrent
// callers and caches a successful result. Errors are never cached.
//
// fn runs detached from the caller's cancellation so that one caller giving
// up does not fail the others waiting on the same key. Each caller still
// returns early with its own ctx.Err().
func (c *Cache[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()

		v, err := fn(fctx)
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache[V]) Close() {
	c.store.Close()
}
