// Package cache provides read-through caching with explicit invalidation,
// backed by process memory or Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes key. Missing keys are not an error.
	Invalidate(ctx context.Context, key string) error
}

// ReadThrough wraps a Cache so that concurrent misses for the same key
// trigger a single load.
type ReadThrough struct {
	cache Cache
	group singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64 // bumped by Invalidate
}

// NewReadThrough creates a read-through cache over c.
func NewReadThrough(c Cache) *ReadThrough {
	return &ReadThrough{cache: c, generations: make(map[string]uint64)}
}

// Invalidate drops key so the next Load re-fetches it. Loads already in
// flight for key still return to their callers but no longer store their
// result, and later Loads do not join them.
func (r *ReadThrough) Invalidate(ctx context.Context, key string) error {
	r.mu.Lock()
	r.generations[key]++
	r.mu.Unlock()
	r.group.Forget(key)

	return r.cache.Invalidate(ctx, key)
}

func (r *ReadThrough) generation(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[key]
}

// storeIfCurrent writes raw unless key was invalidated after gen was read.
// The lock is held through Set so a concurrent Invalidate deletes after it.
func (r *ReadThrough) storeIfCurrent(ctx context.Context, key string, gen uint64, raw []byte, ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generations[key] != gen {
		return
	}
	if err := r.cache.Set(ctx, key, raw, ttl); err != nil {
		log.Printf("WARN: cache set %q: %v", key, err)
	}
}

// Load returns the cached value for key, calling fn on a miss and storing
// its result for ttl. Cache backend failures degrade to calling fn directly.
func Load[T any](ctx context.Context, r *ReadThrough, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		log.Printf("WARN: cache get %q: %v", key, err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.Printf("WARN: cache decode %q: %v", key, err)
	}

	res, err, _ := r.group.Do(key, func() (any, error) {
		gen := r.generation(key)
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding cache value: %w", err)
		}
		r.storeIfCurrent(ctx, key, gen, raw, ttl)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}
