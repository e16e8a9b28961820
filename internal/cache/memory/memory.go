// Package memory provides Cache, an in-process cache.Capability for local
// development and unit tests that run without Redis, and the separate
// fixed-TTL LRUTTL cache (lru_ttl.go), which Cache does not build on.
package memory

import (
	"context"
	"sync"
	"time"

	"infographica/internal/cache"
)

// Cache is an in-process cache.Capability. Each entry carries its own
// expiry (unlike the shared fixed-ttl LRUTTL, the gateway's response cache
// and the meter's sliding-window counters need independent TTLs on the
// same store).
type Cache struct {
	mu       sync.Mutex
	values   map[string]valueEntry
	counters map[string]counterEntry
}

type valueEntry struct {
	bytes     []byte
	expiresAt time.Time
}

type counterEntry struct {
	value     int64
	expiresAt time.Time
}

// New returns an empty in-process Cache.
func New() *Cache {
	return &Cache{
		values:   map[string]valueEntry{},
		counters: map[string]counterEntry{},
	}
}

var _ cache.Capability = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.values[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.values, key)
		return nil, false, nil
	}
	return e.bytes, true, nil
}

func (c *Cache) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl <= 0 {
		ttl = time.Hour
	}
	c.values[key] = valueEntry{bytes: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *Cache) Incr(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	e, ok := c.counters[key]
	if !ok || now.After(e.expiresAt) {
		e = counterEntry{value: 0, expiresAt: now.Add(ttl)}
	}
	e.value += delta
	c.counters[key] = e
	return e.value, nil
}
