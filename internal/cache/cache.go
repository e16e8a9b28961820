// Package cache defines the Capability every cache backend (in-process map
// for tests and single-instance deployments, Redis for anything shared)
// implements: response caching for the LLM gateway (spec §4.4) and the
// counters backing the metering rate limiter (spec §4.8).
package cache

import (
	"context"
	"time"
)

// Capability is the minimal surface the gateway and meter need from a
// cache/counter store.
type Capability interface {
	// Get returns the stored value and true if key is present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// SetTTL stores value under key, expiring after ttl.
	SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Incr atomically adds delta to the integer counter at key, creating it
	// with the given ttl if absent, and returns the new value. Used for
	// sliding-window rate limiting and rolling cost counters.
	Incr(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}
