package meter

import (
	"context"
	"fmt"
	"time"

	"infographica/internal/cache"
	"infographica/internal/ierrors"
)

// RateLimiter enforces per-minute and per-day request caps per caller,
// backed by cache.Capability's atomic Incr (spec.md §4.8: "Redis-backed
// sliding window"). Each bound is a fixed window keyed by the caller and
// the window's start, which is the same approximation
// internal/cache/redisstore.Incr's ExpireNX-on-first-write already makes.
type RateLimiter struct {
	store cache.Capability
}

// NewRateLimiter wraps a cache.Capability as a rate limiter.
func NewRateLimiter(store cache.Capability) *RateLimiter {
	return &RateLimiter{store: store}
}

// Check increments the caller's minute and day counters and compares
// against limits. A breach of either bound returns ierrors.RateLimited.
// -1 in either bound disables that window's check.
func (r *RateLimiter) Check(ctx context.Context, caller string, limits Limits, now time.Time) error {
	if limits.RequestsPerMinute > 0 {
		key := fmt.Sprintf("ratelimit:%s:minute:%d", caller, now.Unix()/60)
		n, err := r.store.Incr(ctx, key, 1, time.Minute)
		if err != nil {
			return fmt.Errorf("meter: rate limit minute check: %w", err)
		}
		if n > int64(limits.RequestsPerMinute) {
			return fmt.Errorf("%w: %d requests this minute exceeds limit of %d", ierrors.RateLimited, n, limits.RequestsPerMinute)
		}
	}
	if limits.RequestsPerDay > 0 {
		key := fmt.Sprintf("ratelimit:%s:day:%d", caller, now.Unix()/86400)
		n, err := r.store.Incr(ctx, key, 1, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("meter: rate limit day check: %w", err)
		}
		if n > int64(limits.RequestsPerDay) {
			return fmt.Errorf("%w: %d requests today exceeds limit of %d", ierrors.RateLimited, n, limits.RequestsPerDay)
		}
	}
	return nil
}
