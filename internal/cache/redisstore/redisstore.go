// Package redisstore implements cache.Capability against Redis, the
// deployed backend for the gateway's response cache and the metering
// rate limiter's sliding-window counters (spec §4.4, §4.8).
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"infographica/internal/cache"
)

// Store is a cache.Capability backed by a Redis client.
type Store struct {
	rdb *redis.Client
}

// New wraps an existing go-redis client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// NewFromAddr dials Redis at addr (host:port), selecting db and
// authenticating with password if non-empty.
func NewFromAddr(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

var _ cache.Capability = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// Incr atomically increments key by delta, setting its TTL only the first
// time it is created within the window (mirrors a Redis INCR + EXPIRE NX
// sliding-window counter).
func (s *Store) Incr(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.IncrBy(ctx, key, delta)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Close releases the underlying Redis connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}
