// Package ratelimit provides an injectable request limiter backed by a shared
// store, so limits hold across instances instead of living in process memory.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a request identified by key may proceed. Keys are
// built by the caller, typically identity+route.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter: first hit in a window sets the
// expiry, subsequent hits increment until the limit is reached.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, limit int64, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

var windowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := fmt.Sprintf("%s:%s", l.prefix, key)
	count, err := windowScript.Run(ctx, l.rdb, []string{fullKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}

// NoopLimiter allows everything; used when rate limiting is disabled.
type NoopLimiter struct{}

func (NoopLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}
