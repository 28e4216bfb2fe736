package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window counter backed by Redis.
// Key format: rl:<key>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// RateResult reports the outcome of one Allow call. RetryAfter is only
// meaningful when Allowed is false.
type RateResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// NewRateLimiter creates a limiter permitting max hits per window per key.
func NewRateLimiter(client *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: int64(max), window: window}
}

// Allow counts one hit against key's current window. A Redis failure is
// returned to the caller, which decides whether to fail open or closed.
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateResult, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	redisKey := fmt.Sprintf("rl:%s:%d", strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return RateResult{}, fmt.Errorf("rate limit incr: %w", err)
	}
	// Expire on first hit so stale windows clean themselves up.
	if hits == 1 {
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
	}

	res := RateResult{
		Allowed:   hits <= l.max,
		Remaining: l.max - hits,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		res.RetryAfter = ttl
	}
	return res, nil
}
