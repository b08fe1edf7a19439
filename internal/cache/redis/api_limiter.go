package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// APILimiter is a fixed-window request counter used to rate limit the HTTP
// API per client.
//
// Key schema:
//
//	ratelimit:{key} - integer counter, expires with the window
type APILimiter struct {
	rdb *redis.Client
}

// NewAPILimiter creates an APILimiter backed by the given Client.
func NewAPILimiter(c *Client) *APILimiter {
	return &APILimiter{rdb: c.Underlying()}
}

func rateLimitKey(key string) string { return "ratelimit:" + key }

// Allow counts one request for key and reports whether it fits inside the
// window. The window starts with the first request and resets when the key
// expires.
func (al *APILimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateLimitKey(key)

	n, err := al.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit incr %s: %w", key, err)
	}
	if n == 1 {
		if err := al.rdb.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("redis: rate limit expire %s: %w", key, err)
		}
	}
	return n <= int64(limit), nil
}
