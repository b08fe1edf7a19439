package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// budgetRetention keeps spent counters around past midnight so yesterday's
// usage stays inspectable for a while.
const budgetRetention = 48 * time.Hour

// RequestBudget implements domain.RequestBudget with one counter per key and
// UTC day.
//
// Key schema:
//
//	budget:{key}:{YYYY-MM-DD} - integer counter of requests consumed
type RequestBudget struct {
	rdb *redis.Client

	// now is replaceable for tests.
	now func() time.Time
}

// NewRequestBudget creates a RequestBudget backed by the given Client.
func NewRequestBudget(c *Client) *RequestBudget {
	return &RequestBudget{rdb: c.Underlying(), now: time.Now}
}

func budgetKey(key string, day time.Time) string {
	return "budget:" + key + ":" + day.UTC().Format("2006-01-02")
}

// Allow consumes one request from today's budget for key. It returns false
// without error when maxDaily has been reached; the failed attempt is not
// counted against the budget.
func (rb *RequestBudget) Allow(ctx context.Context, key string, maxDaily int) (bool, error) {
	k := budgetKey(key, rb.now())

	n, err := rb.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis: budget incr %s: %w", key, err)
	}
	if n == 1 {
		if err := rb.rdb.Expire(ctx, k, budgetRetention).Err(); err != nil {
			return false, fmt.Errorf("redis: budget expire %s: %w", key, err)
		}
	}
	if n > int64(maxDaily) {
		// Undo the speculative increment so UsedToday reports actual spend.
		if err := rb.rdb.Decr(ctx, k).Err(); err != nil {
			return false, fmt.Errorf("redis: budget decr %s: %w", key, err)
		}
		return false, nil
	}
	return true, nil
}

// UsedToday reports how many requests have been consumed today for key.
func (rb *RequestBudget) UsedToday(ctx context.Context, key string) (int, error) {
	n, err := rb.rdb.Get(ctx, budgetKey(key, rb.now())).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis: budget get %s: %w", key, err)
	}
	return n, nil
}

// Compile-time interface check.
var _ domain.RequestBudget = (*RequestBudget)(nil)
