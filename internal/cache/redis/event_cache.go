package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

const defaultEventTTL = 10 * time.Minute

// EventCache implements domain.EventCache with one JSON-serialized key per
// sport.
//
// Key schema:
//
//	events:{sport} - JSON array of domain.Event
type EventCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewEventCache creates an EventCache backed by the given Client. A
// non-positive ttl falls back to 10 minutes.
func NewEventCache(c *Client, ttl time.Duration) *EventCache {
	if ttl <= 0 {
		ttl = defaultEventTTL
	}
	return &EventCache{rdb: c.Underlying(), ttl: ttl}
}

func eventsKey(sport string) string { return "events:" + sport }

// SetEvents replaces the cached snapshot for a sport.
func (ec *EventCache) SetEvents(ctx context.Context, sport string, events []domain.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("redis: marshal events %s: %w", sport, err)
	}
	if err := ec.rdb.Set(ctx, eventsKey(sport), data, ec.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set events %s: %w", sport, err)
	}
	return nil
}

// GetEvents returns the cached snapshot for a sport, or domain.ErrNotFound
// when nothing is cached or the entry has expired.
func (ec *EventCache) GetEvents(ctx context.Context, sport string) ([]domain.Event, error) {
	data, err := ec.rdb.Get(ctx, eventsKey(sport)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get events %s: %w", sport, err)
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("redis: unmarshal events %s: %w", sport, err)
	}
	return events, nil
}

// Compile-time interface check.
var _ domain.EventCache = (*EventCache)(nil)
