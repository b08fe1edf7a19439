package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// budgetKey is the request-budget bucket shared by all feed calls.
const budgetKey = "oddsapi"

// Fetcher retrieves raw odds for one sport. *OddsAPIClient satisfies it.
type Fetcher interface {
	GetOdds(ctx context.Context, sport string) ([]APIEvent, error)
}

// Collector assembles full market snapshots for the analyzer. Each sport's
// fetch consumes one request from the daily budget; when the budget runs out
// (or capture is paused) the collector falls back to the last cached snapshot
// so detection keeps running on stale data instead of stopping.
type Collector struct {
	fetcher    Fetcher
	cache      domain.EventCache
	budget     domain.RequestBudget
	sports     []string
	backMarket string
	layMarket  string
	maxDaily   int

	captureActive atomic.Bool

	logger *slog.Logger
}

// Config configures a Collector.
type Config struct {
	Sports     []string
	BackMarket string
	LayMarket  string
	// MaxDailyRequests caps feed calls per UTC day across all sports.
	MaxDailyRequests int
}

// New creates a Collector with capture enabled.
func New(fetcher Fetcher, cache domain.EventCache, budget domain.RequestBudget, cfg Config, logger *slog.Logger) *Collector {
	c := &Collector{
		fetcher:    fetcher,
		cache:      cache,
		budget:     budget,
		sports:     cfg.Sports,
		backMarket: cfg.BackMarket,
		layMarket:  cfg.LayMarket,
		maxDaily:   cfg.MaxDailyRequests,
		logger:     logger.With(slog.String("component", "collector")),
	}
	c.captureActive.Store(true)
	return c
}

// SetCapture toggles live data capture. While capture is off, Collect serves
// cached snapshots only and spends no API credits.
func (c *Collector) SetCapture(active bool) {
	c.captureActive.Store(active)
	c.logger.Info("capture toggled", slog.Bool("active", active))
}

// CaptureActive reports whether live capture is enabled.
func (c *Collector) CaptureActive() bool {
	return c.captureActive.Load()
}

// Collect builds a full snapshot across all configured sports. Per-sport
// failures degrade to the cached events for that sport; only a snapshot with
// no data at all is an error.
func (c *Collector) Collect(ctx context.Context) (domain.Snapshot, error) {
	snapshot := make(domain.Snapshot, len(c.sports))

	for _, sport := range c.sports {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collector: %w", err)
		}

		events, err := c.collectSport(ctx, sport)
		if err != nil {
			c.logger.Warn("sport collection failed",
				slog.String("sport", sport),
				slog.String("error", err.Error()),
			)
			continue
		}
		if len(events) > 0 {
			snapshot[sport] = events
		}
	}

	if len(snapshot) == 0 {
		return nil, fmt.Errorf("collector: no market data available")
	}
	return snapshot, nil
}

// collectSport fetches one sport live when allowed, otherwise serves the
// cached events.
func (c *Collector) collectSport(ctx context.Context, sport string) ([]domain.Event, error) {
	if !c.captureActive.Load() {
		return c.cached(ctx, sport, domain.ErrCaptureDisabled)
	}

	allowed, err := c.budget.Allow(ctx, budgetKey, c.maxDaily)
	if err != nil {
		return nil, fmt.Errorf("request budget: %w", err)
	}
	if !allowed {
		return c.cached(ctx, sport, domain.ErrBudgetExhausted)
	}

	apiEvents, err := c.fetcher.GetOdds(ctx, sport)
	if err != nil {
		// A failed fetch already consumed a budget slot; serve stale data.
		return c.cached(ctx, sport, err)
	}

	events := make([]domain.Event, 0, len(apiEvents))
	for _, ae := range apiEvents {
		event := ae.ToDomainEvent(c.backMarket, c.layMarket)
		if len(event.Quotes) == 0 {
			continue
		}
		events = append(events, event)
	}

	if err := c.cache.SetEvents(ctx, sport, events); err != nil {
		c.logger.Warn("event cache write failed",
			slog.String("sport", sport),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Debug("sport collected",
		slog.String("sport", sport),
		slog.Int("events", len(events)),
	)
	return events, nil
}

// cached returns the cached events for a sport, carrying the cause of the
// fallback if nothing is cached either.
func (c *Collector) cached(ctx context.Context, sport string, cause error) ([]domain.Event, error) {
	events, err := c.cache.GetEvents(ctx, sport)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, cause
		}
		return nil, fmt.Errorf("event cache: %w", err)
	}
	return events, nil
}

// UsedToday reports today's consumed request budget.
func (c *Collector) UsedToday(ctx context.Context) (int, error) {
	return c.budget.UsedToday(ctx, budgetKey)
}
