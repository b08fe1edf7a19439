package collector

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

type fakeFetcher struct {
	events map[string][]APIEvent
	err    error
	calls  int
}

func (f *fakeFetcher) GetOdds(_ context.Context, sport string) ([]APIEvent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events[sport], nil
}

type memCache struct {
	events map[string][]domain.Event
}

func newMemCache() *memCache {
	return &memCache{events: make(map[string][]domain.Event)}
}

func (m *memCache) SetEvents(_ context.Context, sport string, events []domain.Event) error {
	m.events[sport] = events
	return nil
}

func (m *memCache) GetEvents(_ context.Context, sport string) ([]domain.Event, error) {
	events, ok := m.events[sport]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return events, nil
}

type memBudget struct {
	used int
	max  int
}

func (b *memBudget) Allow(_ context.Context, _ string, maxDaily int) (bool, error) {
	b.max = maxDaily
	if b.used >= maxDaily {
		return false, nil
	}
	b.used++
	return true, nil
}

func (b *memBudget) UsedToday(_ context.Context, _ string) (int, error) {
	return b.used, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func apiFixture(id, home string) APIEvent {
	return APIEvent{
		ID:       id,
		SportKey: "soccer",
		HomeTeam: home,
		Bookmakers: []APIBookmaker{
			{Key: "betfair", Markets: []APIMarket{
				{Key: "h2h", Outcomes: []APIOutcome{{Name: home, Price: 2.0}}},
			}},
		},
	}
}

func newTestCollector(f Fetcher, cache domain.EventCache, budget domain.RequestBudget) *Collector {
	return New(f, cache, budget, Config{
		Sports:           []string{"soccer"},
		BackMarket:       "h2h",
		LayMarket:        "h2h_lay",
		MaxDailyRequests: 10,
	}, testLogger())
}

func TestCollectFetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{events: map[string][]APIEvent{
		"soccer": {apiFixture("evt-1", "Flamengo")},
	}}
	cache := newMemCache()
	budget := &memBudget{}
	c := newTestCollector(fetcher, cache, budget)

	snapshot, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot["soccer"], 1)
	assert.Equal(t, "evt-1", snapshot["soccer"][0].ID)

	// Snapshot was written through to the cache.
	cached, err := cache.GetEvents(context.Background(), "soccer")
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.Equal(t, 1, budget.used)
}

func TestCollectServesCacheWhenBudgetExhausted(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := newMemCache()
	cache.events["soccer"] = []domain.Event{{ID: "stale-1", Sport: "soccer"}}
	budget := &memBudget{used: 10}
	c := newTestCollector(fetcher, cache, budget)

	snapshot, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot["soccer"], 1)
	assert.Equal(t, "stale-1", snapshot["soccer"][0].ID)
	assert.Zero(t, fetcher.calls)
}

func TestCollectErrorsWhenBudgetExhaustedAndCacheCold(t *testing.T) {
	fetcher := &fakeFetcher{}
	budget := &memBudget{used: 10}
	c := newTestCollector(fetcher, newMemCache(), budget)

	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Zero(t, fetcher.calls)
}

func TestCollectCaptureDisabledServesCacheOnly(t *testing.T) {
	fetcher := &fakeFetcher{events: map[string][]APIEvent{
		"soccer": {apiFixture("evt-live", "Santos")},
	}}
	cache := newMemCache()
	cache.events["soccer"] = []domain.Event{{ID: "evt-cached", Sport: "soccer"}}
	budget := &memBudget{}
	c := newTestCollector(fetcher, cache, budget)

	c.SetCapture(false)
	assert.False(t, c.CaptureActive())

	snapshot, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "evt-cached", snapshot["soccer"][0].ID)
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, budget.used)

	c.SetCapture(true)
	snapshot, err = c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "evt-live", snapshot["soccer"][0].ID)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCollectFallsBackToCacheOnFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream 502")}
	cache := newMemCache()
	cache.events["soccer"] = []domain.Event{{ID: "stale-2", Sport: "soccer"}}
	c := newTestCollector(fetcher, cache, &memBudget{})

	snapshot, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stale-2", snapshot["soccer"][0].ID)
}
