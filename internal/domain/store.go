// Package domain holds the screener's core types and the interfaces its
// collaborators (stores, caches, buses, blob storage) must satisfy.
package domain

import (
	"context"
	"io"
	"time"
)

// OpportunityStore persists the opportunity set produced by detection runs.
// The set is replaced wholesale per cycle; there is no merge semantics.
type OpportunityStore interface {
	// ReplaceAll atomically swaps the stored set for the given one. An empty
	// slice clears the store.
	ReplaceAll(ctx context.Context, opps []Opportunity) error
	// ListRecent returns up to limit opportunities ordered by detection time,
	// newest first. limit <= 0 means no limit.
	ListRecent(ctx context.Context, limit int) ([]Opportunity, error)
	// GetByEvent returns the opportunity for the given event ID, or
	// ErrNotFound.
	GetByEvent(ctx context.Context, eventID string) (Opportunity, error)
	// ListUpcoming returns opportunities whose event starts after the given
	// time.
	ListUpcoming(ctx context.Context, after time.Time) ([]Opportunity, error)
	// ListCycle returns opportunities carrying a cycle parametrization.
	ListCycle(ctx context.Context) ([]Opportunity, error)
}

// EventCache stores the latest raw feed snapshot per sport so the analyzer
// can re-run without spending feed credits.
type EventCache interface {
	SetEvents(ctx context.Context, sport string, events []Event) error
	// GetEvents returns the cached events for a sport, or ErrNotFound when
	// nothing has been cached (or the entry expired).
	GetEvents(ctx context.Context, sport string) ([]Event, error)
}

// RequestBudget meters outbound feed API calls against a daily allowance.
type RequestBudget interface {
	// Allow consumes one request from today's budget for key. It returns
	// false without error when the budget is exhausted.
	Allow(ctx context.Context, key string, maxDaily int) (bool, error)
	// UsedToday reports how many requests have been consumed today for key.
	UsedToday(ctx context.Context, key string) (int, error)
}

// SignalBus delivers detection events to in-process and out-of-process
// subscribers (websocket hub, external consumers).
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of raw payloads. The channel is closed when
	// ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// BlobWriter uploads archival artifacts to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// Archiver serializes a detection run's opportunity set to cold storage.
type Archiver interface {
	ArchiveRun(ctx context.Context, runAt time.Time, opps []Opportunity) (string, error)
}
