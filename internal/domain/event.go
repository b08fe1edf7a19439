package domain

import "time"

// MarketSide distinguishes the two sides of a back/lay market pair.
type MarketSide string

const (
	SideBack MarketSide = "back"
	SideLay  MarketSide = "lay"
)

// Quote is a single provider's price for one outcome on one market side.
// Quotes are immutable once received from the feed; prices are always in
// decimal format by the time they reach the engine (American-format prices
// are normalized at the ingestion boundary).
type Quote struct {
	Provider string
	Outcome  string
	Price    float64
	Side     MarketSide
}

// Event is one scheduled contest together with every quote collected for it
// in the current feed cycle. Events are replaced wholesale on each refresh,
// never mutated in place.
type Event struct {
	ID           string
	Sport        string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Quotes       []Quote
}

// Upcoming reports whether the event has not started yet. Events with a zero
// start time are treated as upcoming so a missing timestamp never hides an
// opportunity.
func (e Event) Upcoming(now time.Time) bool {
	if e.CommenceTime.IsZero() {
		return true
	}
	return e.CommenceTime.After(now)
}

// Snapshot maps a sport key to the events fetched for it in one collection
// pass. The analyzer consumes a full snapshot per detection cycle.
type Snapshot map[string][]Event
