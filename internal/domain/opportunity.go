package domain

import "time"

// Action is the entry type recommended for an opportunity.
type Action string

const (
	ActionBack       Action = "BACK"
	ActionLay        Action = "LAY"
	ActionBackAndLay Action = "BACK_AND_LAY"
	ActionMonitor    Action = "MONITOR"
)

// PricePoint is the selected best price on one side of a matched market,
// together with the provider that quoted it and its implied probability.
type PricePoint struct {
	Provider    string  `json:"provider"`
	Price       float64 `json:"price"`
	Probability float64 `json:"probability"`
}

// Recommendation is the single strategy decision derived from an
// opportunity's prices. It is a pure function of its inputs; monetary fields
// are rounded to 2 decimal places.
type Recommendation struct {
	Action          Action  `json:"action"`
	Confidence      float64 `json:"confidence"`
	Strategy        string  `json:"strategy"`
	Stake           float64 `json:"stake"`
	PotentialProfit float64 `json:"potential_profit"`
	MaxLiability    float64 `json:"max_liability"`
}

// Opportunity is the central output record of a detection cycle: a matched
// back/lay pair for one outcome of one event, with the derived arbitrage
// state, recommendation, and optional cycle-method parametrization.
//
// Invariant: Back.Price < Lay.Price; pairs violating this are never emitted.
// The full opportunity set is replaced atomically each cycle.
type Opportunity struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	Sport           string          `json:"sport"`
	HomeTeam        string          `json:"home_team"`
	AwayTeam        string          `json:"away_team"`
	Outcome         string          `json:"outcome"`
	CommenceTime    time.Time       `json:"commence_time"`
	DetectedAt      time.Time       `json:"detected_at"`
	Back            PricePoint      `json:"back"`
	Lay             PricePoint      `json:"lay"`
	DiffPercent     float64         `json:"difference_percent"`
	IsArbitrage     bool            `json:"is_arbitrage"`
	ArbitrageMargin float64         `json:"arbitrage_margin"`
	PotentialCycle  bool            `json:"potential_cycle"`
	Recommendation  Recommendation  `json:"recommendation"`
	CycleInfo       *CycleInfo      `json:"cycle_info,omitempty"`
}

// Upcoming reports whether the underlying event has not started yet. A zero
// start time counts as upcoming, mirroring Event.Upcoming.
func (o Opportunity) Upcoming(now time.Time) bool {
	if o.CommenceTime.IsZero() {
		return true
	}
	return o.CommenceTime.After(now)
}
