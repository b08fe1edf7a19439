package collector

import (
	"time"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
	"github.com/mathiasanobre/bot-telegram/internal/odds"
)

// APIEvent is the wire shape of one event in The Odds API odds response.
type APIEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []APIBookmaker `json:"bookmakers"`
}

// APIBookmaker is one provider's entry inside an event.
type APIBookmaker struct {
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	LastUpdate time.Time   `json:"last_update"`
	Markets    []APIMarket `json:"markets"`
}

// APIMarket is one market offered by a bookmaker, e.g. "h2h" or "h2h_lay".
type APIMarket struct {
	Key      string       `json:"key"`
	Outcomes []APIOutcome `json:"outcomes"`
}

// APIOutcome is a single priced outcome inside a market.
type APIOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ToDomainEvent flattens an API event into a domain Event: every outcome of
// the back and lay market keys becomes one tagged Quote, with prices
// normalized to decimal odds at this boundary.
//
// Outcomes with a missing name or price are dropped here, quote by quote;
// a malformed entry never suppresses the rest of the event. Bookmaker order
// is preserved from the response so best-price selection stays deterministic.
func (e APIEvent) ToDomainEvent(backMarket, layMarket string) domain.Event {
	event := domain.Event{
		ID:           e.ID,
		Sport:        e.SportKey,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
		CommenceTime: e.CommenceTime,
	}

	for _, bk := range e.Bookmakers {
		if bk.Key == "" {
			continue
		}
		for _, market := range bk.Markets {
			var side domain.MarketSide
			switch market.Key {
			case backMarket:
				side = domain.SideBack
			case layMarket:
				side = domain.SideLay
			default:
				continue
			}
			for _, outcome := range market.Outcomes {
				if outcome.Name == "" || outcome.Price == 0 {
					continue
				}
				event.Quotes = append(event.Quotes, domain.Quote{
					Provider: bk.Key,
					Outcome:  outcome.Name,
					Price:    odds.ToDecimal(outcome.Price),
					Side:     side,
				})
			}
		}
	}

	return event
}
