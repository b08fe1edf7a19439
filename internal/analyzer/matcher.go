package analyzer

import (
	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// MatchedOutcome pairs the best back and best lay quote found for a single
// outcome of an event.
type MatchedOutcome struct {
	Outcome string
	Back    domain.Quote
	Lay     domain.Quote
}

// MatchQuotes groups an event's quotes by outcome name, partitions each group
// into back-side and lay-side quotes, and selects the best price on each
// side: maximum for back, minimum for lay. Outcomes missing either side are
// skipped entirely.
//
// Selection is deterministic for a fixed input order: outcomes appear in
// first-encountered order and ties keep the first quote seen. The input is
// never mutated, so matching the same event twice yields identical results.
//
// Quotes with an empty outcome name or a non-positive price are skipped here
// explicitly; one malformed quote must not suppress the rest of the event.
func MatchQuotes(quotes []domain.Quote) []MatchedOutcome {
	type sides struct {
		back    domain.Quote
		lay     domain.Quote
		hasBack bool
		hasLay  bool
	}

	order := make([]string, 0, 4)
	byOutcome := make(map[string]*sides, 4)

	for _, q := range quotes {
		if q.Outcome == "" || q.Price <= 0 {
			continue
		}
		s, ok := byOutcome[q.Outcome]
		if !ok {
			s = &sides{}
			byOutcome[q.Outcome] = s
			order = append(order, q.Outcome)
		}
		switch q.Side {
		case domain.SideBack:
			if !s.hasBack || q.Price > s.back.Price {
				s.back = q
				s.hasBack = true
			}
		case domain.SideLay:
			if !s.hasLay || q.Price < s.lay.Price {
				s.lay = q
				s.hasLay = true
			}
		}
	}

	matched := make([]MatchedOutcome, 0, len(order))
	for _, name := range order {
		s := byOutcome[name]
		if !s.hasBack || !s.hasLay {
			continue
		}
		matched = append(matched, MatchedOutcome{
			Outcome: name,
			Back:    s.back,
			Lay:     s.lay,
		})
	}
	return matched
}
