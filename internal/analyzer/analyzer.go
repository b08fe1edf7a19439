// Package analyzer implements the opportunity detection and risk
// classification engine: it matches equivalent outcomes across provider
// quotes, detects back/lay arbitrage, generates strategy recommendations, and
// parametrizes cycle-method entries under the active risk profile.
package analyzer

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
	"github.com/mathiasanobre/bot-telegram/internal/odds"
)

// Analyzer runs detection cycles over full feed snapshots. Each call to
// Analyze is synchronous and replaces the held opportunity set atomically.
// The only durable state is the named profile table, the active profile
// selection, and the latest opportunity set; all of it sits behind a single
// lock so notification and dashboard consumers can read concurrently with a
// running cycle.
type Analyzer struct {
	mu         sync.RWMutex
	thresholds Thresholds
	profiles   map[string]domain.CycleProfile
	active     string

	opportunities []domain.Opportunity
	lastRun       time.Time

	logger *slog.Logger
}

// New creates an Analyzer with the given thresholds, the built-in cycle
// profiles, and "default" as the active profile.
func New(th Thresholds, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		thresholds: th,
		profiles:   domain.BuiltinProfiles(),
		active:     domain.ProfileDefault,
		logger:     logger.With(slog.String("component", "analyzer")),
	}
}

// Analyze runs one detection cycle over a full snapshot of market data and
// returns the fresh opportunity set. The held set is replaced wholesale, not
// merged. The active profile is read once at the start of the cycle, so a
// concurrent SetProfile only affects the next call.
func (a *Analyzer) Analyze(snapshot domain.Snapshot) []domain.Opportunity {
	a.mu.RLock()
	th := a.thresholds
	profile := a.profiles[a.active]
	a.mu.RUnlock()

	now := time.Now().UTC()
	var opps []domain.Opportunity

	for sport, events := range snapshot {
		for _, event := range events {
			for _, m := range MatchQuotes(event.Quotes) {
				opp, ok := a.evaluate(sport, event, m, th, profile, now)
				if !ok {
					continue
				}
				opps = append(opps, opp)
			}
		}
	}

	a.mu.Lock()
	a.opportunities = opps
	a.lastRun = now
	a.mu.Unlock()

	a.logger.Info("detection cycle complete",
		slog.Int("sports", len(snapshot)),
		slog.Int("opportunities", len(opps)),
	)
	return a.copyOpportunities(opps)
}

// evaluate turns one matched outcome into an opportunity record, or reports
// false when the pair does not clear the entry gates.
func (a *Analyzer) evaluate(
	sport string,
	event domain.Event,
	m MatchedOutcome,
	th Thresholds,
	profile domain.CycleProfile,
	now time.Time,
) (domain.Opportunity, bool) {
	backPrice := m.Back.Price
	layPrice := m.Lay.Price

	// Gating condition: only pairs where the back price sits strictly below
	// the lay price are candidates at all.
	if backPrice >= layPrice {
		return domain.Opportunity{}, false
	}

	diff := (layPrice - backPrice) / backPrice
	if diff < th.MinOddsDifference {
		return domain.Opportunity{}, false
	}

	isArb, margin := IdentifyArbitrage(backPrice, layPrice, th.ArbTolerance)

	opp := domain.Opportunity{
		ID:           uuid.NewString(),
		EventID:      event.ID,
		Sport:        sport,
		HomeTeam:     event.HomeTeam,
		AwayTeam:     event.AwayTeam,
		Outcome:      m.Outcome,
		CommenceTime: event.CommenceTime,
		DetectedAt:   now,
		Back: domain.PricePoint{
			Provider:    m.Back.Provider,
			Price:       backPrice,
			Probability: odds.ImpliedProbability(backPrice),
		},
		Lay: domain.PricePoint{
			Provider:    m.Lay.Provider,
			Price:       layPrice,
			Probability: odds.ImpliedProbability(layPrice),
		},
		DiffPercent:     diff * 100,
		IsArbitrage:     isArb,
		ArbitrageMargin: margin,
		Recommendation:  Recommend(backPrice, layPrice, isArb, th),
	}

	// Cycle-method screening: short back prices and long lay prices are
	// candidates; the first side that validates under the active profile
	// supplies the attached parametrization.
	if backPrice <= th.MaxBackOdds || layPrice >= th.MinLayOdds {
		opp.PotentialCycle = true
	}
	if backPrice <= th.MaxBackOdds {
		opp.CycleInfo = cycleInfoFor(backPrice, domain.SideBack, profile, th.Bankroll)
	}
	if opp.CycleInfo == nil && layPrice >= th.MinLayOdds {
		opp.CycleInfo = cycleInfoFor(layPrice, domain.SideLay, profile, th.Bankroll)
	}

	return opp, true
}

// Restore seeds the analyzer with a previously persisted opportunity set.
// Used at startup so query surfaces are not empty before the first cycle.
func (a *Analyzer) Restore(opps []domain.Opportunity, at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opportunities = a.copyOpportunities(opps)
	a.lastRun = at
}

// Opportunities returns a copy of the latest detection cycle's output.
func (a *Analyzer) Opportunities() []domain.Opportunity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.copyOpportunities(a.opportunities)
}

// ActiveOpportunities returns opportunities whose event has not started yet.
// When cycleOnly is set, only cycle-method candidates are returned.
func (a *Analyzer) ActiveOpportunities(now time.Time, cycleOnly bool) []domain.Opportunity {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.Opportunity, 0, len(a.opportunities))
	for _, opp := range a.opportunities {
		if !opp.Upcoming(now) {
			continue
		}
		if cycleOnly && !opp.PotentialCycle && opp.CycleInfo == nil {
			continue
		}
		out = append(out, opp)
	}
	return out
}

// CycleOpportunities returns opportunities carrying a valid cycle
// parametrization.
func (a *Analyzer) CycleOpportunities() []domain.Opportunity {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []domain.Opportunity
	for _, opp := range a.opportunities {
		if opp.CycleInfo != nil {
			out = append(out, opp)
		}
	}
	return out
}

// GetByEvent returns the first opportunity recorded for the given event ID,
// or domain.ErrNotFound.
func (a *Analyzer) GetByEvent(eventID string) (domain.Opportunity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, opp := range a.opportunities {
		if opp.EventID == eventID {
			return opp, nil
		}
	}
	return domain.Opportunity{}, domain.ErrNotFound
}

// FindByTeam returns opportunities whose team names contain any of the given
// search terms, case-insensitively.
func (a *Analyzer) FindByTeam(terms []string) []domain.Opportunity {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	if len(lowered) == 0 {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []domain.Opportunity
	for _, opp := range a.opportunities {
		home := strings.ToLower(opp.HomeTeam)
		away := strings.ToLower(opp.AwayTeam)
		outcome := strings.ToLower(opp.Outcome)
		for _, term := range lowered {
			if strings.Contains(home, term) || strings.Contains(away, term) || strings.Contains(outcome, term) {
				out = append(out, opp)
				break
			}
		}
	}
	return out
}

// SetProfile activates the named cycle profile for subsequent cycles. An
// unknown name leaves the prior profile active and returns
// domain.ErrUnknownProfile.
func (a *Analyzer) SetProfile(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.profiles[name]; !ok {
		a.logger.Warn("rejected unknown cycle profile",
			slog.String("profile", name),
			slog.String("active", a.active),
		)
		return domain.ErrUnknownProfile
	}
	a.active = name
	a.logger.Info("cycle profile activated", slog.String("profile", name))
	return nil
}

// SetCustomProfile installs the runtime-configurable custom profile. If the
// custom profile is currently active, the new parameters take effect on the
// next cycle.
func (a *Analyzer) SetCustomProfile(greenTarget, maxRed float64, riskRewardRatio int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.profiles[domain.ProfileCustom] = domain.CycleProfile{
		GreenTarget:     greenTarget,
		MaxRed:          maxRed,
		RiskRewardRatio: riskRewardRatio,
	}
	a.logger.Info("custom cycle profile installed",
		slog.Float64("green_target", greenTarget),
		slog.Float64("max_red", maxRed),
		slog.Int("risk_reward_ratio", riskRewardRatio),
	)
}

// ActiveProfile returns the active profile name and its parameters.
func (a *Analyzer) ActiveProfile() (string, domain.CycleProfile) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active, a.profiles[a.active]
}

// Profiles returns a copy of the named profile table.
func (a *Analyzer) Profiles() map[string]domain.CycleProfile {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]domain.CycleProfile, len(a.profiles))
	for name, p := range a.profiles {
		out[name] = p
	}
	return out
}

// Thresholds returns the engine's threshold set.
func (a *Analyzer) Thresholds() Thresholds {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.thresholds
}

// Status is a point-in-time summary of the analyzer for status surfaces.
type Status struct {
	OpportunityCount int       `json:"opportunity_count"`
	ActiveCount      int       `json:"active_count"`
	CycleCount       int       `json:"cycle_count"`
	ArbitrageCount   int       `json:"arbitrage_count"`
	ActiveProfile    string    `json:"active_profile"`
	LastRun          time.Time `json:"last_run"`
}

// Status summarizes the latest detection cycle.
func (a *Analyzer) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := time.Now().UTC()
	st := Status{
		OpportunityCount: len(a.opportunities),
		ActiveProfile:    a.active,
		LastRun:          a.lastRun,
	}
	for _, opp := range a.opportunities {
		if opp.Upcoming(now) {
			st.ActiveCount++
		}
		if opp.CycleInfo != nil {
			st.CycleCount++
		}
		if opp.IsArbitrage {
			st.ArbitrageCount++
		}
	}
	return st
}

// copyOpportunities clones the slice so callers never alias internal state.
// CycleInfo pointers are deep-copied for the same reason.
func (a *Analyzer) copyOpportunities(opps []domain.Opportunity) []domain.Opportunity {
	out := make([]domain.Opportunity, len(opps))
	copy(out, opps)
	for i := range out {
		if out[i].CycleInfo != nil {
			ci := *out[i].CycleInfo
			out[i].CycleInfo = &ci
		}
	}
	return out
}
