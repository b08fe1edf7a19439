package analyzer

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

func newTestAnalyzer() *Analyzer {
	return New(DefaultThresholds(), slog.Default())
}

func testSnapshot() domain.Snapshot {
	future := time.Now().Add(6 * time.Hour)
	past := time.Now().Add(-2 * time.Hour)

	return domain.Snapshot{
		"soccer_brazil_campeonato": []domain.Event{
			{
				ID:           "evt-1",
				Sport:        "soccer_brazil_campeonato",
				HomeTeam:     "Flamengo",
				AwayTeam:     "Vasco",
				CommenceTime: future,
				Quotes: []domain.Quote{
					quote("bet365", "Flamengo", 1.04, domain.SideBack),
					quote("pinnacle", "Flamengo", 1.05, domain.SideBack),
					quote("betfair", "Flamengo", 40, domain.SideLay),
					quote("smarkets", "Flamengo", 45, domain.SideLay),
				},
			},
			{
				ID:           "evt-2",
				Sport:        "soccer_brazil_campeonato",
				HomeTeam:     "Santos",
				AwayTeam:     "Palmeiras",
				CommenceTime: past,
				Quotes: []domain.Quote{
					quote("bet365", "Santos", 2.20, domain.SideBack),
					quote("betfair", "Santos", 2.50, domain.SideLay),
				},
			},
		},
		"soccer_epl": []domain.Event{
			{
				ID:           "evt-3",
				Sport:        "soccer_epl",
				HomeTeam:     "Arsenal",
				AwayTeam:     "Chelsea",
				CommenceTime: future,
				Quotes: []domain.Quote{
					// Gap below MinOddsDifference: no opportunity.
					quote("bet365", "Arsenal", 2.00, domain.SideBack),
					quote("betfair", "Arsenal", 2.05, domain.SideLay),
					// Back above lay: gated out entirely.
					quote("bet365", "Chelsea", 2.50, domain.SideBack),
					quote("betfair", "Chelsea", 2.30, domain.SideLay),
				},
			},
		},
	}
}

func TestAnalyze_ProducesOpportunities(t *testing.T) {
	a := newTestAnalyzer()
	opps := a.Analyze(testSnapshot())
	require.Len(t, opps, 2)

	byEvent := make(map[string]domain.Opportunity, len(opps))
	for _, opp := range opps {
		byEvent[opp.EventID] = opp
	}

	fla, ok := byEvent["evt-1"]
	require.True(t, ok)
	assert.Equal(t, "Flamengo", fla.Outcome)
	assert.Equal(t, "pinnacle", fla.Back.Provider)
	assert.Equal(t, 1.05, fla.Back.Price)
	assert.Equal(t, "betfair", fla.Lay.Provider)
	assert.Equal(t, 40.0, fla.Lay.Price)
	assert.InDelta(t, (40-1.05)/1.05*100, fla.DiffPercent, 1e-9)
	// p(1.05)+p(40) ~= 0.9524+0.025 = 0.9774 < 0.98.
	assert.True(t, fla.IsArbitrage)
	assert.InDelta(t, 2.26, fla.ArbitrageMargin, 0.01)
	// Cycle-back rule still wins the recommendation table.
	assert.Equal(t, domain.ActionBack, fla.Recommendation.Action)
	assert.Equal(t, StrategyCycleBack, fla.Recommendation.Strategy)
	assert.True(t, fla.PotentialCycle)
	// Back side fails the default ratio cap, lay side fails the green
	// target, so no cycle parametrization is attached.
	assert.Nil(t, fla.CycleInfo)

	san, ok := byEvent["evt-2"]
	require.True(t, ok)
	assert.True(t, san.IsArbitrage)
	assert.InDelta(t, 14.55, san.ArbitrageMargin, 0.01)
	assert.Equal(t, domain.ActionBackAndLay, san.Recommendation.Action)
	assert.False(t, san.PotentialCycle)
	assert.Nil(t, san.CycleInfo)
}

func TestAnalyze_InvariantBackBelowLay(t *testing.T) {
	a := newTestAnalyzer()
	for _, opp := range a.Analyze(testSnapshot()) {
		assert.Less(t, opp.Back.Price, opp.Lay.Price)
	}
}

func TestAnalyze_ReplacesSetWholesale(t *testing.T) {
	a := newTestAnalyzer()
	a.Analyze(testSnapshot())
	require.Len(t, a.Opportunities(), 2)

	a.Analyze(domain.Snapshot{})
	assert.Empty(t, a.Opportunities())
}

func TestAnalyze_AttachesCycleInfoUnderMatchingProfile(t *testing.T) {
	th := DefaultThresholds()
	th.MaxBackOdds = 1.45
	a := New(th, slog.Default())
	a.SetCustomProfile(0.35, 1.0, 3)
	require.NoError(t, a.SetProfile(domain.ProfileCustom))

	snapshot := domain.Snapshot{
		"soccer_epl": []domain.Event{
			{
				ID:           "evt-cycle",
				HomeTeam:     "Liverpool",
				AwayTeam:     "Everton",
				CommenceTime: time.Now().Add(time.Hour),
				Quotes: []domain.Quote{
					quote("bet365", "Liverpool", 1.40, domain.SideBack),
					quote("betfair", "Liverpool", 1.60, domain.SideLay),
				},
			},
		},
	}

	opps := a.Analyze(snapshot)
	require.Len(t, opps, 1)
	info := opps[0].CycleInfo
	require.NotNil(t, info)
	assert.True(t, info.Valid)
	assert.Equal(t, domain.SideBack, info.Side)
	// The attached odds always match the side they were derived from.
	assert.Equal(t, opps[0].Back.Price, info.Odds)
	assert.InDelta(t, 875.0, info.Stake, 1e-9)
}

func TestAnalyze_ProfileChangeAffectsNextCycleOnly(t *testing.T) {
	th := DefaultThresholds()
	th.MaxBackOdds = 1.45
	a := New(th, slog.Default())

	snapshot := domain.Snapshot{
		"soccer_epl": []domain.Event{
			{
				ID:           "evt-cycle",
				CommenceTime: time.Now().Add(time.Hour),
				Quotes: []domain.Quote{
					quote("bet365", "Liverpool", 1.40, domain.SideBack),
					quote("betfair", "Liverpool", 1.60, domain.SideLay),
				},
			},
		},
	}

	opps := a.Analyze(snapshot)
	require.Len(t, opps, 1)
	assert.Nil(t, opps[0].CycleInfo, "default profile rejects odds 1.40")

	a.SetCustomProfile(0.35, 1.0, 3)
	require.NoError(t, a.SetProfile(domain.ProfileCustom))

	opps = a.Analyze(snapshot)
	require.Len(t, opps, 1)
	assert.NotNil(t, opps[0].CycleInfo)
}

func TestSetProfile_UnknownNameKeepsPriorActive(t *testing.T) {
	a := newTestAnalyzer()
	require.NoError(t, a.SetProfile(domain.ProfileAggressive))

	err := a.SetProfile("reckless")
	assert.ErrorIs(t, err, domain.ErrUnknownProfile)

	name, profile := a.ActiveProfile()
	assert.Equal(t, domain.ProfileAggressive, name)
	assert.Equal(t, 0.10, profile.GreenTarget)
}

func TestActiveOpportunities_FiltersStartedEvents(t *testing.T) {
	a := newTestAnalyzer()
	a.Analyze(testSnapshot())

	active := a.ActiveOpportunities(time.Now(), false)
	require.Len(t, active, 1)
	assert.Equal(t, "evt-1", active[0].EventID)

	cycleOnly := a.ActiveOpportunities(time.Now(), true)
	require.Len(t, cycleOnly, 1)
	assert.Equal(t, "evt-1", cycleOnly[0].EventID)
}

func TestGetByEvent(t *testing.T) {
	a := newTestAnalyzer()
	a.Analyze(testSnapshot())

	opp, err := a.GetByEvent("evt-2")
	require.NoError(t, err)
	assert.Equal(t, "Santos", opp.Outcome)

	_, err = a.GetByEvent("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByTeam(t *testing.T) {
	a := newTestAnalyzer()
	a.Analyze(testSnapshot())

	assert.Len(t, a.FindByTeam([]string{"flamengo"}), 1)
	assert.Len(t, a.FindByTeam([]string{"SANTOS"}), 1)
	assert.Empty(t, a.FindByTeam([]string{"botafogo"}))
	assert.Empty(t, a.FindByTeam(nil))
}

func TestStatus(t *testing.T) {
	a := newTestAnalyzer()
	a.Analyze(testSnapshot())

	st := a.Status()
	assert.Equal(t, 2, st.OpportunityCount)
	assert.Equal(t, 1, st.ActiveCount)
	assert.Equal(t, 2, st.ArbitrageCount)
	assert.Equal(t, 0, st.CycleCount)
	assert.Equal(t, domain.ProfileDefault, st.ActiveProfile)
	assert.False(t, st.LastRun.IsZero())
}

func TestOpportunities_ReturnsCopies(t *testing.T) {
	th := DefaultThresholds()
	th.MaxBackOdds = 1.45
	a := New(th, slog.Default())
	a.SetCustomProfile(0.35, 1.0, 3)
	require.NoError(t, a.SetProfile(domain.ProfileCustom))

	a.Analyze(domain.Snapshot{
		"soccer_epl": []domain.Event{
			{
				ID:           "evt-cycle",
				CommenceTime: time.Now().Add(time.Hour),
				Quotes: []domain.Quote{
					quote("bet365", "Liverpool", 1.40, domain.SideBack),
					quote("betfair", "Liverpool", 1.60, domain.SideLay),
				},
			},
		},
	})

	first := a.Opportunities()
	require.Len(t, first, 1)
	require.NotNil(t, first[0].CycleInfo)
	first[0].CycleInfo.Stake = -1
	first[0].Outcome = "mutated"

	second := a.Opportunities()
	assert.Equal(t, "Liverpool", second[0].Outcome)
	assert.InDelta(t, 875.0, second[0].CycleInfo.Stake, 1e-9)
}
