package notify

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasanobre/bot-telegram/internal/analyzer"
	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

func sampleOpportunity() domain.Opportunity {
	return domain.Opportunity{
		ID:       "opp-1",
		EventID:  "evt-1",
		Sport:    "soccer",
		HomeTeam: "Flamengo",
		AwayTeam: "Vasco",
		Outcome:  "Flamengo",
		Back:     domain.PricePoint{Provider: "pinnacle", Price: 2.2, Probability: 0.4545},
		Lay:      domain.PricePoint{Provider: "betfair", Price: 2.5, Probability: 0.4},
		// Percentage-scaled, the way the analyzer stores it.
		DiffPercent: 13.64,
		Recommendation: domain.Recommendation{
			Action:          domain.ActionBackAndLay,
			Confidence:      0.95,
			Strategy:        "arbitrage",
			Stake:           100,
			PotentialProfit: -12,
			MaxLiability:    132,
		},
	}
}

func TestFormatOpportunityArbitrageTitle(t *testing.T) {
	opp := sampleOpportunity()
	opp.IsArbitrage = true
	opp.ArbitrageMargin = 14.55

	title, body := FormatOpportunity(opp)

	assert.Equal(t, "🔥 Arbitrage detected", title)
	assert.Contains(t, body, "Flamengo x Vasco")
	assert.Contains(t, body, "Margin: 14.55%")
	assert.Contains(t, body, "Back 2.20 (pinnacle)")
	assert.Contains(t, body, "📐 Difference: 13.64%\n")
	assert.Contains(t, body, "Confidence: 95%")
}

// The difference line must render the stored value as-is: the analyzer
// already scales the back/lay gap to a percentage.
func TestFormatOpportunityFromAnalyzerOutput(t *testing.T) {
	eng := analyzer.New(analyzer.DefaultThresholds(), slog.New(slog.DiscardHandler))

	snapshot := domain.Snapshot{
		"soccer": {
			{
				ID:       "evt-1",
				Sport:    "soccer",
				HomeTeam: "Flamengo",
				AwayTeam: "Vasco",
				Quotes: []domain.Quote{
					{Provider: "pinnacle", Outcome: "Flamengo", Price: 2.20, Side: domain.SideBack},
					{Provider: "betfair", Outcome: "Flamengo", Price: 2.50, Side: domain.SideLay},
				},
			},
		},
	}

	opps := eng.Analyze(snapshot)
	require.Len(t, opps, 1)
	require.InDelta(t, 13.64, opps[0].DiffPercent, 0.01)

	_, body := FormatOpportunity(opps[0])
	assert.Contains(t, body, "📐 Difference: 13.64%\n")
	assert.NotContains(t, body, "1363.64%")
}

func TestFormatOpportunityIncludesCycleBlock(t *testing.T) {
	opp := sampleOpportunity()
	opp.PotentialCycle = true
	opp.CycleInfo = &domain.CycleInfo{
		Valid:           true,
		Side:            domain.SideLay,
		Odds:            2.0,
		GreenPercent:    0.5,
		RedPercent:      0.5,
		RiskRewardRatio: 1.0,
		Stake:           50,
		GreenValue:      50,
		RedValue:        50,
	}

	title, body := FormatOpportunity(opp)

	assert.Equal(t, "♻️ Cycle opportunity", title)
	assert.Contains(t, body, "Cycle LAY @ 2.00")
	assert.Contains(t, body, "Green: 50.00% (50.00)")
	assert.Contains(t, body, "Risk/Reward: 1:1.0")
}

func TestFormatOpportunityOmitsKickoffWhenUnknown(t *testing.T) {
	opp := sampleOpportunity()
	_, body := FormatOpportunity(opp)
	assert.NotContains(t, body, "Kickoff")

	opp.CommenceTime = time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	_, body = FormatOpportunity(opp)
	assert.Contains(t, body, "Kickoff: 01/09 18:30 UTC")
}

func TestFormatRunSummary(t *testing.T) {
	title, body := FormatRunSummary(5, 2, 1)
	assert.Equal(t, "📋 Detection run complete", title)
	assert.Equal(t, "Found 5 opportunities (2 arbitrage, 1 cycle-ready)", body)
}
