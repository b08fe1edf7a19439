package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

func quote(provider, outcome string, price float64, side domain.MarketSide) domain.Quote {
	return domain.Quote{Provider: provider, Outcome: outcome, Price: price, Side: side}
}

func TestMatchQuotes_BestBackAndLay(t *testing.T) {
	quotes := []domain.Quote{
		quote("bet365", "Flamengo", 1.85, domain.SideBack),
		quote("pinnacle", "Flamengo", 1.92, domain.SideBack),
		quote("betfair", "Flamengo", 2.10, domain.SideLay),
		quote("smarkets", "Flamengo", 2.04, domain.SideLay),
	}

	matched := MatchQuotes(quotes)
	require.Len(t, matched, 1)
	assert.Equal(t, "Flamengo", matched[0].Outcome)
	assert.Equal(t, "pinnacle", matched[0].Back.Provider)
	assert.Equal(t, 1.92, matched[0].Back.Price)
	assert.Equal(t, "smarkets", matched[0].Lay.Provider)
	assert.Equal(t, 2.04, matched[0].Lay.Price)
}

func TestMatchQuotes_TieBreakFirstWins(t *testing.T) {
	quotes := []domain.Quote{
		quote("first", "Palmeiras", 1.90, domain.SideBack),
		quote("second", "Palmeiras", 1.90, domain.SideBack),
		quote("first", "Palmeiras", 2.00, domain.SideLay),
		quote("second", "Palmeiras", 2.00, domain.SideLay),
	}

	matched := MatchQuotes(quotes)
	require.Len(t, matched, 1)
	assert.Equal(t, "first", matched[0].Back.Provider)
	assert.Equal(t, "first", matched[0].Lay.Provider)
}

func TestMatchQuotes_SkipsOneSidedOutcomes(t *testing.T) {
	quotes := []domain.Quote{
		quote("bet365", "Santos", 2.5, domain.SideBack),
		quote("bet365", "Corinthians", 3.0, domain.SideBack),
		quote("betfair", "Corinthians", 3.2, domain.SideLay),
	}

	matched := MatchQuotes(quotes)
	require.Len(t, matched, 1)
	assert.Equal(t, "Corinthians", matched[0].Outcome)
}

func TestMatchQuotes_SkipsMalformedQuotes(t *testing.T) {
	quotes := []domain.Quote{
		quote("bet365", "", 2.5, domain.SideBack),
		quote("bet365", "Gremio", 0, domain.SideBack),
		quote("pinnacle", "Gremio", 1.9, domain.SideBack),
		quote("betfair", "Gremio", 2.1, domain.SideLay),
	}

	matched := MatchQuotes(quotes)
	require.Len(t, matched, 1)
	assert.Equal(t, "pinnacle", matched[0].Back.Provider)
}

func TestMatchQuotes_PreservesInputOrder(t *testing.T) {
	quotes := []domain.Quote{
		quote("a", "Zeta", 1.5, domain.SideBack),
		quote("a", "Alpha", 1.6, domain.SideBack),
		quote("b", "Zeta", 1.8, domain.SideLay),
		quote("b", "Alpha", 1.9, domain.SideLay),
	}

	matched := MatchQuotes(quotes)
	require.Len(t, matched, 2)
	assert.Equal(t, "Zeta", matched[0].Outcome)
	assert.Equal(t, "Alpha", matched[1].Outcome)
}

func TestMatchQuotes_Idempotent(t *testing.T) {
	quotes := []domain.Quote{
		quote("bet365", "Flamengo", 1.85, domain.SideBack),
		quote("pinnacle", "Flamengo", 1.92, domain.SideBack),
		quote("betfair", "Flamengo", 2.10, domain.SideLay),
		quote("smarkets", "Vasco", 3.80, domain.SideBack),
		quote("betfair", "Vasco", 4.10, domain.SideLay),
	}

	first := MatchQuotes(quotes)
	second := MatchQuotes(quotes)
	assert.Equal(t, first, second)
}
