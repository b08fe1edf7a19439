package notify

import (
	"fmt"
	"strings"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// FormatOpportunity renders an opportunity alert as a title and plain-text
// body. Senders apply their own bold syntax to the title.
func FormatOpportunity(opp domain.Opportunity) (title, body string) {
	switch {
	case opp.IsArbitrage:
		title = "🔥 Arbitrage detected"
	case opp.PotentialCycle:
		title = "♻️ Cycle opportunity"
	default:
		title = "📊 Opportunity detected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚽ %s x %s\n", opp.HomeTeam, opp.AwayTeam)
	fmt.Fprintf(&b, "🎯 Outcome: %s\n", opp.Outcome)
	fmt.Fprintf(&b, "📈 Back %.2f (%s) | Lay %.2f (%s)\n",
		opp.Back.Price, opp.Back.Provider, opp.Lay.Price, opp.Lay.Provider)
	fmt.Fprintf(&b, "📐 Difference: %.2f%%\n", opp.DiffPercent)

	if opp.IsArbitrage {
		fmt.Fprintf(&b, "💰 Margin: %.2f%%\n", opp.ArbitrageMargin)
	}

	rec := opp.Recommendation
	fmt.Fprintf(&b, "✅ Action: %s (%s)\n", rec.Action, rec.Strategy)
	fmt.Fprintf(&b, "💵 Stake: %.2f | Profit: %.2f | Liability: %.2f\n",
		rec.Stake, rec.PotentialProfit, rec.MaxLiability)
	fmt.Fprintf(&b, "🔒 Confidence: %.0f%%", rec.Confidence*100)

	if opp.CycleInfo != nil {
		b.WriteString("\n\n")
		b.WriteString(formatCycleLines(*opp.CycleInfo))
	}

	if !opp.CommenceTime.IsZero() {
		fmt.Fprintf(&b, "\n🕒 Kickoff: %s", opp.CommenceTime.UTC().Format("02/01 15:04 UTC"))
	}

	return title, b.String()
}

// FormatCycle renders a cycle parametrization alert.
func FormatCycle(opp domain.Opportunity) (title, body string) {
	title = "♻️ Cycle parametrization"

	var b strings.Builder
	fmt.Fprintf(&b, "⚽ %s x %s — %s\n", opp.HomeTeam, opp.AwayTeam, opp.Outcome)
	if opp.CycleInfo != nil {
		b.WriteString(formatCycleLines(*opp.CycleInfo))
	}
	return title, b.String()
}

func formatCycleLines(info domain.CycleInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "♻️ Cycle %s @ %.2f\n", strings.ToUpper(string(info.Side)), info.Odds)
	fmt.Fprintf(&b, "🟢 Green: %.2f%% (%.2f)\n", info.GreenPercent*100, info.GreenValue)
	fmt.Fprintf(&b, "🔴 Red: %.2f%% (%.2f)\n", info.RedPercent*100, info.RedValue)
	fmt.Fprintf(&b, "⚖️ Risk/Reward: 1:%.1f | Stake: %.2f", info.RiskRewardRatio, info.Stake)
	return b.String()
}

// FormatRunSummary renders the per-run digest sent after each detection
// cycle that found something.
func FormatRunSummary(total, arbitrage, cycle int) (title, body string) {
	title = "📋 Detection run complete"
	body = fmt.Sprintf("Found %d opportunities (%d arbitrage, %d cycle-ready)",
		total, arbitrage, cycle)
	return title, body
}
