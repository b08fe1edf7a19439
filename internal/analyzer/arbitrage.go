package analyzer

import (
	"github.com/mathiasanobre/bot-telegram/internal/odds"
)

// IdentifyArbitrage reports whether a back/lay pair of decimal prices locks
// in a profit regardless of outcome, and the margin as a percentage.
//
// Arbitrage holds when the combined implied probability falls below the
// tolerance threshold. The threshold sits slightly under 1 (0.98 by default)
// so that feed rounding noise does not produce phantom arbitrage; it is a
// deliberate slack, configurable via Thresholds.ArbTolerance. The margin is
// reported only when arbitrage holds, otherwise it is 0.
func IdentifyArbitrage(backPrice, layPrice, tolerance float64) (bool, float64) {
	total := odds.ImpliedProbability(backPrice) + odds.ImpliedProbability(layPrice)
	if total < tolerance {
		return true, (1 - total) * 100
	}
	return false, 0
}
