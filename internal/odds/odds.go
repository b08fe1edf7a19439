// Package odds converts raw feed prices between formats and computes the
// basic betting-exchange quantities (implied probability, back profit, lay
// liability) used throughout the analyzer.
package odds

import "math"

// ToDecimal normalizes a raw feed price to decimal odds.
//
// Prices carrying a fractional component are already decimal and pass
// through unchanged, as do whole-number prices below the American threshold
// (well-formed American odds always have magnitude >= 100, well-formed
// decimal odds never do). Whole-number prices at or beyond +/-100 follow the
// American convention: +150 -> 2.50, -200 -> 1.50.
func ToDecimal(price float64) float64 {
	if price == math.Trunc(price) && (price >= 100 || price <= -100) {
		return FromAmerican(int(price))
	}
	return price
}

// FromAmerican converts American-format odds to decimal odds.
func FromAmerican(american int) float64 {
	if american > 0 {
		return float64(american)/100 + 1
	}
	return 100/math.Abs(float64(american)) + 1
}

// ImpliedProbability returns the probability implied by decimal odds. Zero or
// negative odds yield probability 0 rather than an error; degenerate prices
// show up in feed noise and must not abort a batch.
func ImpliedProbability(decimal float64) float64 {
	if decimal <= 0 {
		return 0
	}
	return 1 / decimal
}

// BackProfit returns the potential profit of a back bet: stake * (odds - 1).
func BackProfit(stake, decimal float64) float64 {
	return stake * (decimal - 1)
}

// LayLiability returns the liability of a lay bet: stake * (odds - 1).
func LayLiability(stake, decimal float64) float64 {
	return stake * (decimal - 1)
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
