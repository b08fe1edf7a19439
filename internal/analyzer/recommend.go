package analyzer

import (
	"github.com/mathiasanobre/bot-telegram/internal/domain"
	"github.com/mathiasanobre/bot-telegram/internal/odds"
)

// Thresholds is the tunable parameter set of the detection engine.
type Thresholds struct {
	// MinOddsDifference is the minimum relative gap (lay-back)/back for a
	// matched pair to be considered at all.
	MinOddsDifference float64
	// MinProbability is the minimum implied probability for a value entry.
	MinProbability float64
	// MaxBackOdds is the ceiling for a cycle-method back entry.
	MaxBackOdds float64
	// MinLayOdds is the floor for a cycle-method lay entry.
	MinLayOdds float64
	// ArbTolerance is the no-arbitrage threshold on combined implied
	// probability, slightly below 1 to absorb feed rounding noise.
	ArbTolerance float64
	// Bankroll is the reference bankroll for cycle stake sizing.
	Bankroll float64
}

// DefaultThresholds returns the engine defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinOddsDifference: 0.05,
		MinProbability:    0.60,
		MaxBackOdds:       1.06,
		MinLayOdds:        30.0,
		ArbTolerance:      0.98,
		Bankroll:          1000,
	}
}

// Reference stakes used by the recommendation table.
const (
	cycleStake = 100
	valueStake = 50
)

// Strategy labels emitted by Recommend.
const (
	StrategyCycleBack = "cycle-back"
	StrategyCycleLay  = "cycle-lay"
	StrategyArbitrage = "arbitrage"
	StrategyValueBack = "value-back"
	StrategyValueLay  = "value-lay"
	StrategyMonitor   = "monitor"
)

// Recommend selects a single strategy for a matched pair of decimal prices.
// The rules are evaluated in fixed priority order and the first match wins;
// the ordering encodes strategy priority (cycle entries beat arbitrage beats
// value entries) and must not be rearranged. Monetary outputs are rounded to
// 2 decimal places.
func Recommend(backPrice, layPrice float64, isArbitrage bool, th Thresholds) domain.Recommendation {
	backProb := odds.ImpliedProbability(backPrice)

	// 1. Cycle-method back: very short back price.
	if backPrice <= th.MaxBackOdds {
		return domain.Recommendation{
			Action:          domain.ActionBack,
			Confidence:      0.90,
			Strategy:        StrategyCycleBack,
			Stake:           cycleStake,
			PotentialProfit: odds.Round2(odds.BackProfit(cycleStake, backPrice)),
			MaxLiability:    cycleStake,
		}
	}

	// 2. Cycle-method lay: very long lay price.
	if layPrice >= th.MinLayOdds {
		return domain.Recommendation{
			Action:          domain.ActionLay,
			Confidence:      0.90,
			Strategy:        StrategyCycleLay,
			Stake:           cycleStake,
			PotentialProfit: cycleStake,
			MaxLiability:    odds.Round2(odds.LayLiability(cycleStake, layPrice)),
		}
	}

	// 3. Arbitrage: hedge both sides. The lay stake is sized so the profit is
	// side-independent.
	if isArbitrage {
		layStake := cycleStake * backPrice / layPrice
		backProfit := odds.BackProfit(cycleStake, backPrice)
		layLiability := odds.LayLiability(layStake, layPrice)
		return domain.Recommendation{
			Action:          domain.ActionBackAndLay,
			Confidence:      0.95,
			Strategy:        StrategyArbitrage,
			Stake:           cycleStake,
			PotentialProfit: odds.Round2(backProfit - layLiability),
			MaxLiability:    odds.Round2(layLiability),
		}
	}

	// 4. Value back: high-probability back side.
	if backProb >= th.MinProbability && backPrice < layPrice {
		return domain.Recommendation{
			Action:          domain.ActionBack,
			Confidence:      backProb,
			Strategy:        StrategyValueBack,
			Stake:           valueStake,
			PotentialProfit: odds.Round2(odds.BackProfit(valueStake, backPrice)),
			MaxLiability:    valueStake,
		}
	}

	// 5. Value lay: high-probability lay side.
	if layProb := odds.ImpliedProbability(layPrice); layProb >= th.MinProbability {
		return domain.Recommendation{
			Action:          domain.ActionLay,
			Confidence:      layProb,
			Strategy:        StrategyValueLay,
			Stake:           valueStake,
			PotentialProfit: valueStake,
			MaxLiability:    odds.Round2(odds.LayLiability(valueStake, layPrice)),
		}
	}

	// 6. Nothing actionable.
	return domain.Recommendation{
		Action:   domain.ActionMonitor,
		Strategy: StrategyMonitor,
	}
}
