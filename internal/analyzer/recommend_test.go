package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

func TestRecommend_CycleBackBeatsEverything(t *testing.T) {
	th := DefaultThresholds()

	// backPrice=1.05 qualifies for cycle-back; layPrice=40 would also qualify
	// for cycle-lay and the pair is arbitrage, but rule 1 wins.
	rec := Recommend(1.05, 40, true, th)
	assert.Equal(t, domain.ActionBack, rec.Action)
	assert.Equal(t, StrategyCycleBack, rec.Strategy)
	assert.Equal(t, 0.90, rec.Confidence)
	assert.Equal(t, 100.0, rec.Stake)
	assert.Equal(t, 5.0, rec.PotentialProfit)
	assert.Equal(t, 100.0, rec.MaxLiability)
}

func TestRecommend_CycleLay(t *testing.T) {
	th := DefaultThresholds()

	rec := Recommend(25, 32, false, th)
	assert.Equal(t, domain.ActionLay, rec.Action)
	assert.Equal(t, StrategyCycleLay, rec.Strategy)
	assert.Equal(t, 100.0, rec.Stake)
	assert.Equal(t, 100.0, rec.PotentialProfit)
	assert.Equal(t, 3100.0, rec.MaxLiability)
}

func TestRecommend_Arbitrage(t *testing.T) {
	th := DefaultThresholds()

	rec := Recommend(2.20, 2.50, true, th)
	assert.Equal(t, domain.ActionBackAndLay, rec.Action)
	assert.Equal(t, StrategyArbitrage, rec.Strategy)
	assert.Equal(t, 0.95, rec.Confidence)
	assert.Equal(t, 100.0, rec.Stake)
	// layStake = 100*2.20/2.50 = 88; backProfit = 120; layLiability = 132.
	assert.Equal(t, 132.0, rec.MaxLiability)
	assert.Equal(t, -12.0, rec.PotentialProfit)
}

func TestRecommend_ValueBack(t *testing.T) {
	th := DefaultThresholds()

	rec := Recommend(1.50, 1.60, false, th)
	assert.Equal(t, domain.ActionBack, rec.Action)
	assert.Equal(t, StrategyValueBack, rec.Strategy)
	assert.InDelta(t, 0.6667, rec.Confidence, 0.0001)
	assert.Equal(t, 50.0, rec.Stake)
	assert.Equal(t, 25.0, rec.PotentialProfit)
	assert.Equal(t, 50.0, rec.MaxLiability)
}

func TestRecommend_ValueLay(t *testing.T) {
	th := DefaultThresholds()

	// Back probability 0.435 misses the value-back gate; lay probability
	// 1/1.55 ~= 0.645 clears the value-lay gate.
	rec := Recommend(2.30, 1.55, false, th)
	assert.Equal(t, domain.ActionLay, rec.Action)
	assert.Equal(t, StrategyValueLay, rec.Strategy)
	assert.InDelta(t, 0.6452, rec.Confidence, 0.0001)
	assert.Equal(t, 50.0, rec.Stake)
	assert.Equal(t, 50.0, rec.PotentialProfit)
	assert.Equal(t, 27.5, rec.MaxLiability)
}

func TestRecommend_Monitor(t *testing.T) {
	th := DefaultThresholds()

	rec := Recommend(1.90, 2.10, false, th)
	assert.Equal(t, domain.ActionMonitor, rec.Action)
	assert.Equal(t, StrategyMonitor, rec.Strategy)
	assert.Equal(t, 0.0, rec.Stake)
	assert.Equal(t, 0.0, rec.PotentialProfit)
	assert.Equal(t, 0.0, rec.MaxLiability)
}
