package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

func defaultProfile() domain.CycleProfile {
	return domain.CycleProfile{GreenTarget: 0.05, MaxRed: 0.15, RiskRewardRatio: 3}
}

func TestClassifyCycle_BackRatioExceedsCap(t *testing.T) {
	// odds=1.05 under the default profile: green%=0.05 sits exactly on the
	// lower bound and inside the 0.075 upper bound, but the realized ratio
	// 1.0/0.05 = 20 blows through the 1:3 cap, so the entry is invalid.
	info := ClassifyCycle(1.05, domain.SideBack, defaultProfile())

	assert.InDelta(t, 0.05, info.GreenPercent, 1e-9)
	assert.Equal(t, 1.0, info.RedPercent)
	assert.InDelta(t, 20.0, info.RiskRewardRatio, 1e-6)
	assert.False(t, info.Valid)
}

func TestClassifyCycle_BackValid(t *testing.T) {
	profile := domain.CycleProfile{GreenTarget: 0.35, MaxRed: 1.0, RiskRewardRatio: 3}

	info := ClassifyCycle(1.40, domain.SideBack, profile)
	assert.True(t, info.Valid)
	assert.InDelta(t, 0.40, info.GreenPercent, 1e-9)
	assert.InDelta(t, 2.5, info.RiskRewardRatio, 1e-9)
	assert.Equal(t, domain.SideBack, info.Side)
	assert.Equal(t, 1.40, info.Odds)
}

func TestClassifyCycle_BackGreenAboveUpperBound(t *testing.T) {
	// green% above greenTarget*1.5 invalidates the entry even though the
	// ratio would pass: over-large windfalls defeat the strategy's premise.
	profile := domain.CycleProfile{GreenTarget: 0.35, MaxRed: 1.0, RiskRewardRatio: 3}

	info := ClassifyCycle(1.60, domain.SideBack, profile)
	assert.InDelta(t, 0.60, info.GreenPercent, 1e-9)
	assert.False(t, info.Valid)
}

func TestClassifyCycle_LayMath(t *testing.T) {
	info := ClassifyCycle(30, domain.SideLay, defaultProfile())

	assert.InDelta(t, 1.0/30, info.GreenPercent, 1e-9)
	assert.InDelta(t, 29.0/30, info.RedPercent, 1e-9)
	assert.InDelta(t, 29.0, info.RiskRewardRatio, 1e-6)
	// Long lay odds fail the default profile on every criterion except the
	// type of bound: the lay side has no green upper bound, only a red cap.
	assert.False(t, info.Valid)
}

func TestClassifyCycle_LayValid(t *testing.T) {
	profile := domain.CycleProfile{GreenTarget: 0.40, MaxRed: 0.60, RiskRewardRatio: 3}

	info := ClassifyCycle(2.0, domain.SideLay, profile)
	assert.True(t, info.Valid)
	assert.InDelta(t, 0.5, info.GreenPercent, 1e-9)
	assert.InDelta(t, 0.5, info.RedPercent, 1e-9)
	assert.InDelta(t, 1.0, info.RiskRewardRatio, 1e-9)
}

func TestClassifyCycle_DegenerateOddsInfiniteRatio(t *testing.T) {
	info := ClassifyCycle(1.0, domain.SideBack, defaultProfile())
	assert.True(t, math.IsInf(info.RiskRewardRatio, 1))
	assert.False(t, info.Valid)
}

func TestAdjustStake_Back(t *testing.T) {
	plan := AdjustStake(1.05, domain.SideBack, 0.05, 1000)

	assert.InDelta(t, 1000.0, plan.Stake, 1e-9) // 0.05*1000/0.05
	assert.InDelta(t, 50.0, plan.GreenValue, 1e-9)
	assert.InDelta(t, 1000.0, plan.RedValue, 1e-9)
	assert.InDelta(t, 0.05, plan.GreenPercent, 1e-9)
	assert.InDelta(t, 1.0, plan.RedPercent, 1e-9)
}

func TestAdjustStake_BackDegenerateOdds(t *testing.T) {
	plan := AdjustStake(1.0, domain.SideBack, 0.05, 1000)
	assert.Equal(t, StakePlan{}, plan)

	plan = AdjustStake(0.5, domain.SideBack, 0.05, 1000)
	assert.Equal(t, StakePlan{}, plan)
}

func TestAdjustStake_LayLiabilityMayExceedBankroll(t *testing.T) {
	plan := AdjustStake(30, domain.SideLay, 0.05, 1000)

	assert.InDelta(t, 50.0, plan.Stake, 1e-9)
	assert.InDelta(t, 50.0, plan.GreenValue, 1e-9)
	assert.InDelta(t, 1450.0, plan.RedValue, 1e-9)
	// The red percentage exceeds 1 and is intentionally not clamped.
	assert.InDelta(t, 1.45, plan.RedPercent, 1e-9)
}

func TestCycleInfoFor_ComposesClassifyAndStake(t *testing.T) {
	profile := domain.CycleProfile{GreenTarget: 0.35, MaxRed: 1.0, RiskRewardRatio: 3}

	info := cycleInfoFor(1.40, domain.SideBack, profile, 1000)
	if assert.NotNil(t, info) {
		assert.True(t, info.Valid)
		assert.Equal(t, 1.40, info.Odds)
		assert.Equal(t, domain.SideBack, info.Side)
		// Realized ratio from classification, financials from stake sizing.
		assert.InDelta(t, 2.5, info.RiskRewardRatio, 1e-9)
		assert.InDelta(t, 875.0, info.Stake, 1e-9) // 0.35*1000/0.40
		assert.InDelta(t, 350.0, info.GreenValue, 1e-9)
		assert.InDelta(t, 875.0, info.RedValue, 1e-9)
		assert.InDelta(t, 0.35, info.GreenPercent, 1e-9)
		assert.InDelta(t, 0.875, info.RedPercent, 1e-9)
	}
}

func TestCycleInfoFor_NilWhenInvalid(t *testing.T) {
	assert.Nil(t, cycleInfoFor(1.05, domain.SideBack, defaultProfile(), 1000))
}
