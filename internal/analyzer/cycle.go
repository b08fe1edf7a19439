package analyzer

import (
	"math"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
	"github.com/mathiasanobre/bot-telegram/internal/odds"
)

// classifyStake is the fixed reference stake used for validity checking only;
// the recommended stake comes from AdjustStake.
const classifyStake = 100

// ClassifyCycle evaluates a single decimal price against a cycle profile and
// returns the green/red breakdown plus the realized risk/reward ratio.
//
// For a back position the green is the full price movement (odds-1) and the
// red is total stake loss. For a lay position the green is 1/odds and the red
// is the liability fraction (odds-1)/odds.
//
// Validity is asymmetric on purpose: the back side caps the green at
// greenTarget*1.5 because an over-large windfall defeats the small-repeatable
// -gain premise, while the lay side instead bounds the red percentage. The
// two branches must not be unified.
func ClassifyCycle(price float64, side domain.MarketSide, profile domain.CycleProfile) domain.CycleInfo {
	info := domain.CycleInfo{
		Side:  side,
		Odds:  price,
		Stake: classifyStake,
	}

	if side == domain.SideBack {
		info.GreenPercent = price - 1
		info.GreenValue = odds.BackProfit(classifyStake, price)
		info.RedPercent = 1.0
		info.RedValue = classifyStake
	} else {
		info.GreenPercent = odds.ImpliedProbability(price)
		info.GreenValue = classifyStake
		if price > 0 {
			info.RedPercent = (price - 1) / price
		}
		info.RedValue = odds.LayLiability(classifyStake, price)
	}

	ratio := math.Inf(1)
	if info.GreenPercent > 0 {
		ratio = info.RedPercent / info.GreenPercent
	}
	info.RiskRewardRatio = ratio

	ratioCap := float64(profile.RiskRewardRatio)
	if side == domain.SideBack {
		info.Valid = info.GreenPercent >= profile.GreenTarget &&
			info.GreenPercent <= profile.GreenTarget*1.5 &&
			ratio <= ratioCap
	} else {
		info.Valid = info.GreenPercent >= profile.GreenTarget &&
			info.RedPercent <= profile.MaxRed &&
			ratio <= ratioCap
	}

	return info
}

// StakePlan is the output of AdjustStake: the stake required to realize the
// target green as an absolute fraction of the bankroll, and the resulting
// green/red values.
type StakePlan struct {
	Stake        float64
	GreenValue   float64
	RedValue     float64
	GreenPercent float64
	RedPercent   float64
}

// AdjustStake sizes a position so the absolute profit equals targetGreen of
// the bankroll.
//
// For a back position the stake is targetGreen*bankroll/(odds-1); odds at or
// below 1 yield a zero plan rather than a division by zero. For a lay
// position the stake equals the target payoff and the red value is the
// liability, which may exceed the bankroll fraction. The red percentage is
// intentionally not clamped.
func AdjustStake(price float64, side domain.MarketSide, targetGreen, bankroll float64) StakePlan {
	var plan StakePlan

	if side == domain.SideBack {
		multiplier := price - 1
		if multiplier <= 0 {
			return plan
		}
		plan.Stake = targetGreen * bankroll / multiplier
		plan.GreenValue = odds.BackProfit(plan.Stake, price)
		plan.RedValue = plan.Stake
		plan.GreenPercent = targetGreen
		plan.RedPercent = plan.Stake / bankroll
		return plan
	}

	plan.Stake = targetGreen * bankroll
	plan.GreenValue = plan.Stake
	plan.RedValue = odds.LayLiability(plan.Stake, price)
	plan.GreenPercent = targetGreen
	plan.RedPercent = plan.RedValue / bankroll
	return plan
}

// cycleInfoFor composes classification and stake sizing: the validity and
// realized ratio come from ClassifyCycle, the financial fields from
// AdjustStake. It returns nil when the price is not valid under the profile.
func cycleInfoFor(price float64, side domain.MarketSide, profile domain.CycleProfile, bankroll float64) *domain.CycleInfo {
	info := ClassifyCycle(price, side, profile)
	if !info.Valid {
		return nil
	}

	plan := AdjustStake(price, side, profile.GreenTarget, bankroll)
	info.Stake = plan.Stake
	info.GreenValue = plan.GreenValue
	info.RedValue = plan.RedValue
	info.GreenPercent = plan.GreenPercent
	info.RedPercent = plan.RedPercent
	return &info
}
