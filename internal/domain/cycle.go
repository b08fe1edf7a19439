package domain

// CycleProfile is a named risk configuration for the cycle method: the
// targeted green percentage, the maximum acceptable red percentage, and the
// risk/reward ratio cap (an integer N meaning 1:N).
type CycleProfile struct {
	GreenTarget     float64 `json:"green_target"`
	MaxRed          float64 `json:"max_red"`
	RiskRewardRatio int     `json:"risk_reward_ratio"`
}

// Built-in cycle profile names. "custom" is installed at runtime.
const (
	ProfileDefault      = "default"
	ProfileConservative = "conservative"
	ProfileAggressive   = "aggressive"
	ProfileCustom       = "custom"
)

// BuiltinProfiles returns the fixed set of named cycle profiles. The custom
// profile starts equal to the default until overwritten by the operator.
func BuiltinProfiles() map[string]CycleProfile {
	return map[string]CycleProfile{
		ProfileDefault:      {GreenTarget: 0.05, MaxRed: 0.15, RiskRewardRatio: 3},
		ProfileConservative: {GreenTarget: 0.03, MaxRed: 0.09, RiskRewardRatio: 3},
		ProfileAggressive:   {GreenTarget: 0.10, MaxRed: 0.30, RiskRewardRatio: 3},
		ProfileCustom:       {GreenTarget: 0.05, MaxRed: 0.15, RiskRewardRatio: 3},
	}
}

// CycleInfo parametrizes a single cycle-method entry: whether the price is
// valid under the active profile, which side it applies to, and the stake
// sizing required to realize the profile's green target against the bankroll.
type CycleInfo struct {
	Valid           bool       `json:"is_valid"`
	Side            MarketSide `json:"type"`
	Odds            float64    `json:"odds"`
	GreenPercent    float64    `json:"green_percent"`
	RedPercent      float64    `json:"red_percent"`
	RiskRewardRatio float64    `json:"risk_reward_ratio"`
	Stake           float64    `json:"stake"`
	GreenValue      float64    `json:"green_value"`
	RedValue        float64    `json:"red_value"`
}
