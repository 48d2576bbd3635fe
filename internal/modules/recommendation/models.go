// Package recommendation turns scored funds into preference-aware,
// explained recommendations.
package recommendation

import (
	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/aristath/fundlens/internal/modules/scoring"
)

// Risk tolerance levels.
const (
	ToleranceConservative = "conservative"
	ToleranceModerate     = "moderate"
	ToleranceAggressive   = "aggressive"
)

// Investment horizons.
const (
	HorizonShort    = "short"
	HorizonMedium   = "medium"
	HorizonLong     = "long"
	HorizonVeryLong = "very-long"
)

// Investment goals.
const (
	GoalPreservation = "preservation"
	GoalSteady       = "steady"
	GoalGrowth       = "growth"
	GoalAggressive   = "aggressive"
)

// UserPreferences is the recommendation request.
// MaxDrawdown and MinReturn are optional constraints; nil means unset.
type UserPreferences struct {
	RiskTolerance     string   `json:"riskTolerance"`
	InvestmentHorizon string   `json:"investmentHorizon"`
	InvestmentGoal    string   `json:"investmentGoal"`
	MaxDrawdown       *float64 `json:"maxDrawdown,omitempty"`
	MinReturn         *float64 `json:"minReturn,omitempty"`
}

// FundRecommendation is one recommended fund with its score and explanation.
type FundRecommendation struct {
	Fund           funds.FundRecord  `json:"fund"`
	Score          scoring.FundScore `json:"score"`
	MatchReasons   []string          `json:"matchReasons"`
	RiskLevel      string            `json:"riskLevel"`
	ExpectedReturn float64           `json:"expectedReturn"`
	ExpectedRisk   float64           `json:"expectedRisk"`
}
