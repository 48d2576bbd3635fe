package recommendation

import (
	"fmt"
	"strings"
)

// GetInvestmentAdvice builds a short textual summary for a set of
// recommendations: a tolerance-specific allocation sentence, a
// diversification count, and a dollar-cost-averaging note for long horizons.
func (r *Recommender) GetInvestmentAdvice(recommendations []FundRecommendation, prefs UserPreferences) string {
	var advice []string

	switch prefs.RiskTolerance {
	case ToleranceConservative:
		advice = append(advice, "Focus on money-market and bond funds to keep risk contained")
	case ToleranceModerate:
		advice = append(advice, "Mix bond and equity exposure to balance return against risk")
	case ToleranceAggressive:
		advice = append(advice, "A heavier equity fund allocation suits the pursuit of higher returns")
	}

	count := len(recommendations)
	if count > 5 {
		count = 5
	}
	advice = append(advice, fmt.Sprintf("Spread the allocation across %d funds to diversify risk", count))

	if prefs.InvestmentHorizon == HorizonLong || prefs.InvestmentHorizon == HorizonVeryLong {
		advice = append(advice, "Invest in fixed installments to smooth out market swings")
	}

	return strings.Join(advice, "\n")
}
