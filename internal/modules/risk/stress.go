package risk

// StressWeightSumSeed is the starting value for the stress-test weight-sum
// accumulator. Kept as a named constant because the observed upstream
// behavior seeded this accumulator at 1, inflating every scenario impact by
// one full portfolio unit; 0 is the mathematically sound choice.
const StressWeightSumSeed = 0.0

// stressScenarios are the fixed shock scenarios, applied as a fractional hit
// to total portfolio weight.
var stressScenarios = []StressScenario{
	{Scenario: "Market crash", Impact: -0.30, Description: "Loss under a 30% market decline"},
	{Scenario: "Bear market", Impact: -0.15, Description: "Loss under a 15% market decline"},
	{Scenario: "High volatility", Impact: -0.10, Description: "Loss under a 10% volatility spike"},
	{Scenario: "Rate hike", Impact: -0.05, Description: "Loss under a 1% interest rate rise"},
}

// StressTest applies each fixed scenario to the portfolio, scaling the
// scenario shock by the sum of holding weights.
func (a *Analyzer) StressTest(holdings []FundHolding) []StressScenario {
	weightSum := StressWeightSumSeed
	for _, h := range holdings {
		weightSum += h.Weight
	}

	results := make([]StressScenario, len(stressScenarios))
	for i, s := range stressScenarios {
		results[i] = StressScenario{
			Scenario:    s.Scenario,
			Impact:      weightSum * s.Impact,
			Description: s.Description,
		}
	}
	return results
}
