// Package risk implements portfolio-level risk analysis over weighted fund
// holdings: return, volatility, Sharpe, drawdown, VaR/CVaR, diversification
// metrics, and fixed-scenario stress tests.
package risk

// FundHolding is one position in a portfolio.
// Weight and Return are fractions (0.10 = 10%), not percentages.
type FundHolding struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Weight     float64  `json:"weight"`
	Return     float64  `json:"return"`
	Volatility *float64 `json:"volatility,omitempty"`
}

// Risk level labels.
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// RiskMetrics is the full portfolio risk report.
type RiskMetrics struct {
	PortfolioReturn     float64 `json:"portfolioReturn"`
	PortfolioVolatility float64 `json:"portfolioVolatility"`
	PortfolioSharpe     float64 `json:"portfolioSharpe"`

	MaxDrawdown float64 `json:"maxDrawdown"`
	VaR95       float64 `json:"var95"`
	CVaR95      float64 `json:"cvar95"`

	Correlation   float64 `json:"correlation"`
	Concentration float64 `json:"concentration"`

	RiskLevel string  `json:"riskLevel"`
	RiskScore float64 `json:"riskScore"`
}

// StressScenario is the outcome of one stress-test scenario.
// Impact is a fraction of portfolio value, non-positive for loss scenarios.
type StressScenario struct {
	Scenario    string  `json:"scenario"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}
