package risk

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

const (
	// RiskFreeRate is the annual risk-free rate used in Sharpe calculations.
	RiskFreeRate = 0.03

	// AssumedPairwiseCorrelation substitutes for a real covariance matrix,
	// which the system has no data to estimate. Every distinct pair of
	// holdings is assumed to correlate at this level.
	AssumedPairwiseCorrelation = 0.3

	// MinVolatilityFloor is the volatility floor applied when estimating a
	// holding's volatility from its return.
	MinVolatilityFloor = 0.10

	// WeightSumTolerance is the allowed deviation from 1 for the sum of
	// portfolio weights, checked by ValidateWeights.
	WeightSumTolerance = 0.01
)

// zScores maps confidence levels to normal-distribution quantiles.
var zScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.99: 2.33,
}

// Analyzer computes portfolio risk metrics. It is stateless; every call is a
// pure function of its input holdings.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a new portfolio risk analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("service", "risk").Logger(),
	}
}

// AnalyzePortfolio computes the full risk report for a set of holdings.
// An empty holdings list returns the zero-risk sentinel (riskLevel "low",
// riskScore 100, everything else 0) rather than an error.
//
// Weight sums are not checked here; callers that need the weights-sum-to-1
// contract enforced should run ValidateWeights first.
func (a *Analyzer) AnalyzePortfolio(holdings []FundHolding) RiskMetrics {
	if len(holdings) == 0 {
		return emptyMetrics()
	}

	portfolioReturn := calcPortfolioReturn(holdings)
	portfolioVolatility := calcPortfolioVolatility(holdings)

	sharpe := 0.0
	if portfolioVolatility != 0 {
		sharpe = (portfolioReturn - RiskFreeRate) / portfolioVolatility
	}

	return RiskMetrics{
		PortfolioReturn:     portfolioReturn,
		PortfolioVolatility: portfolioVolatility,
		PortfolioSharpe:     sharpe,
		MaxDrawdown:         portfolioVolatility * 2,
		VaR95:               calcVaR(portfolioVolatility, 0.95),
		CVaR95:              calcVaR(portfolioVolatility, 0.95) * 1.2,
		Correlation:         estimateCorrelation(holdings),
		Concentration:       calcConcentration(holdings),
		RiskLevel:           riskLevelFor(portfolioVolatility),
		RiskScore:           riskScoreFor(portfolioVolatility),
	}
}

// ValidateWeights checks that holding weights sum to 1 within tolerance.
func ValidateWeights(holdings []FundHolding) error {
	if len(holdings) == 0 {
		return nil
	}

	sum := 0.0
	for _, h := range holdings {
		if h.Weight < 0 {
			return fmt.Errorf("holding %s has negative weight %f", h.Code, h.Weight)
		}
		sum += h.Weight
	}

	if math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("holding weights must sum to 1, got %f", sum)
	}
	return nil
}

func calcPortfolioReturn(holdings []FundHolding) float64 {
	sum := 0.0
	for _, h := range holdings {
		sum += h.Return * h.Weight
	}
	return sum
}

// calcPortfolioVolatility combines per-holding volatilities under the assumed
// uniform pairwise correlation, in place of a real covariance matrix.
func calcPortfolioVolatility(holdings []FundHolding) float64 {
	variance := 0.0

	for _, h := range holdings {
		vol := holdingVolatility(h)
		variance += math.Pow(vol*h.Weight, 2)
	}

	for i := 0; i < len(holdings); i++ {
		for j := i + 1; j < len(holdings); j++ {
			vol1 := holdingVolatility(holdings[i])
			vol2 := holdingVolatility(holdings[j])
			variance += 2 * AssumedPairwiseCorrelation *
				holdings[i].Weight * holdings[j].Weight * vol1 * vol2
		}
	}

	return math.Sqrt(variance)
}

// holdingVolatility returns the holding's own volatility, or an estimate of
// |return|/3 with a 10% floor when none is known.
func holdingVolatility(h FundHolding) float64 {
	if h.Volatility != nil {
		return *h.Volatility
	}
	return math.Abs(h.Return)/3 + MinVolatilityFloor
}

func calcVaR(volatility, confidence float64) float64 {
	z, ok := zScores[confidence]
	if !ok {
		z = 1.65
	}
	return z * volatility
}

// estimateCorrelation reports the assumed constant for any portfolio with at
// least two holdings; a single holding has nothing to correlate with.
func estimateCorrelation(holdings []FundHolding) float64 {
	if len(holdings) <= 1 {
		return 0
	}
	return AssumedPairwiseCorrelation
}

// calcConcentration computes the Herfindahl-Hirschman index on percentage
// weights, normalized to [0, 1].
func calcConcentration(holdings []FundHolding) float64 {
	hhi := 0.0
	for _, h := range holdings {
		hhi += math.Pow(h.Weight*100, 2)
	}
	return math.Min(1, hhi/10000)
}

func riskLevelFor(volatility float64) string {
	switch {
	case volatility < 0.10:
		return RiskLevelLow
	case volatility < 0.20:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

func riskScoreFor(volatility float64) float64 {
	switch {
	case volatility < 0.10:
		return 100 - volatility*500
	case volatility < 0.20:
		return 75 - (volatility-0.10)*250
	default:
		return 50 - math.Min(50, (volatility-0.20)*200)
	}
}

func emptyMetrics() RiskMetrics {
	return RiskMetrics{
		RiskLevel: RiskLevelLow,
		RiskScore: 100,
	}
}
