// Package scoring implements the multi-factor fund scoring model.
//
// Each fund gets six sub-scores (performance, risk, manager, fee, size,
// holdings), each starting from a baseline of 50 and adjusted in fixed bands
// per metric, clamped to [0, 100]. The total is the weighted combination of
// the sub-scores. Missing metrics contribute nothing, so a fund with no data
// at all scores the baseline 50 on every factor.
package scoring

import (
	"sort"

	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/rs/zerolog"
)

// Rating letters, ordered best to worst.
const (
	RatingAAA = "AAA"
	RatingAA  = "AA"
	RatingA   = "A"
	RatingBBB = "BBB"
	RatingBB  = "BB"
	RatingB   = "B"
	RatingCCC = "CCC"
)

// FundScore is the scoring result for one fund.
type FundScore struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
	Risk        float64 `json:"risk"`
	Manager     float64 `json:"manager"`
	Fee         float64 `json:"fee"`
	Size        float64 `json:"size"`
	Holdings    float64 `json:"holdings"`
	TotalScore  float64 `json:"totalScore"`
	Rating      string  `json:"rating"`
}

// Scorer scores funds with a fixed set of factor weights.
type Scorer struct {
	weights Weights
	log     zerolog.Logger
}

// NewScorer creates a scorer with the given weights. The weights are
// validated once here and cannot be changed afterwards.
func NewScorer(weights Weights, log zerolog.Logger) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		weights: weights,
		log:     log.With().Str("service", "scoring").Logger(),
	}, nil
}

// Weights returns a copy of the scorer's factor weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the sub-scores, weighted total and rating for one fund.
func (s *Scorer) Score(fund funds.FundRecord) FundScore {
	performance := calcPerformanceScore(fund)
	risk := calcRiskScore(fund)
	manager := calcManagerScore(fund)
	fee := calcFeeScore(fund)
	size := calcSizeScore(fund)
	holdings := calcHoldingsScore(fund)

	total := performance*s.weights.Performance +
		risk*s.weights.Risk +
		manager*s.weights.Manager +
		fee*s.weights.Fee +
		size*s.weights.Size +
		holdings*s.weights.Holdings

	return FundScore{
		Code:        fund.Code,
		Name:        fund.Name,
		Performance: performance,
		Risk:        risk,
		Manager:     manager,
		Fee:         fee,
		Size:        size,
		Holdings:    holdings,
		TotalScore:  total,
		Rating:      ratingFor(total),
	}
}

// ScoreBatch scores all funds and returns the results sorted by total score,
// highest first. Funds with equal totals keep their input order.
func (s *Scorer) ScoreBatch(fundList []funds.FundRecord) []FundScore {
	scores := make([]FundScore, len(fundList))
	for i, fund := range fundList {
		scores[i] = s.Score(fund)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})

	return scores
}

func calcPerformanceScore(fund funds.FundRecord) float64 {
	score := 50.0

	if r := fund.Return1Y; r != nil {
		switch {
		case *r > 30:
			score += 20
		case *r > 20:
			score += 15
		case *r > 10:
			score += 10
		case *r > 0:
			score += 5
		default:
			score -= 10
		}
	}

	if r := fund.Return3Y; r != nil {
		switch {
		case *r > 80:
			score += 40
		case *r > 50:
			score += 30
		case *r > 30:
			score += 20
		case *r > 10:
			score += 10
		case *r > 0:
			score += 5
		default:
			score -= 10
		}
	}

	if r := fund.Return5Y; r != nil {
		switch {
		case *r > 150:
			score += 40
		case *r > 100:
			score += 30
		case *r > 50:
			score += 20
		case *r > 20:
			score += 10
		case *r > 0:
			score += 5
		default:
			score -= 10
		}
	}

	return clamp(score)
}

func calcRiskScore(fund funds.FundRecord) float64 {
	score := 50.0

	// Lower volatility is better.
	if v := fund.Volatility; v != nil {
		switch {
		case *v < 10:
			score += 30
		case *v < 15:
			score += 20
		case *v < 20:
			score += 10
		case *v < 25:
			// no adjustment
		default:
			score -= 10
		}
	}

	// Smaller drawdown is better.
	if d := fund.MaxDrawdown; d != nil {
		switch {
		case *d < 5:
			score += 30
		case *d < 10:
			score += 20
		case *d < 15:
			score += 10
		case *d < 20:
			// no adjustment
		default:
			score -= 10
		}
	}

	if sr := fund.SharpeRatio; sr != nil {
		switch {
		case *sr > 1.5:
			score += 40
		case *sr > 1.0:
			score += 30
		case *sr > 0.5:
			score += 20
		case *sr > 0:
			score += 10
		default:
			score -= 10
		}
	}

	return clamp(score)
}

func calcManagerScore(fund funds.FundRecord) float64 {
	score := 50.0

	if e := fund.ManagerExperience; e != nil {
		switch {
		case *e > 10:
			score += 50
		case *e > 7:
			score += 40
		case *e > 5:
			score += 30
		case *e > 3:
			score += 20
		case *e > 1:
			score += 10
		}
	}

	if m := fund.ManagerScale; m != nil {
		switch {
		case *m > 500:
			score += 50
		case *m > 200:
			score += 40
		case *m > 100:
			score += 30
		case *m > 50:
			score += 20
		case *m > 10:
			score += 10
		}
	}

	return clamp(score)
}

func calcFeeScore(fund funds.FundRecord) float64 {
	score := 50.0

	if f := fund.ManagementFee; f != nil {
		switch {
		case *f < 0.5:
			score += 50
		case *f < 1.0:
			score += 40
		case *f < 1.5:
			score += 30
		case *f < 2.0:
			score += 20
		default:
			score -= 10
		}
	}

	return clamp(score)
}

func calcSizeScore(fund funds.FundRecord) float64 {
	score := 50.0

	// Mid-sized funds score best; very small and very large both lose.
	if fs := fund.FundScale; fs != nil {
		switch {
		case *fs >= 10 && *fs <= 100:
			score += 50
		case *fs >= 5 && *fs <= 200:
			score += 40
		case *fs >= 2 && *fs <= 500:
			score += 30
		case *fs > 0:
			score += 10
		default:
			score -= 10
		}
	}

	return clamp(score)
}

func calcHoldingsScore(fund funds.FundRecord) float64 {
	score := 50.0

	// Moderate concentration is preferred.
	if c := fund.HoldingsConcentration; c != nil {
		switch {
		case *c >= 30 && *c <= 60:
			score += 50
		case *c >= 20 && *c <= 70:
			score += 40
		default:
			score += 20
		}
	}

	// Lower turnover is better.
	if tr := fund.TurnoverRate; tr != nil {
		switch {
		case *tr < 50:
			score += 50
		case *tr < 100:
			score += 40
		case *tr < 200:
			score += 30
		case *tr < 300:
			score += 20
		default:
			score -= 10
		}
	}

	return clamp(score)
}

func ratingFor(score float64) string {
	switch {
	case score >= 90:
		return RatingAAA
	case score >= 85:
		return RatingAA
	case score >= 80:
		return RatingA
	case score >= 75:
		return RatingBBB
	case score >= 70:
		return RatingBB
	case score >= 65:
		return RatingB
	default:
		return RatingCCC
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
