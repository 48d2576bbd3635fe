package recommendation

import (
	"context"

	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/aristath/fundlens/internal/modules/scoring"
	"github.com/rs/zerolog"
)

// DefaultLimit is the number of recommendations returned when the caller
// does not ask for a specific count.
const DefaultLimit = 10

// CandidateSearcher supplies candidate funds for a canonical fund type.
// An empty result is not an error; only connectivity failures are.
type CandidateSearcher interface {
	SearchByType(ctx context.Context, fundType string) ([]funds.FundRecord, error)
}

// toleranceTypes maps risk tolerance to the eligible canonical fund types.
var toleranceTypes = map[string][]string{
	ToleranceConservative: {funds.TypeMoneyMarket, funds.TypeBond, funds.TypeCapitalProtected},
	ToleranceModerate:     {funds.TypeBond, funds.TypeMixed, funds.TypeCapitalProtected, funds.TypeIndex},
	ToleranceAggressive:   {funds.TypeEquity, funds.TypeMixed, funds.TypeIndex, funds.TypeQDII},
}

// Recommender produces scored, filtered, explained fund recommendations.
type Recommender struct {
	scorer   *scoring.Scorer
	searcher CandidateSearcher
	log      zerolog.Logger
}

// NewRecommender creates a new recommender
func NewRecommender(scorer *scoring.Scorer, searcher CandidateSearcher, log zerolog.Logger) *Recommender {
	return &Recommender{
		scorer:   scorer,
		searcher: searcher,
		log:      log.With().Str("service", "recommendation").Logger(),
	}
}

// Recommend builds up to limit recommendations matching the preferences.
// Candidate lookups that fail for individual types are logged and skipped;
// with no candidates at all the result is an empty list, not an error.
func (r *Recommender) Recommend(ctx context.Context, prefs UserPreferences, limit int) ([]FundRecommendation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := r.searchCandidates(ctx, toleranceTypes[prefs.RiskTolerance])

	byCode := make(map[string]funds.FundRecord, len(candidates))
	for _, c := range candidates {
		byCode[c.Code] = c
	}

	scores := r.scorer.ScoreBatch(candidates)
	filtered := filterByPreferences(scores, prefs)

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	recommendations := make([]FundRecommendation, 0, len(filtered))
	for _, score := range filtered {
		fund, ok := byCode[score.Code]
		if !ok {
			continue
		}

		recommendations = append(recommendations, FundRecommendation{
			Fund:           fund,
			Score:          score,
			MatchReasons:   matchReasons(score),
			RiskLevel:      riskLevelFor(score),
			ExpectedReturn: estimateReturn(fund),
			ExpectedRisk:   estimateRisk(fund),
		})
	}

	return recommendations, nil
}

func (r *Recommender) searchCandidates(ctx context.Context, types []string) []funds.FundRecord {
	var candidates []funds.FundRecord

	for _, fundType := range types {
		results, err := r.searcher.SearchByType(ctx, fundType)
		if err != nil {
			r.log.Warn().Err(err).Str("type", fundType).Msg("Candidate search failed, skipping type")
			continue
		}
		candidates = append(candidates, results...)
	}

	return candidates
}

func filterByPreferences(scores []scoring.FundScore, prefs UserPreferences) []scoring.FundScore {
	filtered := make([]scoring.FundScore, 0, len(scores))

	for _, score := range scores {
		// A drawdown constraint demands at least average risk control.
		if prefs.MaxDrawdown != nil && score.Risk < 50 {
			continue
		}

		if prefs.MinReturn != nil && score.Performance < *prefs.MinReturn {
			continue
		}

		// Short horizons only get the top two rating tiers, regardless of
		// the other constraints.
		if prefs.InvestmentHorizon == HorizonShort {
			if score.Rating != scoring.RatingAAA && score.Rating != scoring.RatingAA {
				continue
			}
		}

		filtered = append(filtered, score)
	}

	return filtered
}

func matchReasons(score scoring.FundScore) []string {
	reasons := []string{}

	if score.Rating == scoring.RatingAAA || score.Rating == scoring.RatingAA {
		reasons = append(reasons, "Top-tier composite rating ("+score.Rating+")")
	}

	if score.Risk >= 80 {
		reasons = append(reasons, "Strong risk control with low historical volatility")
	} else if score.Risk >= 60 {
		reasons = append(reasons, "Good risk control")
	}

	if score.Performance >= 80 {
		reasons = append(reasons, "Excellent historical returns with stable long-term performance")
	} else if score.Performance >= 60 {
		reasons = append(reasons, "Good historical performance")
	}

	if score.Manager >= 80 {
		reasons = append(reasons, "Experienced management team")
	}

	if score.Fee >= 80 {
		reasons = append(reasons, "Low fees and low cost")
	}

	if score.Size >= 80 {
		reasons = append(reasons, "Well-sized fund with good liquidity")
	}

	return reasons
}

func riskLevelFor(score scoring.FundScore) string {
	switch {
	case score.Risk >= 70:
		return "low"
	case score.Risk >= 50:
		return "medium"
	default:
		return "high"
	}
}

// estimateReturn annualizes the 3-year return when available, else falls back
// to the 1-year return.
func estimateReturn(fund funds.FundRecord) float64 {
	if fund.Return3Y != nil {
		return *fund.Return3Y / 3
	}
	if fund.Return1Y != nil {
		return *fund.Return1Y
	}
	return 0
}

// estimateRisk prefers measured volatility, falls back to twice the max
// drawdown, and defaults to a medium 15%.
func estimateRisk(fund funds.FundRecord) float64 {
	if fund.Volatility != nil {
		return *fund.Volatility
	}
	if fund.MaxDrawdown != nil {
		return *fund.MaxDrawdown * 2
	}
	return 15
}
