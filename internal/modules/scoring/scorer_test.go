package scoring

import (
	"testing"

	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := NewScorer(DefaultWeights(), zerolog.Nop())
	require.NoError(t, err)
	return scorer
}

func TestNewScorer_RejectsBadWeights(t *testing.T) {
	_, err := NewScorer(Weights{Performance: 0.5, Risk: 0.6}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewScorer(Weights{Performance: -0.1, Risk: 1.1}, zerolog.Nop())
	assert.Error(t, err)
}

func TestScore_NoMetricsIsBaseline(t *testing.T) {
	scorer := newTestScorer(t)

	result := scorer.Score(funds.FundRecord{Code: "000001", Name: "华夏成长", Type: funds.TypeMixed})

	assert.Equal(t, 50.0, result.Performance)
	assert.Equal(t, 50.0, result.Risk)
	assert.Equal(t, 50.0, result.Manager)
	assert.Equal(t, 50.0, result.Fee)
	assert.Equal(t, 50.0, result.Size)
	assert.Equal(t, 50.0, result.Holdings)
	assert.InDelta(t, 50.0, result.TotalScore, 1e-9)
	assert.Equal(t, RatingCCC, result.Rating)
}

func TestScore_TopFund(t *testing.T) {
	scorer := newTestScorer(t)

	fund := funds.FundRecord{
		Code:                  "110022",
		Name:                  "易方达消费行业",
		Type:                  funds.TypeEquity,
		Return1Y:              f(35),
		Return3Y:              f(90),
		Return5Y:              f(160),
		Volatility:            f(8),
		MaxDrawdown:           f(4),
		SharpeRatio:           f(1.8),
		ManagerExperience:     f(12),
		ManagerScale:          f(600),
		ManagementFee:         f(0.4),
		FundScale:             f(50),
		HoldingsConcentration: f(45),
		TurnoverRate:          f(30),
	}

	result := scorer.Score(fund)

	assert.Equal(t, 100.0, result.Performance)
	assert.Equal(t, 100.0, result.Risk)
	assert.Equal(t, 100.0, result.Manager)
	assert.Equal(t, 100.0, result.Fee)
	assert.Equal(t, 100.0, result.Size)
	assert.Equal(t, 100.0, result.Holdings)
	assert.InDelta(t, 100.0, result.TotalScore, 1e-9)
	assert.Equal(t, RatingAAA, result.Rating)
}

func TestScore_NegativeMetricsFloorAtZero(t *testing.T) {
	scorer := newTestScorer(t)

	fund := funds.FundRecord{
		Code:        "999999",
		Name:        "差基金",
		Type:        funds.TypeEquity,
		Return1Y:    f(-20),
		Return3Y:    f(-30),
		Return5Y:    f(-40),
		Volatility:  f(40),
		MaxDrawdown: f(35),
		SharpeRatio: f(-0.5),
	}

	result := scorer.Score(fund)

	assert.Equal(t, 20.0, result.Performance)
	assert.Equal(t, 20.0, result.Risk)
	assert.GreaterOrEqual(t, result.TotalScore, 0.0)
	assert.LessOrEqual(t, result.TotalScore, 100.0)
	assert.Equal(t, RatingCCC, result.Rating)
}

func TestScore_SubScoresAlwaysInRange(t *testing.T) {
	scorer := newTestScorer(t)

	extremes := []*float64{nil, f(-1000), f(0), f(0.0001), f(1000)}
	for _, r1 := range extremes {
		for _, vol := range extremes {
			fund := funds.FundRecord{
				Code:       "000000",
				Return1Y:   r1,
				Return3Y:   r1,
				Return5Y:   r1,
				Volatility: vol,
			}
			result := scorer.Score(fund)
			for _, sub := range []float64{
				result.Performance, result.Risk, result.Manager,
				result.Fee, result.Size, result.Holdings, result.TotalScore,
			} {
				assert.GreaterOrEqual(t, sub, 0.0)
				assert.LessOrEqual(t, sub, 100.0)
			}
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	scorer := newTestScorer(t)

	fund := funds.FundRecord{
		Code:     "000001",
		Name:     "华夏成长",
		Return1Y: f(12),
		Return3Y: f(45),
	}

	first := scorer.Score(fund)
	second := scorer.Score(fund)
	assert.Equal(t, first, second)
}

func TestScoreBatch_SortsDescendingStable(t *testing.T) {
	scorer := newTestScorer(t)

	batch := []funds.FundRecord{
		{Code: "A", Name: "平庸"},
		{Code: "B", Name: "优秀", Return1Y: f(35), Return3Y: f(90), SharpeRatio: f(1.8)},
		{Code: "C", Name: "平庸同分"},
	}

	scores := scorer.ScoreBatch(batch)
	require.Len(t, scores, 3)

	assert.Equal(t, "B", scores[0].Code)
	// Equal totals keep input order.
	assert.Equal(t, "A", scores[1].Code)
	assert.Equal(t, "C", scores[2].Code)
	assert.GreaterOrEqual(t, scores[0].TotalScore, scores[1].TotalScore)
	assert.GreaterOrEqual(t, scores[1].TotalScore, scores[2].TotalScore)
}

func TestRatingThresholds(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{95, RatingAAA},
		{90, RatingAAA},
		{89.99, RatingAA},
		{85, RatingAA},
		{80, RatingA},
		{75, RatingBBB},
		{70, RatingBB},
		{65, RatingB},
		{64.99, RatingCCC},
		{0, RatingCCC},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ratingFor(tt.score), "score %f", tt.score)
	}
}

func TestRating_MonotonicInScore(t *testing.T) {
	order := map[string]int{
		RatingCCC: 0, RatingB: 1, RatingBB: 2, RatingBBB: 3,
		RatingA: 4, RatingAA: 5, RatingAAA: 6,
	}

	prev := -1
	for score := 0.0; score <= 100.0; score += 0.5 {
		rank := order[ratingFor(score)]
		assert.GreaterOrEqual(t, rank, prev, "score %f", score)
		prev = rank
	}
}

func TestScore_FeeBands(t *testing.T) {
	scorer := newTestScorer(t)

	tests := []struct {
		fee      float64
		expected float64
	}{
		{0.3, 100},
		{0.8, 90},
		{1.2, 80},
		{1.8, 70},
		{2.5, 40},
	}

	for _, tt := range tests {
		result := scorer.Score(funds.FundRecord{Code: "X", ManagementFee: f(tt.fee)})
		assert.Equal(t, tt.expected, result.Fee, "fee %f", tt.fee)
	}
}

func TestScore_SizeSweetSpot(t *testing.T) {
	scorer := newTestScorer(t)

	mid := scorer.Score(funds.FundRecord{Code: "X", FundScale: f(50)})
	small := scorer.Score(funds.FundRecord{Code: "X", FundScale: f(1)})
	huge := scorer.Score(funds.FundRecord{Code: "X", FundScale: f(800)})

	assert.Equal(t, 100.0, mid.Size)
	assert.Equal(t, 60.0, small.Size)
	assert.Equal(t, 60.0, huge.Size)
}
