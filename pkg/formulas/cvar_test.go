package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoricalCVaR_EmptySeries(t *testing.T) {
	assert.Equal(t, 0.0, HistoricalCVaR(nil, 0.95))
}

func TestHistoricalCVaR_SingleReturn(t *testing.T) {
	assert.InDelta(t, -0.02, HistoricalCVaR([]float64{-0.02}, 0.95), 1e-9)
}

func TestHistoricalCVaR_WorstReturnInSmallTail(t *testing.T) {
	// 20 observations at 95%: the tail holds exactly the single worst return.
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = 0.01
	}
	returns[7] = -0.15

	assert.InDelta(t, -0.15, HistoricalCVaR(returns, 0.95), 1e-9)
}

func TestHistoricalCVaR_AveragesTail(t *testing.T) {
	// 50% confidence over four returns keeps the worst two.
	returns := []float64{-0.10, 0.03, -0.02, 0.01}

	assert.InDelta(t, -0.06, HistoricalCVaR(returns, 0.50), 1e-9)
}

func TestHistoricalCVaR_AllGains(t *testing.T) {
	cvar := HistoricalCVaR([]float64{0.01, 0.02, 0.03, 0.04}, 0.95)
	assert.InDelta(t, 0.01, cvar, 1e-9)
}
