package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNAVReturns(t *testing.T) {
	navs := []float64{1.0, 1.1, 1.045}

	returns := NAVReturns(navs)

	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.05, returns[1], 1e-9)
}

func TestNAVReturns_ShortSeries(t *testing.T) {
	assert.Empty(t, NAVReturns(nil))
	assert.Empty(t, NAVReturns([]float64{1.0}))
}

func TestNAVReturns_ZeroNAVSkipped(t *testing.T) {
	// A zero NAV cannot produce a meaningful return; the slot stays zero
	returns := NAVReturns([]float64{0, 1.0, 1.1})

	require.Len(t, returns, 2)
	assert.Equal(t, 0.0, returns[0])
	assert.InDelta(t, 0.10, returns[1], 1e-9)
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, 0.005, -0.01}

	vol := AnnualizedVolatility(returns)

	expected := StdDev(returns) * math.Sqrt(252)
	assert.InDelta(t, expected, vol, 1e-12)
	assert.Greater(t, vol, 0.0)
}

func TestAnnualizedVolatility_Empty(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))
}

func TestAnnualizedReturn_ShortSeriesIsCumulative(t *testing.T) {
	// Fewer than 3 observations: simple cumulative return, no annualization
	ret := AnnualizedReturn([]float64{0.10, 0.10})

	assert.InDelta(t, 1.1*1.1-1, ret, 1e-12)
}

func TestAnnualizedReturn_FullYear(t *testing.T) {
	// 252 days of +0.1% compounds to roughly 28.6% annualized
	returns := make([]float64, 252)
	for i := range returns {
		returns[i] = 0.001
	}

	ret := AnnualizedReturn(returns)

	expected := math.Pow(1.001, 252) - 1
	assert.InDelta(t, expected, ret, 1e-9)
}

func TestCalculateDrawdownMetrics(t *testing.T) {
	// Peak 1.5, trough 0.9: max drawdown = (1.5-0.9)/1.5 = 0.4
	navs := []float64{1.0, 1.5, 1.2, 0.9, 1.1}

	m := CalculateDrawdownMetrics(navs)

	require.NotNil(t, m)
	assert.InDelta(t, 0.4, m.MaxDrawdown, 1e-12)
	assert.InDelta(t, (1.5-1.1)/1.5, m.CurrentDrawdown, 1e-12)
	assert.Equal(t, 3, m.DaysInDrawdown)
	assert.Equal(t, 1.5, m.PeakValue)
	assert.Equal(t, 1.1, m.CurrentValue)
}

func TestCalculateDrawdownMetrics_ShortSeries(t *testing.T) {
	assert.Nil(t, CalculateDrawdownMetrics([]float64{1.0}))
}

func TestCalculateSharpeRatio(t *testing.T) {
	returns := []float64{0.01, 0.02, -0.005, 0.015}

	sharpe := CalculateSharpeRatio(returns, 0.03, 252)

	require.NotNil(t, sharpe)
	periodicRf := 0.03 / 252.0
	expected := (Mean(returns) - periodicRf) / StdDev(returns) * math.Sqrt(252)
	assert.InDelta(t, expected, *sharpe, 1e-12)
}

func TestCalculateSharpeRatio_ZeroDispersion(t *testing.T) {
	assert.Nil(t, CalculateSharpeRatio([]float64{0.01, 0.01, 0.01}, 0.03, 252))
}

func TestSharpeFromNAV_InsufficientData(t *testing.T) {
	assert.Nil(t, SharpeFromNAV([]float64{1.0}, 0.03))
}
