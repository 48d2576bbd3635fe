// Package formulas provides reusable numeric helpers for fund analytics.
// All functions operate on plain float64 slices (NAV series, periodic
// returns) and return zero values or nil for insufficient data instead of
// erroring.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the conventional annualization factor for daily data.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// NAVReturns converts a net-asset-value series to periodic returns.
// Returns[i] = (NAV[i] - NAV[i-1]) / NAV[i-1]
func NAVReturns(navs []float64) []float64 {
	if len(navs) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(navs)-1)
	for i := 1; i < len(navs); i++ {
		if navs[i-1] != 0 {
			returns[i-1] = (navs[i] - navs[i-1]) / navs[i-1]
		}
	}

	return returns
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// AnnualizedReturn calculates the compound annual return from daily returns.
//
// Formula: ((1+r1)*(1+r2)*...*(1+rN))^(252/N) - 1
//
// For very short series (< 3 observations) the simple cumulative return is
// returned to avoid extreme annualization.
func AnnualizedReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return 0.0
	}

	cumulative := 1.0
	for _, r := range returns {
		cumulative *= (1 + r)
	}

	numPeriods := float64(len(returns))
	if numPeriods < 3 {
		return cumulative - 1
	}

	years := numPeriods / TradingDaysPerYear
	return math.Pow(cumulative, 1.0/years) - 1
}
