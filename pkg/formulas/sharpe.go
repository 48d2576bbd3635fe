package formulas

import (
	"math"
)

// CalculateSharpeRatio calculates the annualized Sharpe Ratio from periodic
// returns.
//
// Sharpe Ratio Formula:
//
//	Sharpe = (Mean Return - Periodic Risk-free Rate) / Standard Deviation of Returns
//	Annualized: Sharpe × sqrt(periodsPerYear)
//
// Returns nil for insufficient data or zero dispersion.
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	meanReturn := Mean(returns)
	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (meanReturn - periodicRiskFree) / stdDev

	annualized := sharpe * math.Sqrt(float64(periodsPerYear))
	return &annualized
}

// SharpeFromNAV calculates the Sharpe ratio directly from a daily NAV series.
func SharpeFromNAV(navs []float64, riskFreeRate float64) *float64 {
	if len(navs) < 2 {
		return nil
	}

	return CalculateSharpeRatio(NAVReturns(navs), riskFreeRate, TradingDaysPerYear)
}
