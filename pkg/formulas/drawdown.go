package formulas

// DrawdownMetrics represents drawdown analysis results for a NAV series
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"max_drawdown"`     // Maximum drawdown (positive fraction, 0.25 = 25% loss from peak)
	CurrentDrawdown float64 `json:"current_drawdown"` // Current drawdown from peak
	DaysInDrawdown  int     `json:"days_in_drawdown"` // Days since peak
	PeakValue       float64 `json:"peak_value"`       // NAV at peak
	CurrentValue    float64 `json:"current_value"`    // Latest NAV
}

// CalculateDrawdownMetrics calculates drawdown metrics from a NAV series.
//
// Drawdown Formula:
//
//	Drawdown = (Peak NAV - Current NAV) / Peak NAV
//	Max Drawdown = Maximum of all drawdowns
//
// Returns nil when the series is too short to measure a drawdown.
func CalculateDrawdownMetrics(navs []float64) *DrawdownMetrics {
	if len(navs) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := navs[0]
	peakIndex := 0
	currentValue := navs[len(navs)-1]

	for i, nav := range navs {
		if nav > peak {
			peak = nav
			peakIndex = i
		}

		if peak > 0 {
			drawdown := (peak - nav) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - currentValue) / peak
	}

	return &DrawdownMetrics{
		MaxDrawdown:     maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		DaysInDrawdown:  len(navs) - 1 - peakIndex,
		PeakValue:       peak,
		CurrentValue:    currentValue,
	}
}
