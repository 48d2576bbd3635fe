package scoring

import (
	"fmt"
	"math"
)

// Weights holds the factor weights used to combine sub-scores into a total.
// A Weights value is fixed at scorer construction; there is no way to change
// the weights of a running scorer.
type Weights struct {
	Performance float64 `json:"performance"`
	Risk        float64 `json:"risk"`
	Manager     float64 `json:"manager"`
	Fee         float64 `json:"fee"`
	Size        float64 `json:"size"`
	Holdings    float64 `json:"holdings"`
}

// DefaultWeights returns the standard factor weighting.
func DefaultWeights() Weights {
	return Weights{
		Performance: 0.30,
		Risk:        0.25,
		Manager:     0.20,
		Fee:         0.10,
		Size:        0.10,
		Holdings:    0.05,
	}
}

// Validate checks that all weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"performance": w.Performance,
		"risk":        w.Risk,
		"manager":     w.Manager,
		"fee":         w.Fee,
		"size":        w.Size,
		"holdings":    w.Holdings,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %f", name, v)
		}
	}

	sum := w.Performance + w.Risk + w.Manager + w.Fee + w.Size + w.Holdings
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got %f", sum)
	}
	return nil
}
