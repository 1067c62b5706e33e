// Package scoring aggregates dimension scores into a single composite score.
package scoring

import (
	"fmt"
	"math"

	"github.com/Veraticus/dqscore/internal/common"
	"github.com/Veraticus/dqscore/internal/model"
)

// weightTolerance is how far the weight sum may drift from 1.0.
const weightTolerance = 0.001

// Weights defines the relative importance of each dimension.
// All weights must be non-negative and sum to 1.0.
type Weights struct {
	Completeness float64 `json:"completeness"`
	Validity     float64 `json:"validity"`
	Uniqueness   float64 `json:"uniqueness"`
	Integrity    float64 `json:"integrity"`
	Consistency  float64 `json:"consistency"`
	Timeliness   float64 `json:"timeliness"`
	Accuracy     float64 `json:"accuracy"`
}

// DefaultWeights returns the standard weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Completeness: 0.25,
		Validity:     0.20,
		Uniqueness:   0.15,
		Integrity:    0.15,
		Consistency:  0.10,
		Timeliness:   0.10,
		Accuracy:     0.05,
	}
}

// For returns the weight of dimension d.
func (w Weights) For(d model.Dimension) float64 {
	switch d {
	case model.Completeness:
		return w.Completeness
	case model.Uniqueness:
		return w.Uniqueness
	case model.Validity:
		return w.Validity
	case model.Accuracy:
		return w.Accuracy
	case model.Consistency:
		return w.Consistency
	case model.Timeliness:
		return w.Timeliness
	case model.Integrity:
		return w.Integrity
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, d := range model.Dimensions() {
		total += w.For(d)
	}
	return total
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	for _, d := range model.Dimensions() {
		v := w.For(d)
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight is %f", common.ErrInvalidWeights, d, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, must sum to 1.0", common.ErrInvalidWeights, sum)
	}
	return nil
}
