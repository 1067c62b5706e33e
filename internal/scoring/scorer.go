package scoring

import (
	"github.com/Veraticus/dqscore/internal/model"
)

// DefaultLowThreshold is the score below which a dimension is reported as weak.
const DefaultLowThreshold = 85.0

// Scorer computes composite scores with a fixed weight table.
type Scorer struct {
	weights Weights
}

// New creates a Scorer. Invalid weights are a configuration defect and are
// rejected here rather than on each call.
func New(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Weights returns the weight table in use.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Composite returns Σ weight × value over the scored dimensions, rounded to
// two decimals. Inapplicable dimensions add nothing and their weight is not
// redistributed, so the result is a lower bound when any are missing.
func (s *Scorer) Composite(scores model.ScoreMap) float64 {
	total := 0.0
	for _, d := range model.Dimensions() {
		if v, ok := scores.Get(d).Value(); ok {
			total += s.weights.For(d) * v
		}
	}
	return model.Round2(total)
}

// LowDimensions lists the scored dimensions below threshold, in reporting order.
func LowDimensions(scores model.ScoreMap, threshold float64) []model.Dimension {
	var low []model.Dimension
	for _, d := range model.Dimensions() {
		if v, ok := scores.Get(d).Value(); ok && v < threshold {
			low = append(low, d)
		}
	}
	return low
}
