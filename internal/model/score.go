package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Dimension identifies one of the seven fixed quality dimensions.
type Dimension int

// The seven dimensions, in reporting order.
const (
	Completeness Dimension = iota
	Uniqueness
	Validity
	Accuracy
	Consistency
	Timeliness
	Integrity

	// NumDimensions is the size of the fixed dimension set.
	NumDimensions = int(Integrity) + 1
)

var dimensionNames = [NumDimensions]string{
	"Completeness",
	"Uniqueness",
	"Validity",
	"Accuracy",
	"Consistency",
	"Timeliness",
	"Integrity",
}

// Dimensions returns all dimensions in reporting order.
func Dimensions() []Dimension {
	dims := make([]Dimension, NumDimensions)
	for i := range dims {
		dims[i] = Dimension(i)
	}
	return dims
}

// String returns the fixed key name of the dimension.
func (d Dimension) String() string {
	if d < 0 || int(d) >= NumDimensions {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// ParseDimension resolves a fixed key name back to its Dimension.
func ParseDimension(name string) (Dimension, error) {
	for i, n := range dimensionNames {
		if n == name {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q", name)
}

// Score is either a scored value in [0,100] or not applicable.
type Score struct {
	value  float64
	scored bool
}

// Scored wraps a numeric dimension score.
func Scored(v float64) Score {
	return Score{value: v, scored: true}
}

// NotApplicable marks a dimension whose prerequisites are absent.
func NotApplicable() Score {
	return Score{}
}

// Value returns the score and whether it is applicable.
func (s Score) Value() (float64, bool) {
	return s.value, s.scored
}

// IsScored reports whether the dimension was computed.
func (s Score) IsScored() bool {
	return s.scored
}

// String formats the score with two decimals or "N/A".
func (s Score) String() string {
	if !s.scored {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", s.value)
}

// ScoreMap holds a Score for every dimension. A dimension is never absent;
// inapplicable ones hold NotApplicable.
type ScoreMap [NumDimensions]Score

// Get returns the score of d.
func (m ScoreMap) Get(d Dimension) Score {
	return m[d]
}

// Set stores the score of d.
func (m *ScoreMap) Set(d Dimension, s Score) {
	m[d] = s
}

// ToMap converts to a name-keyed map with nil for inapplicable dimensions.
// Every dimension name is present.
func (m ScoreMap) ToMap() map[string]*float64 {
	out := make(map[string]*float64, NumDimensions)
	for _, d := range Dimensions() {
		if v, ok := m[d].Value(); ok {
			out[d.String()] = &v
		} else {
			out[d.String()] = nil
		}
	}
	return out
}

// MarshalJSON writes the map as an object in reporting order, using null for
// inapplicable dimensions.
func (m ScoreMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range Dimensions() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(d.String())
		buf.Write(name)
		buf.WriteByte(':')
		if v, ok := m[d].Value(); ok {
			num, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", d, err)
			}
			buf.Write(num)
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form produced by MarshalJSON. Dimensions
// missing from the input are NotApplicable.
func (m *ScoreMap) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ScoreMap{}
	for name, v := range raw {
		d, err := ParseDimension(name)
		if err != nil {
			return err
		}
		if v != nil {
			m.Set(d, Scored(*v))
		}
	}
	return nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
