package model

import "math"

// NeutralConfidence is reported when the margin cannot be used
const NeutralConfidence = 0.75

// Score maps a margin to a confidence in [0.5, 1.0] via the logistic of
// its absolute value. The second return is false when the margin was
// unusable and NeutralConfidence was substituted.
func Score(m Margin) (float64, bool) {
	if !m.Valid {
		return NeutralConfidence, false
	}

	c := 1 / (1 + math.Exp(-math.Abs(m.Value)))
	if math.IsNaN(c) {
		return NeutralConfidence, false
	}
	return math.Min(1, math.Max(0.5, c)), true
}

// Round3 rounds a confidence to three decimals for presentation
func Round3(c float64) float64 {
	return math.Round(c*1000) / 1000
}
