package features

import (
	"errors"
	"fmt"
	"math"
)

// Scaler standardizes columns by their standard deviation without centering,
// so sparse rows stay sparse. It is fitted once and then read-only.
type Scaler struct {
	Scale        []float64 `json:"scale"`
	Mean         []float64 `json:"mean"`
	Var          []float64 `json:"var"`
	NSamplesSeen int       `json:"n_samples_seen"`
}

// FitScaler computes per-column population variance over rows.
// Columns with (near) zero spread get a unit scale.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("cannot fit scaler on zero rows")
	}
	width := len(rows[0])

	mean := make([]float64, width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), width)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	variance := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			variance[j] += d * d
		}
	}

	scale := make([]float64, width)
	for j := range variance {
		variance[j] /= n
		scale[j] = math.Sqrt(variance[j])
		if scale[j] < 10*epsilon {
			scale[j] = 1
		}
	}

	return &Scaler{
		Scale:        scale,
		Mean:         mean,
		Var:          variance,
		NSamplesSeen: len(rows),
	}, nil
}

// epsilon is the float64 machine epsilon
const epsilon = 2.220446049250313e-16

// Width returns the number of columns the scaler was fitted on
func (s *Scaler) Width() int {
	return len(s.Scale)
}

// Transform divides each value by its column scale
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d columns, got %d", len(s.Scale), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v / s.Scale[j]
	}
	return out, nil
}
