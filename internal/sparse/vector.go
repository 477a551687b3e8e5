package sparse

import (
	"fmt"
	"sort"
)

// Vector is a single sparse row. Indices are strictly increasing and every
// index is below Width. Zero values are never stored.
type Vector struct {
	Width   int
	Indices []int
	Values  []float64
}

// New builds a vector from an index->value map, dropping zeros
func New(width int, entries map[int]float64) Vector {
	indices := make([]int, 0, len(entries))
	for idx, val := range entries {
		if val != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = entries[idx]
	}

	return Vector{Width: width, Indices: indices, Values: values}
}

// FromDense builds a sparse vector from a dense slice
func FromDense(dense []float64) Vector {
	v := Vector{Width: len(dense)}
	for i, val := range dense {
		if val != 0 {
			v.Indices = append(v.Indices, i)
			v.Values = append(v.Values, val)
		}
	}
	return v
}

// Dense expands the vector into a dense slice of length Width
func (v Vector) Dense() []float64 {
	dense := make([]float64, v.Width)
	for i, idx := range v.Indices {
		dense[idx] = v.Values[i]
	}
	return dense
}

// NNZ returns the number of stored (non-zero) entries
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// Dot computes the dot product with a dense weight slice.
// The weights must be exactly as wide as the vector.
func (v Vector) Dot(weights []float64) (float64, error) {
	if len(weights) != v.Width {
		return 0, fmt.Errorf("dot product width mismatch: vector %d, weights %d", v.Width, len(weights))
	}

	var sum float64
	for i, idx := range v.Indices {
		sum += weights[idx] * v.Values[i]
	}
	return sum, nil
}

// Concat appends other's columns after v's columns
func Concat(v, other Vector) Vector {
	out := Vector{
		Width:   v.Width + other.Width,
		Indices: make([]int, 0, len(v.Indices)+len(other.Indices)),
		Values:  make([]float64, 0, len(v.Values)+len(other.Values)),
	}
	out.Indices = append(out.Indices, v.Indices...)
	out.Values = append(out.Values, v.Values...)
	for i, idx := range other.Indices {
		out.Indices = append(out.Indices, v.Width+idx)
		out.Values = append(out.Values, other.Values[i])
	}
	return out
}

// Slice returns columns [from, to) as a new vector re-indexed from zero
func (v Vector) Slice(from, to int) Vector {
	out := Vector{Width: to - from}
	for i, idx := range v.Indices {
		if idx >= from && idx < to {
			out.Indices = append(out.Indices, idx-from)
			out.Values = append(out.Values, v.Values[i])
		}
	}
	return out
}
