package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manideep667320/Email-Spam-detection/internal/sparse"
)

func TestNew_DropsZerosAndSorts(t *testing.T) {
	v := sparse.New(6, map[int]float64{4: 2, 1: 0.5, 3: 0})

	assert.Equal(t, 6, v.Width)
	assert.Equal(t, []int{1, 4}, v.Indices)
	assert.Equal(t, []float64{0.5, 2}, v.Values)
}

func TestDot(t *testing.T) {
	v := sparse.FromDense([]float64{0, 1, 0, 3})

	got, err := v.Dot([]float64{10, 2, 7, -1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, got, 1e-12)

	_, err = v.Dot([]float64{1, 2})
	assert.Error(t, err)
}

func TestConcatAndSlice(t *testing.T) {
	text := sparse.FromDense([]float64{0, 0.6, 0.8})
	links := sparse.FromDense([]float64{1, 0, 0, 2, 0})

	combined := sparse.Concat(text, links)
	assert.Equal(t, 8, combined.Width)
	assert.Equal(t, []float64{0, 0.6, 0.8, 1, 0, 0, 2, 0}, combined.Dense())

	assert.Equal(t, links.Dense(), combined.Slice(3, 8).Dense())
	assert.Equal(t, text.Dense(), combined.Slice(0, 3).Dense())
}

func TestEmptyVector(t *testing.T) {
	v := sparse.New(4, nil)
	assert.Equal(t, 0, v.NNZ())
	assert.Equal(t, []float64{0, 0, 0, 0}, v.Dense())
}
