package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBilinear2DEvalAtGridPoints(t *testing.T) {
	x := []float64{0, 1}
	y := []float64{0, 1}
	z := [][]float64{
		{0, 1},
		{2, 3},
	}
	s := NewBilinear2D(x, y, z)
	assert.Equal(t, 0.0, s.Eval(0, 0))
	assert.Equal(t, 1.0, s.Eval(1, 0))
	assert.Equal(t, 2.0, s.Eval(0, 1))
	assert.Equal(t, 3.0, s.Eval(1, 1))
}

func TestBilinear2DInterpolatesCenter(t *testing.T) {
	x := []float64{0, 2}
	y := []float64{0, 2}
	z := [][]float64{
		{0, 0},
		{0, 4},
	}
	s := NewBilinear2D(x, y, z)
	assert.InDelta(t, 1.0, s.Eval(1, 1), 1e-9)
}

func TestBilinear2DEvalGridShape(t *testing.T) {
	x := []float64{0, 1}
	y := []float64{0, 1}
	z := [][]float64{{0, 1}, {2, 3}}
	s := NewBilinear2D(x, y, z)
	grid := s.EvalGrid([]float64{0, 0.5, 1}, []float64{0, 1})
	assert.Len(t, grid, 2)
	assert.Len(t, grid[0], 3)
}
