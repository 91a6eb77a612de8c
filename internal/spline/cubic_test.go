package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCubic1DInterpolatesLinearData(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 2, 4, 6, 8}
	s := NewCubic1D(x, y)
	for _, v := range []float64{0, 0.5, 1.5, 3.9} {
		assert.InDelta(t, 2*v, s.Eval(v), 1e-6)
	}
}

func TestCubic1DTwoPoints(t *testing.T) {
	s := NewCubic1D([]float64{0, 1}, []float64{0, 1})
	assert.InDelta(t, 0.5, s.Eval(0.5), 1e-9)
}
