package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinimizeScalarFindsMinimum(t *testing.T) {
	cost := func(x float64) float64 {
		d := x - 3
		return d * d
	}
	x, value, ok := MinimizeScalar(cost, 0)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, x, 1e-2)
	assert.InDelta(t, 0.0, value, 1e-2)
}
