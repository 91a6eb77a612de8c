package gosardenoise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pixelAxis(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestFindNoiseLUTShiftConstantVectorIsUndefined(t *testing.T) {
	px := pixelAxis(20)
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 3
	}
	apg := make([]float64, 20)
	for i := range apg {
		apg[i] = float64(i)
	}
	result := FindNoiseLUTShift(px, flat, apg)
	assert.False(t, result.Defined)
}

func TestFindNoiseLUTShiftTooShortForBorderIsUndefined(t *testing.T) {
	px := pixelAxis(6)
	noise := []float64{1, 2, 3, 4, 5, 6}
	apg := []float64{2, 3, 4, 5, 6, 7}
	result := FindNoiseLUTShift(px, noise, apg)
	assert.False(t, result.Defined)
}

func TestFindNoiseLUTShiftRecoversKnownShift(t *testing.T) {
	n := 60
	px := pixelAxis(n)
	noise := make([]float64, n)
	for i := range noise {
		noise[i] = float64(i)
	}

	const shift = 3.0
	apg := make([]float64, n)
	for i := range apg {
		// apg(pixel) = noise(pixel + shift), the profile FindNoiseLUTShift
		// should recover a +shift pixel offset for.
		apg[i] = float64(i) + shift
	}

	result := FindNoiseLUTShift(px, noise, apg)
	if assert.True(t, result.Defined) {
		assert.InDelta(t, shift, result.Shift, 0.5)
	}
}

func TestApplyShiftIdentityAtZero(t *testing.T) {
	px := pixelAxis(10)
	vals := make([]float64, 10)
	for i := range vals {
		vals[i] = float64(i) * 2
	}
	out := ApplyShift(px, vals, 0, px)
	for i, v := range out {
		assert.InDelta(t, vals[i], v, 1e-9)
	}
}

func TestScaleOffsetApply(t *testing.T) {
	so := ScaleOffset{NoiseScaling: 2, PowerBalancing: 1}
	out := so.Apply([]float64{0, 1, 2})
	assert.Equal(t, []float64{1, 3, 5}, out)
}

func TestDefaultScaleOffsetIsIdentity(t *testing.T) {
	out := DefaultScaleOffset.Apply([]float64{1, 2, 3})
	assert.Equal(t, []float64{1, 2, 3}, out)
}

func TestTotalGainNoiseDivision(t *testing.T) {
	noisePower := []float64{10, 20}
	gainDB := []float64{0, 0} // linear gain 1
	rsl := []float64{1, 2}
	out := TotalGainNoise(noisePower, gainDB, rsl)
	assert.InDelta(t, 10, out[0], 1e-9)
	assert.InDelta(t, 10, out[1], 1e-9)
}
