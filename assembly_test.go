package gosardenoise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nansencenter/gosardenoise/internal/spline"
)

func constantSurface(v float64) *spline.Bilinear2D {
	return spline.NewBilinear2D([]float64{0, 1}, []float64{0, 1}, [][]float64{{v, v}, {v, v}})
}

func TestRasterOutsideBoundsIsNaN(t *testing.T) {
	r := NewRaster(100, 200, 5, 5)
	assert.True(t, math.IsNaN(float64(r.At(0, 0))))
	assert.True(t, math.IsNaN(float64(r.At(1000, 1000))))
}

func TestRasterSetAndGet(t *testing.T) {
	r := NewRaster(0, 0, 3, 3)
	r.Set(1, 1, 42)
	assert.Equal(t, float32(42), r.At(1, 1))
	assert.True(t, math.IsNaN(float64(r.At(0, 0))))
}

func TestAssembleSwathBlockFillsExactlyItsBounds(t *testing.T) {
	swath := Swath{Name: "IW1", FirstLine: 10, FirstSample: 20, NumberOfLines: 2, NumberOfSamples: 3}
	r := AssembleSwathBlock(swath, constantSurface(1), []float64{0, 0}, DefaultScaleOffset)
	for li := 0; li < swath.NumberOfLines; li++ {
		for si := 0; si < swath.NumberOfSamples; si++ {
			v := r.At(swath.FirstLine+li, swath.FirstSample+si)
			assert.False(t, math.IsNaN(float64(v)))
		}
	}
	assert.True(t, math.IsNaN(float64(r.At(9, 20))))
	assert.True(t, math.IsNaN(float64(r.At(10, 23))))
}

func TestAssembleSwathBlockIdempotentUnderZeroScaleOffset(t *testing.T) {
	swath := Swath{Name: "IW1", FirstLine: 0, FirstSample: 0, NumberOfLines: 1, NumberOfSamples: 4}
	r := AssembleSwathBlock(swath, constantSurface(0), []float64{0}, DefaultScaleOffset)
	for si := 0; si < swath.NumberOfSamples; si++ {
		assert.Equal(t, float32(0), r.At(0, si))
	}
}

func TestSubtractNESZ(t *testing.T) {
	sigma0 := NewRaster(0, 0, 2, 2)
	nesz := NewRaster(0, 0, 2, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			sigma0.Set(i, j, 5)
			nesz.Set(i, j, 2)
		}
	}
	out := SubtractNESZ(sigma0, nesz)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, float32(3), out.At(i, j))
		}
	}
}

func TestSigma0FromDN(t *testing.T) {
	swath := Swath{Name: "IW1", FirstLine: 0, FirstSample: 0, NumberOfLines: 1, NumberOfSamples: 2}
	cal := NewRaster(0, 0, 1, 2)
	cal.Set(0, 0, 2)
	cal.Set(0, 1, 1)
	dn := [][]uint16{{10, 10}}
	out := Sigma0FromDN(dn, swath, cal)
	assert.InDelta(t, 25.0, float64(out.At(0, 0)), 1e-6)
	assert.InDelta(t, 100.0, float64(out.At(0, 1)), 1e-6)
}
