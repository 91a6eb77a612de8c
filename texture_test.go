package gosardenoise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttenuateTexturePreservesBrightReturns(t *testing.T) {
	r := NewRaster(0, 0, 3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Set(i, j, 10)
		}
	}
	out := attenuateTexture(r, 3, 0.5, 1.0) // floor well below the data
	assert.Equal(t, float32(10), out.At(1, 1))
}

func TestAttenuateTextureBlendsBelowFloor(t *testing.T) {
	r := NewRaster(0, 0, 3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Set(i, j, 0.01)
		}
	}
	out := attenuateTexture(r, 3, 1.0, 1.0) // floor above the data, full weight
	assert.InDelta(t, 0.01, float64(out.At(1, 1)), 1e-6)
}

func TestAttenuateTexturePreservesNaN(t *testing.T) {
	r := NewRaster(0, 0, 2, 2)
	out := attenuateTexture(r, 3, 0.5, 1.0)
	assert.True(t, math.IsNaN(float64(out.At(0, 0))))
}
