package gosardenoise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatAAEP(gain float64) *EAPInterpolator {
	samples := make([]float64, 21)
	for i := range samples {
		samples[i] = gain // dB, constant pattern
	}
	return NewEAPInterpolator(samples, 0.5, false)
}

func TestFocusedBurstLengthFindsDivisorNearNominal(t *testing.T) {
	length, err := focusedBurstLength(2900, 1450)
	require.NoError(t, err)
	assert.Equal(t, 1450, length)
}

func TestFocusedBurstLengthFailsRaisesError(t *testing.T) {
	_, err := focusedBurstLength(7, 1450)
	assert.Error(t, err)
}

func TestNewScallopingModelRejectsUnsynchronizableSwath(t *testing.T) {
	geo := BurstGeometry{
		Velocity:              7000,
		SteeringRateDegPerSec: 1.5,
		MotionDopplerRate:     500,
		LineTimeInterval:      2 * time.Millisecond,
		Mode:                  ModeIW,
	}
	_, err := NewScallopingModel(7, geo, flatAAEP(1), 0)
	require.Error(t, err)
	var pipelineErr *Error
	if assert.ErrorAs(t, err, &pipelineErr) {
		assert.Equal(t, NumericDegenerate, pipelineErr.Kind)
	}
}

func TestScallopingModelGainIsPeriodicInBurstLength(t *testing.T) {
	geo := BurstGeometry{
		Velocity:              7000,
		SteeringRateDegPerSec: 1.5,
		MotionDopplerRate:     500,
		LineTimeInterval:      2 * time.Millisecond,
		Mode:                  ModeIW,
	}
	model, err := NewScallopingModel(1450*3, geo, flatAAEP(1), 0)
	require.NoError(t, err)
	assert.Equal(t, 1450, model.BurstLength())

	gains := model.GainAtLines(1450 * 3)
	for i := 0; i < 1450; i++ {
		assert.InDelta(t, gains[i], gains[i+1450], 1e-9)
		assert.InDelta(t, gains[i], gains[i+2*1450], 1e-9)
	}
}

func TestScallopingModelUsesEWNominalLength(t *testing.T) {
	geo := BurstGeometry{
		Velocity:              7000,
		SteeringRateDegPerSec: 1.2,
		MotionDopplerRate:     400,
		LineTimeInterval:      2 * time.Millisecond,
		Mode:                  ModeEW,
	}
	model, err := NewScallopingModel(1100*2, geo, flatAAEP(1), 0)
	require.NoError(t, err)
	assert.Equal(t, 1100, model.BurstLength())
}
