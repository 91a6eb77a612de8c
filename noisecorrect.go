package gosardenoise

import (
	"math"

	"github.com/nansencenter/gosardenoise/internal/optimize"
	"github.com/nansencenter/gosardenoise/internal/spline"
)

// ShiftResult is the outcome of searching for the pixel shift that best
// aligns a noise-range LUT with the independently reconstructed
// antenna-pattern-gain profile, per spec.md §4.4.1.
type ShiftResult struct {
	Shift float64 // pixels
	Cost  float64
	// Defined is false when the input vector was flat (every sample
	// equal) or too short to leave any samples after the border skip: no
	// shift minimizes a degenerate cost, so Shift is reported as
	// undefined instead of silently 0, per SPEC_FULL.md §9.
	Defined bool
}

// noiseLUTShiftBorder is the number of samples skipped at each end of the
// valid pixel range when scoring a candidate shift, per spec.md §4.4.1:
// the noise LUT and the antenna-pattern-gain reconstruction both degrade
// near the swath edges, and including them would bias the optimum.
const noiseLUTShiftBorder = 4

// FindNoiseLUTShift searches for the sub-pixel shift delta that best
// aligns noiseLUT (sampled at pixel, fit with a degree-3 spline) with apg,
// the independently computed antenna-pattern-gain profile (1/(EAP(boresight)
// * RSL)^2, sampled at the same pixel axis), per spec.md §4.4.1. This
// mirrors original_source.get_shifted_noise_field's
// scipy.optimize.minimize(cost, 0, method="Nelder-Mead") call, except the
// search variable is a pixel shift rather than a time shift and the cost
// is scored against APG rather than against the noise vector itself. The
// noise LUT's absolute scale is instrument units, unrelated to APG's, so
// at each trial shift the best-fit multiplicative scale is solved in
// closed form (ordinary least squares) before the residual is scored.
func FindNoiseLUTShift(pixel, noiseLUT, apg []float64) ShiftResult {
	if len(pixel) == 0 || len(pixel) != len(noiseLUT) || len(pixel) != len(apg) {
		return ShiftResult{}
	}

	flat := true
	for _, v := range noiseLUT[1:] {
		if math.Abs(v-noiseLUT[0]) > 1e-12 {
			flat = false
			break
		}
	}
	if flat {
		return ShiftResult{Defined: false}
	}

	lo, hi := noiseLUTShiftBorder, len(pixel)-1-noiseLUTShiftBorder
	if hi <= lo {
		return ShiftResult{Defined: false}
	}

	lutSpline := spline.NewCubic1D(pixel, noiseLUT)

	cost := func(delta float64) float64 {
		n := make([]float64, 0, hi-lo+1)
		var sumNN, sumNA float64
		for i := lo; i <= hi; i++ {
			v := lutSpline.Eval(pixel[i] + delta)
			n = append(n, v)
			sumNN += v * v
			sumNA += v * apg[i]
		}
		if sumNN == 0 {
			return math.Inf(1)
		}
		scale := sumNA / sumNN
		var residual float64
		for k, i := 0, lo; i <= hi; i, k = i+1, k+1 {
			d := scale*n[k] - apg[i]
			residual += d * d
		}
		return residual
	}

	x, value, ok := optimize.MinimizeScalar(cost, 0)
	if !ok {
		return ShiftResult{Defined: false}
	}
	return ShiftResult{Shift: x, Cost: value, Defined: true}
}

// ApplyShift resamples noiseLUT (sampled at pixel, degree-3 spline) onto
// targetPixels after applying a pixel shift, used once the optimal shift
// for a subswath has been found.
func ApplyShift(pixel, noiseLUT []float64, shift float64, targetPixels []float64) []float64 {
	if len(pixel) == 0 {
		out := make([]float64, len(targetPixels))
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	s := spline.NewCubic1D(pixel, noiseLUT)
	out := make([]float64, len(targetPixels))
	for i, p := range targetPixels {
		out[i] = s.Eval(p + shift)
	}
	return out
}

// ScaleOffset is the pair of per-swath coefficients (ns, pb) applied to a
// noise-equivalent sigma-nought profile: corrected = ns*NESZ + pb, per
// spec.md §4.6. ns defaults to 1 and pb to 0 when no DenoisingCoefficients
// entry is available (MissingCoefficients is non-fatal, see errors.go).
type ScaleOffset struct {
	NoiseScaling   float64
	PowerBalancing float64
}

// DefaultScaleOffset is the fallback used when a product/swath has no
// published denoising coefficients.
var DefaultScaleOffset = ScaleOffset{NoiseScaling: 1, PowerBalancing: 0}

// Apply scales and offsets a noise-equivalent sigma-nought profile,
// returning a new slice.
func (s ScaleOffset) Apply(nesz []float64) []float64 {
	out := make([]float64, len(nesz))
	for i, v := range nesz {
		out[i] = s.NoiseScaling*v + s.PowerBalancing
	}
	return out
}

// TotalGainNoise reconstructs a swath's noise-equivalent sigma-nought
// directly from the antenna gain model rather than the ESA range-noise
// LUT, per spec.md §4.6's "total gain" alternative algorithm (NERSC_TG):
// NESZ = noisePower / (gain^2 * rangeSpreadingLoss), with gain expressed
// as a linear (not dB) two-way antenna pattern value. This is the
// algorithm IPF versions below 2.43 fall back to, since their published
// range-noise LUT is not reliable enough for the shift-correction
// approach.
func TotalGainNoise(noisePower []float64, gainDB []float64, rangeSpreadingLoss []float64) []float64 {
	out := make([]float64, len(noisePower))
	for i := range noisePower {
		gainLinear := math.Pow(10, gainDB[i]/10)
		denom := gainLinear * gainLinear * rangeSpreadingLoss[i]
		if denom == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = noisePower[i] / denom
	}
	return out
}
