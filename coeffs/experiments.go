package coeffs

import (
	"gonum.org/v1/gonum/stat"
)

// FitNoiseScaling fits the noise-scaling coefficient ns such that
// power ≈ ns*nesz + c, by ordinary least squares, implementing
// original_source's experiment_noiseScaling procedure (offline, not
// called by the runtime pipeline). It returns ns; the intercept is
// discarded since only the slope is used as a denoising coefficient.
func FitNoiseScaling(nesz, power []float64) float64 {
	_, ns := stat.LinearRegression(nesz, power, nil, false)
	return ns
}

// FitPowerBalancing fits the additive power-balancing offset pb between
// two adjacent subswaths' corrected sigma-nought profiles at their shared
// boundary, implementing original_source's experiment_powerBalancing
// procedure: pb is the mean residual needed to align the trailing edge of
// one subswath with the leading edge of the next (spec.md Testable
// Property 4, "reduced inter-swath step").
func FitPowerBalancing(leftEdge, rightEdge []float64) float64 {
	if len(leftEdge) == 0 || len(rightEdge) == 0 {
		return 0
	}
	return mean(rightEdge) - mean(leftEdge)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}
