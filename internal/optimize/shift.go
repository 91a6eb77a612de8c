// Package optimize wraps gonum's Nelder-Mead minimizer for the single
// scalar search the denoising pipeline needs: finding the pixel shift that
// best aligns an ESA-supplied noise LUT with the antenna-pattern-gain
// profile (spec.md §4.4.1).
package optimize

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// MinimizeScalar minimizes a single-variable cost function starting from
// x0, mirroring scipy.optimize.minimize(cost, x0, method="Nelder-Mead").
// It returns the minimizing x and the cost there. If the minimizer fails
// or ends on a NaN cost, x0 is returned unchanged and ok is false so the
// caller can report the shift as undefined rather than fabricate a zero.
// A constant cost is not detected here; callers screen out flat inputs
// before searching.
func MinimizeScalar(cost func(x float64) float64, x0 float64) (x float64, value float64, ok bool) {
	p := optimize.Problem{
		Func: func(v []float64) float64 {
			return cost(v[0])
		},
	}

	result, err := optimize.Minimize(p, []float64{x0}, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		return x0, cost(x0), false
	}
	if len(result.X) == 0 || math.IsNaN(result.F) {
		return x0, cost(x0), false
	}
	return result.X[0], result.F, true
}
