package spline

import "sort"

// Cubic1D is a natural cubic spline (second derivative pinned to zero at
// both ends) with linear extrapolation beyond the first and last knot. It
// stands in for scipy's InterpolatedUnivariateSpline(k=3): the denoising
// pipeline only ever asks for a smooth curve through sparse, noise-free
// antenna-pattern samples, so the not-a-knot boundary condition scipy
// defaults to and the natural condition used here are not distinguishable
// within the pipeline's tolerance.
type Cubic1D struct {
	x, y       []float64
	a, b, c, d []float64 // per-segment coefficients: y = a + b*dx + c*dx^2 + d*dx^3
}

// NewCubic1D builds a Cubic1D from knots (x, y). x must be strictly
// increasing and contain at least two points; with exactly two points the
// spline degrades to a straight line.
func NewCubic1D(x, y []float64) *Cubic1D {
	n := len(x)
	if n != len(y) {
		panic("spline: x and y length mismatch")
	}
	s := &Cubic1D{x: append([]float64(nil), x...), y: append([]float64(nil), y...)}
	if n < 2 {
		return s
	}
	if n == 2 {
		dx := x[1] - x[0]
		slope := 0.0
		if dx != 0 {
			slope = (y[1] - y[0]) / dx
		}
		s.a = []float64{y[0]}
		s.b = []float64{slope}
		s.c = []float64{0}
		s.d = []float64{0}
		return s
	}

	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
	}

	// Tridiagonal system for second derivatives m, natural boundary m[0]=m[n-1]=0.
	alpha := make([]float64, n)
	for i := 1; i < n-1; i++ {
		alpha[i] = 3*(y[i+1]-y[i])/h[i] - 3*(y[i]-y[i-1])/h[i-1]
	}

	l := make([]float64, n)
	mu := make([]float64, n)
	z := make([]float64, n)
	l[0] = 1
	for i := 1; i < n-1; i++ {
		l[i] = 2*(x[i+1]-x[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}
	l[n-1] = 1

	c := make([]float64, n)
	b := make([]float64, n-1)
	d := make([]float64, n-1)
	for j := n - 2; j >= 0; j-- {
		c[j] = z[j] - mu[j]*c[j+1]
		b[j] = (y[j+1]-y[j])/h[j] - h[j]*(c[j+1]+2*c[j])/3
		d[j] = (c[j+1] - c[j]) / (3 * h[j])
	}

	s.a = y[:n-1]
	s.b = b
	s.c = c[:n-1]
	s.d = d
	return s
}

// Eval evaluates the spline at t, extrapolating linearly using the slope of
// the nearest segment's tangent at its boundary knot.
func (s *Cubic1D) Eval(t float64) float64 {
	n := len(s.x)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return s.y[0]
	}
	if t < s.x[0] {
		return s.y[0] + s.b[0]*(t-s.x[0])
	}
	if last := len(s.a) - 1; t > s.x[n-1] {
		h := s.x[n-1] - s.x[last]
		slope := s.b[last] + h*(2*s.c[last]+3*s.d[last]*h)
		return s.y[n-1] + slope*(t-s.x[n-1])
	}
	i := sort.SearchFloat64s(s.x, t) - 1
	if i < 0 {
		i = 0
	}
	if i > len(s.a)-1 {
		i = len(s.a) - 1
	}
	dx := t - s.x[i]
	return s.a[i] + dx*(s.b[i]+dx*(s.c[i]+dx*s.d[i]))
}

// EvalAll evaluates the spline at every point in t.
func (s *Cubic1D) EvalAll(t []float64) []float64 {
	out := make([]float64, len(t))
	for i, v := range t {
		out[i] = s.Eval(v)
	}
	return out
}
