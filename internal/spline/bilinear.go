// Package spline provides the interpolators the denoising pipeline needs
// over sparse annotation grids: a degree-3 univariate spline and a
// degree-1 bivariate rectangular spline. Degree-3 rectangular splines are
// not implemented; nothing in the pipeline lifts a sparse grid to full
// resolution with anything other than a bilinear fit.
package spline

import (
	"math"
	"sort"
)

// Bilinear2D is a degree-1 rectangular bivariate spline over a regular grid
// of x (columns) and y (rows) axes, matching the default degree of
// RectBivariateSpline as used throughout the pipeline for lifting sparse
// geolocation and annotation grids to full resolution. Values outside the
// grid bounds are extrapolated by clamping to the nearest edge cell and
// extending its bilinear plane, not by clamping the output value itself.
type Bilinear2D struct {
	x, y []float64   // strictly increasing axes
	z    [][]float64 // z[row][col], len(y) rows by len(x) cols
}

// NewBilinear2D builds a Bilinear2D over axes x (columns), y (rows) and
// values z indexed z[row][col].
func NewBilinear2D(x, y []float64, z [][]float64) *Bilinear2D {
	if len(z) != len(y) {
		panic("spline: z row count must match len(y)")
	}
	for _, row := range z {
		if len(row) != len(x) {
			panic("spline: z column count must match len(x)")
		}
	}
	return &Bilinear2D{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
		z: z,
	}
}

func clampIndex(axis []float64, v float64) int {
	n := len(axis)
	i := sort.SearchFloat64s(axis, v)
	switch {
	case i <= 0:
		return 0
	case i >= n:
		return n - 2
	default:
		return i - 1
	}
}

// Eval evaluates the surface at (px, py).
func (s *Bilinear2D) Eval(px, py float64) float64 {
	if len(s.x) == 0 || len(s.y) == 0 {
		return math.NaN()
	}
	if len(s.x) == 1 && len(s.y) == 1 {
		return s.z[0][0]
	}
	ix := clampIndex(s.x, px)
	iy := clampIndex(s.y, py)
	if len(s.x) == 1 {
		y0, y1 := s.y[iy], s.y[iy+1]
		v0, v1 := s.z[iy][0], s.z[iy+1][0]
		return lerp(py, y0, y1, v0, v1)
	}
	if len(s.y) == 1 {
		x0, x1 := s.x[ix], s.x[ix+1]
		v0, v1 := s.z[0][ix], s.z[0][ix+1]
		return lerp(px, x0, x1, v0, v1)
	}

	x0, x1 := s.x[ix], s.x[ix+1]
	y0, y1 := s.y[iy], s.y[iy+1]

	q00 := s.z[iy][ix]
	q10 := s.z[iy][ix+1]
	q01 := s.z[iy+1][ix]
	q11 := s.z[iy+1][ix+1]

	r0 := lerp(px, x0, x1, q00, q10)
	r1 := lerp(px, x0, x1, q01, q11)
	return lerp(py, y0, y1, r0, r1)
}

func lerp(t, t0, t1, v0, v1 float64) float64 {
	if t1 == t0 {
		return v0
	}
	frac := (t - t0) / (t1 - t0)
	return v0 + frac*(v1-v0)
}

// EvalGrid evaluates the surface over the outer product of px and py,
// returning a [len(py)][len(px)] grid, the shape full-resolution assembly
// needs when lifting an annotation grid onto an image-sized mesh.
func (s *Bilinear2D) EvalGrid(px, py []float64) [][]float64 {
	out := make([][]float64, len(py))
	for j, y := range py {
		row := make([]float64, len(px))
		for i, x := range px {
			row[i] = s.Eval(x, y)
		}
		out[j] = row
	}
	return out
}
