package gosardenoise

import (
	"math"

	"github.com/nansencenter/gosardenoise/internal/spline"
)

// Raster is a dense float32-valued swath-bound block of the
// full-resolution output grid, e.g. a sigma-nought or NESZ image.
type Raster struct {
	FirstLine, FirstSample int
	Values                 [][]float32 // Values[line-FirstLine][sample-FirstSample]
}

// NewRaster allocates a Raster of the given size, filled with NaN outside
// any data later written into it so the "NaN outside swath bounds"
// invariant (spec.md §8 Testable Property 1) holds by construction.
func NewRaster(firstLine, firstSample, numLines, numSamples int) *Raster {
	values := make([][]float32, numLines)
	for i := range values {
		row := make([]float32, numSamples)
		for j := range row {
			row[j] = float32(math.NaN())
		}
		values[i] = row
	}
	return &Raster{FirstLine: firstLine, FirstSample: firstSample, Values: values}
}

// At returns the value at absolute (line, sample), or NaN if outside the
// raster's swath-bound block.
func (r *Raster) At(line, sample int) float32 {
	i := line - r.FirstLine
	j := sample - r.FirstSample
	if i < 0 || j < 0 || i >= len(r.Values) || j >= len(r.Values[0]) {
		return float32(math.NaN())
	}
	return r.Values[i][j]
}

// Set writes value at absolute (line, sample); out-of-bounds writes are
// silently dropped, since each worker only ever writes within its own
// swath-bound block (spec.md §5).
func (r *Raster) Set(line, sample int, value float32) {
	i := line - r.FirstLine
	j := sample - r.FirstSample
	if i < 0 || j < 0 || i >= len(r.Values) || j >= len(r.Values[0]) {
		return
	}
	r.Values[i][j] = value
}

// intAxisToFloat converts an integer pixel/line axis into the float64 axis
// spline.Bilinear2D expects.
func intAxisToFloat(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// LiftNoiseLUT builds a degree-1 bivariate spline over (pixel, line) from a
// swath's per-vector range-noise LUT samples, one row per noise vector,
// per spec.md §4.5. Every vector is assumed to share the same pixel axis,
// as ESA's noise annotation schema publishes, and vecs must be sorted by
// Line ascending.
func LiftNoiseLUT(vecs []NoiseVector) *spline.Bilinear2D {
	pixels := intAxisToFloat(vecs[0].Pixels)
	lines := make([]float64, len(vecs))
	values := make([][]float64, len(vecs))
	for i, v := range vecs {
		lines[i] = float64(v.Line)
		values[i] = v.RangeLUT
	}
	return spline.NewBilinear2D(pixels, lines, values)
}

// LiftSigma0Calibration builds a degree-1 bivariate spline over
// (pixel, line) from a swath's sparse sigma-nought calibration LUT, per
// spec.md §4.5.
func LiftSigma0Calibration(lines, pixels []int, values [][]float64) *spline.Bilinear2D {
	return spline.NewBilinear2D(intAxisToFloat(pixels), intAxisToFloat(lines), values)
}

// rasterizeBivariate evaluates a bivariate spline over every (line, sample)
// of swath's full-resolution grid into a dense Raster.
func rasterizeBivariate(swath Swath, surface *spline.Bilinear2D) *Raster {
	r := NewRaster(swath.FirstLine, swath.FirstSample, swath.NumberOfLines, swath.NumberOfSamples)
	for li := 0; li < swath.NumberOfLines; li++ {
		line := float64(swath.FirstLine + li)
		for si := 0; si < swath.NumberOfSamples; si++ {
			pixel := float64(swath.FirstSample + si)
			r.Values[li][si] = float32(surface.Eval(pixel, line))
		}
	}
	return r
}

// AssembleSwathBlock lifts a swath's corrected range-noise LUT (a degree-1
// bivariate spline over pixel/line, built by LiftNoiseLUT) and its
// reconstructed per-line azimuth gain into a dense full-resolution NESZ
// block, applying the scale/offset correction as it goes, per spec.md
// §4.5: corrected(line, pixel) = ns * nesz(pixel, line) * 10^(-azGain(line)/10) + pb.
func AssembleSwathBlock(swath Swath, nesz *spline.Bilinear2D, azimuthGainDB []float64, so ScaleOffset) *Raster {
	r := NewRaster(swath.FirstLine, swath.FirstSample, swath.NumberOfLines, swath.NumberOfSamples)
	for li := 0; li < swath.NumberOfLines; li++ {
		azGain := 0.0
		if li < len(azimuthGainDB) {
			azGain = azimuthGainDB[li]
		}
		azFactor := math.Pow(10, -azGain/10)
		line := float64(swath.FirstLine + li)
		for si := 0; si < swath.NumberOfSamples; si++ {
			pixel := float64(swath.FirstSample + si)
			base := nesz.Eval(pixel, line)
			r.Values[li][si] = float32(so.NoiseScaling*base*azFactor + so.PowerBalancing)
		}
	}
	return r
}

// Sigma0FromDN computes raw (pre-denoising) sigma-nought from a digital
// number block and the swath's full-resolution sigma-nought calibration
// raster, per spec.md §4.6: sigma0 = DN^2 / sigma0_cal^2. dn must be
// indexed the same way swath.FirstLine/FirstSample addresses sigma0Cal:
// dn[li][si] corresponds to absolute line swath.FirstLine+li, sample
// swath.FirstSample+si.
func Sigma0FromDN(dn [][]uint16, swath Swath, sigma0Cal *Raster) *Raster {
	r := NewRaster(swath.FirstLine, swath.FirstSample, swath.NumberOfLines, swath.NumberOfSamples)
	for li := 0; li < swath.NumberOfLines && li < len(dn); li++ {
		row := dn[li]
		for si := 0; si < swath.NumberOfSamples && si < len(row); si++ {
			cal := float64(sigma0Cal.Values[li][si])
			if cal == 0 || math.IsNaN(cal) {
				continue
			}
			dnVal := float64(row[si])
			r.Values[li][si] = float32(dnVal * dnVal / (cal * cal))
		}
	}
	return r
}

// SubtractNESZ returns sigma0 - nesz, line for line, the thermal-noise
// removed sigma-nought, per spec.md §4.6. Both rasters must share the same
// bounds.
func SubtractNESZ(sigma0, nesz *Raster) *Raster {
	r := NewRaster(sigma0.FirstLine, sigma0.FirstSample, len(sigma0.Values), 0)
	if len(sigma0.Values) == 0 {
		return r
	}
	r = NewRaster(sigma0.FirstLine, sigma0.FirstSample, len(sigma0.Values), len(sigma0.Values[0]))
	for i := range sigma0.Values {
		for j := range sigma0.Values[i] {
			n := nesz.At(sigma0.FirstLine+i, sigma0.FirstSample+j)
			r.Values[i][j] = sigma0.Values[i][j] - n
		}
	}
	return r
}
