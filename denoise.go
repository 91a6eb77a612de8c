package gosardenoise

import (
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/alitto/pond"

	"github.com/nansencenter/gosardenoise/internal/spline"
)

// minimumIPFForShiftCorrection is the lowest IPF version whose published
// range-noise LUT is trustworthy enough for the NERSC shift-correction
// algorithm; below it the pipeline falls back to the total-gain algorithm
// (NERSC_TG), per spec.md §4.6 Scenario C.
const minimumIPFForShiftCorrection = 2.43

// DenoiseOptions configures a denoising run. It mirrors the teacher's
// pattern of flags mapping directly onto function arguments (cmd/main.go's
// cli.StringFlag/cli.BoolFlag populate plain parameters) rather than a
// config-file library, since nothing in the retrieval pack reaches for one
// for this kind of run configuration.
type DenoiseOptions struct {
	// Algorithm selects the noise-removal variant: "NERSC" (default,
	// LUT-shift + scale/offset correction), "ESA" (vendor LUT as-is), or
	// "NERSC_TG" (total-gain reconstruction from the antenna model). The
	// pipeline silently upgrades ESA/NERSC to NERSC_TG for IPF versions
	// below minimumIPFForShiftCorrection, per spec.md §4.6 Scenario C.
	Algorithm string
	// RemoveNegative clips corrected sigma-nought to a minimum instead of
	// leaving negative values in the output.
	RemoveNegative bool
	MinDN          float64
	// Texture-noise attenuation window/weight/floor, per spec.md §4.6.2.
	TextureWindow int
	TextureWeight float64
	Sigma0Min     float64
	// Parallel fans per-swath work across a worker pool sized
	// runtime.NumCPU(), mirroring cmd/main.go's pond usage.
	Parallel bool
}

// DefaultDenoiseOptions returns the pipeline's default configuration.
func DefaultDenoiseOptions() DenoiseOptions {
	return DenoiseOptions{
		Algorithm:      "NERSC",
		RemoveNegative: false,
		MinDN:          0,
		TextureWindow:  49,
		TextureWeight:  0.5,
		Sigma0Min:      1e-5,
		Parallel:       true,
	}
}

// RemoveThermalNoise runs the full thermal-noise removal pipeline
// (spec.md §4.4-§4.6) across every swath of the product, returning one
// denoised sigma-nought Raster per swath keyed by swath name plus any
// non-fatal warnings accumulated along the way.
func (p *Product) RemoveThermalNoise(opts DenoiseOptions) (map[string]*Raster, []Warning, error) {
	swaths, err := p.Annotation.Swaths()
	if err != nil {
		return nil, nil, wrap(MalformedMetadata, "reading swath list", err)
	}

	type job struct {
		swath  Swath
		raster *Raster
		err    error
	}
	jobs := make([]*job, len(swaths))
	for i, s := range swaths {
		jobs[i] = &job{swath: s}
	}

	run := func(j *job) {
		j.raster, j.err = p.denoiseSwath(j.swath, opts)
	}

	if opts.Parallel && len(jobs) > 1 {
		pool := pond.New(runtime.NumCPU(), 0, pond.MinWorkers(runtime.NumCPU()))
		for _, j := range jobs {
			jj := j
			pool.Submit(func() { run(jj) })
		}
		pool.StopAndWait()
	} else {
		for _, j := range jobs {
			run(j)
		}
	}

	out := make(map[string]*Raster, len(jobs))
	for _, j := range jobs {
		if j.err != nil {
			return nil, p.Warnings, wrap(NumericDegenerate, "denoising swath "+j.swath.Name, j.err)
		}
		out[j.swath.Name] = j.raster
	}
	return out, p.Warnings, nil
}

// effectiveAlgorithm resolves the algorithm actually run for a swath: the
// requested one, unless the product's IPF version is below
// minimumIPFForShiftCorrection, in which case the total-gain algorithm is
// forced regardless of what was requested, per spec.md §4.6 Scenario C.
func (p *Product) effectiveAlgorithm(requested string) string {
	if p.IPFVersion > 0 && p.IPFVersion < minimumIPFForShiftCorrection {
		return "NERSC_TG"
	}
	if requested == "" {
		return "NERSC"
	}
	return requested
}

// denoiseSwath implements the per-swath pipeline: build the antenna/orbit
// geometry interpolators, correct the range-noise LUT (NERSC or NERSC_TG)
// or take it as-is (ESA), reconstruct the azimuth scalloping gain, lift
// both to full resolution, then compute sigma-nought from the raw DN
// raster and subtract the corrected NESZ from it, per spec.md §4.4-§4.6.
func (p *Product) denoiseSwath(swath Swath, opts DenoiseOptions) (*Raster, error) {
	if p.DN == nil || p.Calibration == nil {
		return nil, wrap(MalformedMetadata, "no DN/calibration source bound for "+swath.Name, nil)
	}

	rangeVecs, err := p.Noise.RangeVectors(swath.Name)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading range noise vectors for "+swath.Name, err)
	}
	if len(rangeVecs) == 0 {
		return nil, wrap(MalformedMetadata, "no range noise vectors for "+swath.Name, nil)
	}
	sort.Slice(rangeVecs, func(i, j int) bool { return rangeVecs[i].Line < rangeVecs[j].Line })

	geometry, err := p.swathGeometry(swath)
	if err != nil {
		return nil, err
	}

	algorithm := p.effectiveAlgorithm(opts.Algorithm)

	var neszSurface *spline.Bilinear2D
	switch algorithm {
	case "ESA":
		neszSurface = LiftNoiseLUT(rangeVecs)
	case "NERSC_TG":
		neszSurface = LiftNoiseLUT(totalGainVectors(rangeVecs, geometry))
	default: // NERSC
		corrected, err := p.correctedRangeVectors(swath, rangeVecs, geometry)
		if err != nil {
			return nil, err
		}
		neszSurface = LiftNoiseLUT(corrected)
	}

	model, err := p.scallopingModel(swath, rangeVecs[0], geometry)
	if err != nil {
		return nil, err
	}
	azGain := model.GainAtLines(swath.NumberOfLines)

	so := p.scaleOffsetFor(swath)
	nesz := AssembleSwathBlock(swath, neszSurface, azGain, so)

	dn, err := p.DN.ReadBlock(swath.Name, swath.FirstLine, swath.LastLine, swath.FirstSample, swath.LastSample)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading DN block for "+swath.Name, err)
	}

	calLines, calPixels, calValues, err := p.Calibration.SigmaNought(swath.Name)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading sigma-nought calibration LUT for "+swath.Name, err)
	}
	sigma0Cal := rasterizeBivariate(swath, LiftSigma0Calibration(calLines, calPixels, calValues))
	sigma0 := Sigma0FromDN(dn, swath, sigma0Cal)

	denoised := SubtractNESZ(sigma0, nesz)
	if opts.RemoveNegative {
		clipNegative(denoised, opts.MinDN)
	}
	return denoised, nil
}

// swathGeometry bundles the orbit/antenna-pattern interpolators shared by
// the shift-correction, total-gain and scalloping stages for one swath.
type swathGeometry struct {
	points    []GeolocationPoint
	orbit     *OrbitInterpolator
	boresight *BoresightAngleInterpolator
	slantTime *spline.Bilinear2D
	eap       *EAPInterpolator
}

func (p *Product) swathGeometry(swath Swath) (*swathGeometry, error) {
	points, err := p.Annotation.GeolocationGrid(swath.Name)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading geolocation grid for "+swath.Name, err)
	}

	times, pos, vel, err := p.Annotation.Orbit()
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading orbit state vectors for "+swath.Name, err)
	}
	orbit := NewOrbitInterpolator(times, pos, vel)
	boresight := NewBoresightAngleInterpolator(points, orbit)
	slantTime := SlantRangeTimeInterpolator(points)

	var validityStart time.Time
	if p.Manifest != nil {
		validityStart, _ = p.Manifest.ValidityStart()
	}
	var eap *EAPInterpolator
	if p.AuxCal != nil {
		aux, err := p.AuxCal.Resolve(validityStart, p.ID.Mission, swath.Name, p.Polarization)
		if err != nil {
			return nil, wrap(MissingAux, "resolving AUX_CAL for "+swath.Name, err)
		}
		eap = NewEAPInterpolator(aux.Gain, aux.AngleIncrement, aux.Complex)
	}

	return &swathGeometry{points: points, orbit: orbit, boresight: boresight, slantTime: slantTime, eap: eap}, nil
}

// antennaPatternGain computes APG = 1 / (EAP(boresight) * RSL)^2 at pixel
// on line, relative to the swath's mid-range pixel, per spec.md §4.2.
func (g *swathGeometry) antennaPatternGain(pixel, line float64, refPixel float64) float64 {
	boresight := g.boresight.At(pixel, line)
	slantTime := g.slantTime.Eval(pixel, line)
	refSlantTime := g.slantTime.Eval(refPixel, line)
	rsl := RangeSpreadingLoss(slantTime, refSlantTime)
	gain := 1.0
	if g.eap != nil {
		gain = g.eap.GainAt(boresight)
	}
	denom := gain * rsl
	if denom == 0 {
		return math.NaN()
	}
	return 1 / (denom * denom)
}

// correctedRangeVectors applies the NERSC shift-correction: for each
// vector it searches for the pixel shift of the published noise LUT that
// best matches the independently reconstructed antenna-pattern-gain
// profile and resamples the LUT accordingly, per spec.md §4.4.1. A
// degenerate (flat, or too short for the border skip) vector is passed
// through unshifted and recorded as a warning, per SPEC_FULL.md §9.
func (p *Product) correctedRangeVectors(swath Swath, vecs []NoiseVector, geometry *swathGeometry) ([]NoiseVector, error) {
	out := make([]NoiseVector, len(vecs))
	for i, v := range vecs {
		pixels := intAxisToFloat(v.Pixels)
		if len(pixels) == 0 {
			out[i] = v
			continue
		}
		refPixel := pixels[len(pixels)/2]
		apg := make([]float64, len(pixels))
		for k, px := range pixels {
			apg[k] = geometry.antennaPatternGain(px, float64(v.Line), refPixel)
		}

		result := FindNoiseLUTShift(pixels, v.RangeLUT, apg)
		if !result.Defined {
			p.warn(NumericDegenerate, "flat or too-short noise LUT for "+swath.Name+", shift undefined")
			out[i] = v
			continue
		}
		shifted := ApplyShift(pixels, v.RangeLUT, result.Shift, pixels)
		out[i] = NoiseVector{
			AzimuthTime: v.AzimuthTime, Line: v.Line, Pixels: v.Pixels,
			RangeLUT: shifted, AzimuthLUT: v.AzimuthLUT,
			FirstLine: v.FirstLine, LastLine: v.LastLine, FirstPixel: v.FirstPixel, LastPixel: v.LastPixel,
		}
	}
	return out, nil
}

// totalGainVectors reconstructs each vector's NESZ directly from the
// antenna-gain model, per spec.md §4.6's NERSC_TG algorithm: the published
// RangeLUT is treated as the calibration-referenced noise power
// measurement TotalGainNoise divides by gain^2 * RSL.
func totalGainVectors(vecs []NoiseVector, geometry *swathGeometry) []NoiseVector {
	out := make([]NoiseVector, len(vecs))
	for i, v := range vecs {
		pixels := intAxisToFloat(v.Pixels)
		gainDB := make([]float64, len(pixels))
		rsl := make([]float64, len(pixels))
		if len(pixels) > 0 {
			refPixel := pixels[len(pixels)/2]
			for k, px := range pixels {
				boresight := geometry.boresight.At(px, float64(v.Line))
				gain := 1.0
				if geometry.eap != nil {
					gain = geometry.eap.GainAt(boresight)
				}
				gainDB[k] = 10 * math.Log10(math.Max(gain, 1e-12))
				slantTime := geometry.slantTime.Eval(px, float64(v.Line))
				refSlantTime := geometry.slantTime.Eval(refPixel, float64(v.Line))
				rsl[k] = RangeSpreadingLoss(slantTime, refSlantTime)
			}
		}
		out[i] = NoiseVector{
			AzimuthTime: v.AzimuthTime, Line: v.Line, Pixels: v.Pixels,
			RangeLUT: TotalGainNoise(v.RangeLUT, gainDB, rsl), AzimuthLUT: v.AzimuthLUT,
			FirstLine: v.FirstLine, LastLine: v.LastLine, FirstPixel: v.FirstPixel, LastPixel: v.LastPixel,
		}
	}
	return out
}

// scallopingModel builds the per-swath ScallopingModel from the azimuth
// FM-rate polynomial, the azimuth steering rate annotation and the
// orbit-derived platform velocity at reference, the burst-level azimuth
// antenna pattern table, and the swath's nominal (no-steering) boresight
// angle at its mid-range pixel, per spec.md §4.3.
func (p *Product) scallopingModel(swath Swath, reference NoiseVector, geometry *swathGeometry) (*ScallopingModel, error) {
	lineInterval, err := p.Annotation.AzimuthTimeInterval(swath.Name)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading azimuth time interval for "+swath.Name, err)
	}
	steeringRate, err := p.Annotation.AzimuthSteeringRate(swath.Name)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading azimuth steering rate for "+swath.Name, err)
	}

	times, _, c0, _, _, err := p.Annotation.AzimuthFmRate(swath.Name)
	if err != nil {
		return nil, wrap(MalformedMetadata, "reading azimuth FM rate for "+swath.Name, err)
	}
	motionDopplerRate := 0.0
	if len(times) > 0 {
		motionDopplerRate = c0[nearestTimeIndex(times, reference.AzimuthTime)]
	}

	velocity := vecNorm(geometry.orbit.Velocity(reference.AzimuthTime))
	midPixel := float64(swath.FirstSample + swath.NumberOfSamples/2)
	baseBoresight := geometry.boresight.At(midPixel, float64(reference.Line))

	geo := BurstGeometry{
		Velocity:              velocity,
		SteeringRateDegPerSec: steeringRate,
		MotionDopplerRate:     motionDopplerRate,
		LineTimeInterval:      lineInterval,
		Mode:                  AcquisitionMode(p.ID.Mode),
	}
	return NewScallopingModel(swath.NumberOfLines, geo, geometry.eap, baseBoresight)
}

func nearestTimeIndex(times []time.Time, target time.Time) int {
	best, bestDist := 0, time.Duration(math.MaxInt64)
	for i, t := range times {
		dist := t.Sub(target)
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// scaleOffsetFor looks up the published denoising coefficients for a
// swath/polarization; a missing source or entry is non-fatal (spec.md §7):
// it warns and falls back to DefaultScaleOffset. The S1B IPF 2.72-2.8
// coefficient-table substitution (Scenario D) is resolved inside the
// coefficient source itself (coeffs.File is constructed bound to the
// product's IPF version), since CoefficientSource.Lookup carries no IPF
// argument of its own.
func (p *Product) scaleOffsetFor(swath Swath) ScaleOffset {
	if p.Coefficients == nil {
		p.warn(MissingCoefficients, "no coefficient source bound for "+swath.Name+", using ns=1, pb=0")
		return DefaultScaleOffset
	}
	ns, pb, ok := p.Coefficients.Lookup(p.ID.Mission, p.ID.Mode, swath.Name, string(p.Polarization))
	if !ok {
		p.warn(MissingCoefficients, "no denoising coefficients for "+swath.Name+", using ns=1, pb=0")
		return DefaultScaleOffset
	}
	return ScaleOffset{NoiseScaling: ns, PowerBalancing: pb}
}

func clipNegative(r *Raster, min float64) {
	for i := range r.Values {
		for j := range r.Values[i] {
			if float64(r.Values[i][j]) < min && !math.IsNaN(float64(r.Values[i][j])) {
				r.Values[i][j] = float32(min)
			}
		}
	}
}
