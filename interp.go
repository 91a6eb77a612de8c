package gosardenoise

import (
	"math"
	"sort"
	"time"

	"github.com/nansencenter/gosardenoise/internal/spline"
)

// orbitState is one position/velocity sample of the product's state
// vectors, in ECEF metres and m/s.
type orbitState struct {
	t          time.Time
	pos, vel   [3]float64
}

// OrbitInterpolator reproduces the 4-nearest-sample cubic Hermite
// interpolation original_source performs over the state vectors (there is
// no off-the-shelf orbit propagator in the retrieval pack, so this is a
// direct port of the numerical method rather than a new invention).
type OrbitInterpolator struct {
	states []orbitState
}

// NewOrbitInterpolator builds an interpolator from parallel orbit arrays.
func NewOrbitInterpolator(times []time.Time, position, velocity [][3]float64) *OrbitInterpolator {
	states := make([]orbitState, len(times))
	for i := range times {
		states[i] = orbitState{t: times[i], pos: position[i], vel: velocity[i]}
	}
	sort.Slice(states, func(i, j int) bool { return states[i].t.Before(states[j].t) })
	return &OrbitInterpolator{states: states}
}

// nearest4 returns the indices of the four state vectors bracketing t as
// closely as possible, clamped at the ends of the series.
func (o *OrbitInterpolator) nearest4(t time.Time) [4]int {
	n := len(o.states)
	i := sort.Search(n, func(i int) bool { return o.states[i].t.After(t) })
	lo := i - 2
	if lo < 0 {
		lo = 0
	}
	if lo > n-4 {
		lo = n - 4
	}
	if lo < 0 {
		lo = 0
	}
	var idx [4]int
	for k := 0; k < 4; k++ {
		j := lo + k
		if j >= n {
			j = n - 1
		}
		idx[k] = j
	}
	return idx
}

// hermite evaluates the cubic Hermite polynomial through (x0,y0,m0) and
// (x1,y1,m1) at x.
func hermite(x, x0, x1, y0, y1, m0, m1 float64) float64 {
	h := x1 - x0
	if h == 0 {
		return y0
	}
	s := (x - x0) / h
	h00 := 2*s*s*s - 3*s*s + 1
	h10 := s*s*s - 2*s*s + s
	h01 := -2*s*s*s + 3*s*s
	h11 := s*s*s - s*s
	return h00*y0 + h10*h*m0 + h01*y1 + h11*h*m1
}

// Position returns the interpolated ECEF position at azimuth time t,
// using velocity at the bracketing samples as the Hermite tangent, the
// same source of tangent original_source takes (state vector velocity
// rather than a numerically estimated derivative).
func (o *OrbitInterpolator) Position(t time.Time) [3]float64 {
	idx := o.nearest4(t)
	i0, i1 := idx[1], idx[2]
	if i0 == i1 {
		return o.states[i0].pos
	}
	x0 := o.states[i0].t.Sub(o.states[0].t).Seconds()
	x1 := o.states[i1].t.Sub(o.states[0].t).Seconds()
	x := t.Sub(o.states[0].t).Seconds()
	var out [3]float64
	for k := 0; k < 3; k++ {
		out[k] = hermite(x, x0, x1, o.states[i0].pos[k], o.states[i1].pos[k], o.states[i0].vel[k], o.states[i1].vel[k])
	}
	return out
}

// Velocity returns the interpolated ECEF velocity at azimuth time t by
// central differencing the position interpolant.
func (o *OrbitInterpolator) Velocity(t time.Time) [3]float64 {
	const dt = 0.1 // seconds
	p0 := o.Position(t.Add(-time.Duration(dt * float64(time.Second))))
	p1 := o.Position(t.Add(time.Duration(dt * float64(time.Second))))
	var out [3]float64
	for k := 0; k < 3; k++ {
		out[k] = (p1[k] - p0[k]) / (2 * dt)
	}
	return out
}

func vecNorm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func vecSub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Roll returns the platform roll angle (degrees) at azimuth time t and
// target latitude latDeg, per spec.md §4.2's empirical altitude-dependent
// roll bias: roll = 29.45 - 0.0566*(altitude_km - 711.7), fit by
// original_source against the nominal Sentinel-1 repeat orbit.
func (o *OrbitInterpolator) Roll(t time.Time, latDeg float64) float64 {
	pos := o.Position(t)
	altitudeKm := (vecNorm(pos) - wgs84.localRadius(latDeg)) / 1000
	return 29.45 - 0.0566*(altitudeKm-711.7)
}

// geolocationGridFull assembles the sparse (line, pixel) -> (lat, lon, h,
// incidence, elevation, slant-range-time) grid of a swath into axes and
// value matrices usable by a bivariate spline, mirroring original_source's
// reshaping of annotation/geolocationGrid into a regular lines x pixels
// array (the ESA grid is always rectangular even though it is stored as a
// flat point list), per spec.md §4.2.
func geolocationGridFull(points []GeolocationPoint) (incidence, lat, lon, elevation, slantRangeTime [][]float64, lines, pixels []float64) {
	lineSet := map[int]bool{}
	pixelSet := map[int]bool{}
	for _, p := range points {
		lineSet[p.Line] = true
		pixelSet[p.Pixel] = true
	}
	lines = sortedKeys(lineSet)
	pixels = sortedKeys(pixelSet)

	lineIdx := indexOf(lines)
	pixIdx := indexOf(pixels)

	incidence = make([][]float64, len(lines))
	lat = make([][]float64, len(lines))
	lon = make([][]float64, len(lines))
	elevation = make([][]float64, len(lines))
	slantRangeTime = make([][]float64, len(lines))
	for i := range incidence {
		incidence[i] = make([]float64, len(pixels))
		lat[i] = make([]float64, len(pixels))
		lon[i] = make([]float64, len(pixels))
		elevation[i] = make([]float64, len(pixels))
		slantRangeTime[i] = make([]float64, len(pixels))
	}
	for _, p := range points {
		i := lineIdx[p.Line]
		j := pixIdx[p.Pixel]
		incidence[i][j] = p.IncidenceAngle
		lat[i][j] = p.Latitude
		lon[i][j] = p.Longitude
		elevation[i][j] = p.ElevationAngle
		slantRangeTime[i][j] = p.SlantRangeTime
	}
	return
}

func sortedKeys(set map[int]bool) []float64 {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = float64(k)
	}
	return out
}

func indexOf(axis []float64) map[int]int {
	m := make(map[int]int, len(axis))
	for i, v := range axis {
		m[int(v)] = i
	}
	return m
}

// SlantRangeTimeInterpolator builds a bilinear spline over a swath's
// geolocation grid slant-range times, the axis RangeSpreadingLoss needs.
func SlantRangeTimeInterpolator(points []GeolocationPoint) *spline.Bilinear2D {
	pixels, lines, _, _, _, _, slantRangeTime := geolocationGridAxes(points)
	return spline.NewBilinear2D(pixels, lines, slantRangeTime)
}

// geolocationGridAxes is geolocationGridFull with (pixels, lines) axis
// order, matching spline.Bilinear2D's (x=columns, y=rows) convention.
func geolocationGridAxes(points []GeolocationPoint) (pixels, lines []float64, incidence, lat, lon, elevation, slantRangeTime [][]float64) {
	inc, la, lo, el, srt, l, p := geolocationGridFull(points)
	return p, l, inc, la, lo, el, srt
}

// BoresightAngleInterpolator reconstructs the antenna boresight angle
// (elevation angle minus platform roll) at any (pixel, line) of a swath,
// the argument the EAP table expects, per spec.md §4.2.
type BoresightAngleInterpolator struct {
	elevation *spline.Bilinear2D
	lat       *spline.Bilinear2D
	lines     []float64   // grid line numbers, ascending
	times     []time.Time // one per entry of lines
	orbit     *OrbitInterpolator
}

// NewBoresightAngleInterpolator builds a boresight-angle reconstruction
// from a swath's geolocation grid and orbit state vectors.
func NewBoresightAngleInterpolator(points []GeolocationPoint, orbit *OrbitInterpolator) *BoresightAngleInterpolator {
	pixels, lines, _, lat, _, elevation, _ := geolocationGridAxes(points)
	return &BoresightAngleInterpolator{
		elevation: spline.NewBilinear2D(pixels, lines, elevation),
		lat:       spline.NewBilinear2D(pixels, lines, lat),
		lines:     lines,
		times:     lineAzimuthTimes(points, lines),
		orbit:     orbit,
	}
}

// lineAzimuthTimes returns, for each entry of lines, the azimuth time of
// the first grid point found at that line.
func lineAzimuthTimes(points []GeolocationPoint, lines []float64) []time.Time {
	byLine := map[int]time.Time{}
	for _, p := range points {
		if _, ok := byLine[p.Line]; !ok {
			byLine[p.Line] = p.AzimuthTime
		}
	}
	out := make([]time.Time, len(lines))
	for i, l := range lines {
		out[i] = byLine[int(l)]
	}
	return out
}

// nearestLineIndex returns the index into b.lines/b.times closest to the
// queried absolute line number, used to pick an azimuth time to drive orbit
// interpolation for a pixel/line query that does not land exactly on a
// geolocation grid line.
func (b *BoresightAngleInterpolator) nearestLineIndex(line float64) int {
	best, bestDist := 0, math.MaxFloat64
	for i, l := range b.lines {
		dist := math.Abs(l - line)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// At returns the boresight angle (degrees) at (pixel, line), per spec.md
// §4.2: boresight = elevationAngle - roll.
func (b *BoresightAngleInterpolator) At(pixel, line float64) float64 {
	elevation := b.elevation.Eval(pixel, line)
	lat := b.lat.Eval(pixel, line)
	idx := b.nearestLineIndex(line)
	if len(b.times) == 0 {
		return elevation
	}
	roll := b.orbit.Roll(b.times[idx], lat)
	return elevation - roll
}

// RangeSpreadingLoss returns the two-way range-spreading-loss factor at
// slant range time rangeTime relative to refRangeTime, per spec.md §4.2:
// RSL = (refRangeTime / rangeTime)^4, the radar-equation range dependence
// of received noise power.
func RangeSpreadingLoss(rangeTime, refRangeTime float64) float64 {
	if rangeTime == 0 {
		return math.NaN()
	}
	ratio := refRangeTime / rangeTime
	return ratio * ratio * ratio * ratio
}

// EAPInterpolator reconstructs the two-way elevation antenna pattern gain
// (linear, not dB) at an arbitrary angle off boresight, built from an
// AUX_CAL sample table that is either plain decibel magnitudes or
// interleaved real/imaginary amplitude pairs, per spec.md §4.2. Splining is
// done on sqrt(amplitude) rather than amplitude itself, and GainAt squares
// the splined value back to amplitude; interpolating in amplitude space
// introduces visible ripple right where the pattern is steepest, at the
// pattern edges.
type EAPInterpolator struct {
	spline *spline.Cubic1D
}

// NewEAPInterpolator builds an EAPInterpolator from an AUX_CAL elevation
// antenna pattern table: samples values at a fixed angleIncrement step
// centred on boresight, values either dB magnitudes (complexValued false)
// or interleaved re/im pairs (complexValued true).
func NewEAPInterpolator(samples []float64, angleIncrement float64, complexValued bool) *EAPInterpolator {
	var amplitude, angle []float64
	if complexValued {
		n := len(samples) / 2
		amplitude = make([]float64, n)
		angle = make([]float64, n)
		for i := 0; i < n; i++ {
			re, im := samples[2*i], samples[2*i+1]
			amplitude[i] = math.Sqrt(re*re + im*im)
			angle[i] = (float64(i) - float64(n)/2) * angleIncrement
		}
	} else {
		n := len(samples)
		amplitude = make([]float64, n)
		angle = make([]float64, n)
		for i, db := range samples {
			amplitude[i] = math.Pow(10, db/10)
			angle[i] = (float64(i) - float64(n)/2) * angleIncrement
		}
	}
	sqrtAmp := make([]float64, len(amplitude))
	for i, a := range amplitude {
		sqrtAmp[i] = math.Sqrt(math.Max(a, 0))
	}
	return &EAPInterpolator{spline: spline.NewCubic1D(angle, sqrtAmp)}
}

// GainAt returns the linear (not dB) two-way antenna gain at angleDeg off
// boresight.
func (e *EAPInterpolator) GainAt(angleDeg float64) float64 {
	sqrtAmp := e.spline.Eval(angleDeg)
	return sqrtAmp * sqrtAmp
}
