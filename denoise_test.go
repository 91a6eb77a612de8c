package gosardenoise

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeProduct wires every provider interface with small synthetic data for
// one EW1 swath, so RemoveThermalNoise can be exercised end to end without
// a real SAFE product on disk.
type fakeAnnotation struct {
	swath       Swath
	points      []GeolocationPoint
	orbitTimes  []time.Time
	orbitPos    [][3]float64
	orbitVel    [][3]float64
	steeringDeg float64
	lineTime    time.Duration
	fmRateTime  time.Time
	fmRateC0    float64
}

func (f *fakeAnnotation) Swaths() ([]Swath, error) { return []Swath{f.swath}, nil }
func (f *fakeAnnotation) GeolocationGrid(string) ([]GeolocationPoint, error) {
	return f.points, nil
}
func (f *fakeAnnotation) AntennaPattern(string) ([]AntennaPatternSample, error) { return nil, nil }
func (f *fakeAnnotation) AzimuthFmRate(string) ([]time.Time, []float64, []float64, []float64, []float64, error) {
	return []time.Time{f.fmRateTime}, []float64{0}, []float64{f.fmRateC0}, []float64{0}, []float64{0}, nil
}
func (f *fakeAnnotation) Orbit() ([]time.Time, [][3]float64, [][3]float64, error) {
	return f.orbitTimes, f.orbitPos, f.orbitVel, nil
}
func (f *fakeAnnotation) NumberOfSamples(string) (int, error) { return f.swath.NumberOfSamples, nil }
func (f *fakeAnnotation) AzimuthSteeringRate(string) (float64, error) {
	return f.steeringDeg, nil
}
func (f *fakeAnnotation) AzimuthTimeInterval(string) (time.Duration, error) {
	return f.lineTime, nil
}

type fakeCalibration struct {
	lines, pixels []int
	values        [][]float64
}

func (f *fakeCalibration) SigmaNought(string) ([]int, []int, [][]float64, error) {
	return f.lines, f.pixels, f.values, nil
}

type fakeNoise struct {
	vecs []NoiseVector
}

func (f *fakeNoise) RangeVectors(string) ([]NoiseVector, error)   { return f.vecs, nil }
func (f *fakeNoise) AzimuthVectors(string) ([]NoiseVector, error) { return nil, nil }

type fakeManifest struct {
	ipf           float64
	validityStart time.Time
}

func (f *fakeManifest) IPFVersion() (float64, error)              { return f.ipf, nil }
func (f *fakeManifest) InstrumentConfigurationID() (int, error)   { return 7, nil }
func (f *fakeManifest) ValidityStart() (time.Time, error)         { return f.validityStart, nil }

type fakeAuxCal struct {
	gain           []float64
	angleIncrement float64
	complex        bool
}

func (f *fakeAuxCal) Resolve(time.Time, string, string, Polarization) (AuxCalibration, error) {
	return AuxCalibration{Gain: f.gain, AngleIncrement: f.angleIncrement, Complex: f.complex}, nil
}

type fakeDN struct {
	rows [][]uint16
}

func (f *fakeDN) ReadBlock(_ string, firstLine, lastLine, firstSample, lastSample int) ([][]uint16, error) {
	numLines := lastLine - firstLine + 1
	numSamples := lastSample - firstSample + 1
	out := make([][]uint16, numLines)
	for i := range out {
		row := make([]uint16, numSamples)
		copy(row, f.rows[firstLine+i][firstSample:firstSample+numSamples])
		out[i] = row
	}
	return out, nil
}

type fakeCoefficients struct {
	ns, pb float64
	ok     bool
}

func (f *fakeCoefficients) Lookup(string, string, string, string) (float64, float64, bool) {
	return f.ns, f.pb, f.ok
}

// ewBurstLines is the nominal EW focused burst length, chosen as the test
// swath's total line count so NewScallopingModel's largest-divisor search
// succeeds trivially (the swath's own length divides itself).
const ewBurstLines = 1100
const testSamples = 12

func newFakeProduct(t *testing.T) *Product {
	t.Helper()
	swath := Swath{
		Name: "EW1", FirstLine: 0, LastLine: ewBurstLines - 1,
		FirstSample: 0, LastSample: testSamples - 1,
		NumberOfLines: ewBurstLines, NumberOfSamples: testSamples,
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	points := make([]GeolocationPoint, 0, 4)
	for _, line := range []int{0, ewBurstLines - 1} {
		for _, pixel := range []int{0, testSamples - 1} {
			points = append(points, GeolocationPoint{
				Line: line, Pixel: pixel,
				Latitude: 60, Longitude: 10, Height: 0,
				IncidenceAngle: 30, ElevationAngle: 28,
				AzimuthTime:    base.Add(time.Duration(line) * 2 * time.Millisecond),
				SlantRangeTime: 5.3e-3 + float64(pixel)*1e-7,
			})
		}
	}

	orbitTimes := make([]time.Time, 6)
	orbitPos := make([][3]float64, 6)
	orbitVel := make([][3]float64, 6)
	for i := range orbitTimes {
		orbitTimes[i] = base.Add(time.Duration(i-2) * time.Second)
		orbitPos[i] = [3]float64{7.0e6, 0, 0}
		orbitVel[i] = [3]float64{0, 7000, 0}
	}

	pixels := make([]int, testSamples)
	rangeLUT := make([]float64, testSamples)
	for i := range pixels {
		pixels[i] = i
		rangeLUT[i] = 1.0 + 0.05*float64(i)
	}
	vecs := []NoiseVector{
		{AzimuthTime: base, Line: 0, Pixels: pixels, RangeLUT: append([]float64(nil), rangeLUT...)},
		{AzimuthTime: base.Add(time.Duration(ewBurstLines-1) * 2 * time.Millisecond), Line: ewBurstLines - 1, Pixels: pixels, RangeLUT: append([]float64(nil), rangeLUT...)},
	}

	calValues := [][]float64{make([]float64, testSamples), make([]float64, testSamples)}
	for i := range calValues[0] {
		calValues[0][i] = 2.0
		calValues[1][i] = 2.0
	}

	dnRows := make([][]uint16, ewBurstLines)
	for i := range dnRows {
		row := make([]uint16, testSamples)
		for j := range row {
			row[j] = 100
		}
		dnRows[i] = row
	}

	aaep := make([]float64, 21)
	for i := range aaep {
		aaep[i] = 1.0 // flat dB pattern
	}

	p := NewProduct(ProductID{Mission: "S1A", Mode: "EW"}, nil)
	p.Polarization = PolarizationVV
	p.Annotation = &fakeAnnotation{
		swath: swath, points: points,
		orbitTimes: orbitTimes, orbitPos: orbitPos, orbitVel: orbitVel,
		steeringDeg: 1.2, lineTime: 2 * time.Millisecond,
		fmRateTime: base, fmRateC0: 500,
	}
	p.Calibration = &fakeCalibration{lines: []int{0, ewBurstLines - 1}, pixels: pixels, values: calValues}
	p.Noise = &fakeNoise{vecs: vecs}
	p.Manifest = &fakeManifest{ipf: 3.10, validityStart: base}
	p.AuxCal = &fakeAuxCal{gain: aaep, angleIncrement: 0.5, complex: false}
	p.DN = &fakeDN{rows: dnRows}
	p.Coefficients = &fakeCoefficients{ns: 1, pb: 0, ok: true}
	p.IPFVersion = 3.10
	return p
}

func TestRemoveThermalNoiseProducesFiniteSigma0WithinSwathBounds(t *testing.T) {
	p := newFakeProduct(t)
	opts := DefaultDenoiseOptions()
	opts.Parallel = false

	rasters, _, err := p.RemoveThermalNoise(opts)
	require.NoError(t, err)
	require.Contains(t, rasters, "EW1")

	r := rasters["EW1"]
	for i := 0; i < ewBurstLines; i++ {
		for j := 0; j < testSamples; j++ {
			v := r.At(i, j)
			assert.False(t, math.IsNaN(float64(v)), "unexpected NaN at (%d,%d)", i, j)
		}
	}
	assert.True(t, math.IsNaN(float64(r.At(-1, 0))))
}

func TestEffectiveAlgorithmForcesTotalGainBelowMinimumIPF(t *testing.T) {
	p := newFakeProduct(t)
	p.IPFVersion = 2.3
	assert.Equal(t, "NERSC_TG", p.effectiveAlgorithm("NERSC"))
	assert.Equal(t, "NERSC_TG", p.effectiveAlgorithm("ESA"))
}

func TestEffectiveAlgorithmHonorsRequestAboveMinimumIPF(t *testing.T) {
	p := newFakeProduct(t)
	p.IPFVersion = 3.10
	assert.Equal(t, "ESA", p.effectiveAlgorithm("ESA"))
	assert.Equal(t, "NERSC", p.effectiveAlgorithm(""))
}

func TestDenoiseSwathRunsUnderNERSCTG(t *testing.T) {
	p := newFakeProduct(t)
	opts := DefaultDenoiseOptions()
	opts.Parallel = false
	opts.Algorithm = "NERSC_TG"

	rasters, _, err := p.RemoveThermalNoise(opts)
	require.NoError(t, err)
	r := rasters["EW1"]
	assert.False(t, math.IsNaN(float64(r.At(0, 0))))
}

func TestScaleOffsetForFallsBackWhenCoefficientsMissing(t *testing.T) {
	p := newFakeProduct(t)
	p.Coefficients = nil
	so := p.scaleOffsetFor(Swath{Name: "EW1"})
	assert.Equal(t, DefaultScaleOffset, so)
	require.NotEmpty(t, p.Warnings)
	assert.Equal(t, MissingCoefficients, p.Warnings[len(p.Warnings)-1].Kind)
}

func TestScaleOffsetForUsesLookupWhenAvailable(t *testing.T) {
	p := newFakeProduct(t)
	p.Coefficients = &fakeCoefficients{ns: 1.3, pb: 0.02, ok: true}
	so := p.scaleOffsetFor(Swath{Name: "EW1"})
	assert.InDelta(t, 1.3, so.NoiseScaling, 1e-9)
	assert.InDelta(t, 0.02, so.PowerBalancing, 1e-9)
}
