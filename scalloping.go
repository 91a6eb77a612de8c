package gosardenoise

import (
	"errors"
	"math"
	"time"
)

// sentinel1Wavelength is the Sentinel-1 C-band carrier wavelength, metres,
// derived from its 5.405 GHz centre frequency.
const sentinel1Wavelength = 0.055465763

// nominalBurstLength returns the nominal focused burst length (lines) for
// an acquisition mode, per spec.md §4.3: 1450 for IW, 1100 for EW.
func nominalBurstLength(mode AcquisitionMode) int {
	if mode == ModeEW {
		return 1100
	}
	return 1450
}

// focusedBurstLength finds the focused burst length in lines via the
// largest-divisor rule: the largest divisor of totalLines lying in
// (nominal/2, nominal], per spec.md §4.3. A swath whose line count has no
// such divisor cannot be burst-synchronised and is a NumericDegenerate
// condition (Scenario E).
func focusedBurstLength(totalLines, nominal int) (int, error) {
	if totalLines <= 0 || nominal <= 0 {
		return 0, errors.New("invalid burst length inputs")
	}
	for d := nominal; d > nominal/2; d-- {
		if totalLines%d == 0 {
			return d, nil
		}
	}
	return 0, errors.New("no divisor of the line count near the nominal burst length")
}

// BurstGeometry carries the orbit/antenna-steering inputs the scalloping
// reconstruction needs for one subswath, per spec.md §4.3.
type BurstGeometry struct {
	Velocity              float64       // platform along-track velocity, m/s
	SteeringRateDegPerSec float64       // azimuthSteeringRate annotation field
	MotionDopplerRate     float64       // k_a, Hz/s, from the azimuth FM-rate polynomial
	LineTimeInterval      time.Duration // imageAnnotation azimuthTimeInterval
	Mode                  AcquisitionMode
}

// ScallopingModel reconstructs the antenna-pattern-driven gain ripple along
// azimuth that produces the characteristic "scalloping" brightness banding
// in TOPSAR (IW/EW) GRD products, per spec.md §4.3: within each focused
// burst the antenna beam is steered electronically in elevation, so the
// two-way gain seen by a given line depends on where in the burst the line
// falls.
type ScallopingModel struct {
	burstLength     int
	lineInterval    time.Duration
	steeringRateRad float64
	combinedRate    float64 // k_t = k_a*k_s/(k_a-k_s)
	aaep            *EAPInterpolator
	baseBoresight   float64
}

// NewScallopingModel builds a ScallopingModel for a swath of totalLines
// lines. aaep is the azimuth antenna elevation pattern table (an
// EAPInterpolator built from the product's AUX_CAL record) and
// baseBoresight is the swath's nominal boresight angle (degrees) absent any
// steering ramp, e.g. the boresight angle at the swath's mid-range pixel.
func NewScallopingModel(totalLines int, geo BurstGeometry, aaep *EAPInterpolator, baseBoresight float64) (*ScallopingModel, error) {
	burstLen, err := focusedBurstLength(totalLines, nominalBurstLength(geo.Mode))
	if err != nil {
		return nil, wrap(NumericDegenerate, "no focused burst length divides the swath's line count", err)
	}
	steeringRateRad := geo.SteeringRateDegPerSec * math.Pi / 180
	ks := 2 * geo.Velocity / sentinel1Wavelength * steeringRateRad
	ka := geo.MotionDopplerRate
	var kt float64
	if ka != ks {
		kt = ka * ks / (ka - ks)
	}
	return &ScallopingModel{
		burstLength:     burstLen,
		lineInterval:    geo.LineTimeInterval,
		steeringRateRad: steeringRateRad,
		combinedRate:    kt,
		aaep:            aaep,
		baseBoresight:   baseBoresight,
	}, nil
}

// BurstLength returns the focused burst length in lines, the periodicity
// Testable Property 7 checks the reconstructed gain against.
func (s *ScallopingModel) BurstLength() int {
	return s.burstLength
}

// CombinedDopplerRate returns k_t, the combined motion/steering Doppler
// rate used to locate the burst's Doppler-centroid crossing.
func (s *ScallopingModel) CombinedDopplerRate() float64 {
	return s.combinedRate
}

// GainAtLine reconstructs the two-way antenna gain (dB) seen at azimuth
// line index li (0-based, relative to the swath's first line), by ramping
// the steering angle linearly across the burst the line falls in and
// looking up the resulting off-boresight angle in the AAEP table.
func (s *ScallopingModel) GainAtLine(li int) float64 {
	if s.aaep == nil || s.burstLength == 0 {
		return 0
	}
	lineInBurst := li % s.burstLength
	tMid := float64(s.burstLength) / 2 * s.lineInterval.Seconds()
	t := float64(lineInBurst) * s.lineInterval.Seconds()
	steeringDeg := s.steeringRateRad * (t - tMid) * 180 / math.Pi
	gain := s.aaep.GainAt(s.baseBoresight - steeringDeg)
	if gain <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(gain)
}

// GainAtLines returns the reconstructed gain (dB) for every line of a
// swath numLines long, for assembling a full-resolution azimuth gain
// column.
func (s *ScallopingModel) GainAtLines(numLines int) []float64 {
	out := make([]float64, numLines)
	for i := range out {
		out[i] = s.GainAtLine(i)
	}
	return out
}
