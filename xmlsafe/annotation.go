package xmlsafe

import (
	"encoding/xml"
	"os"
	"time"

	"github.com/nansencenter/gosardenoise"
)

const annotationTimeLayout = "2006-01-02T15:04:05.999999"

func parseAnnotationTime(s string) (time.Time, error) {
	return time.Parse(annotationTimeLayout, s)
}

// annotationXML mirrors the subset of ESA's product annotation schema the
// pipeline reads: geolocation grid, antenna pattern, azimuth FM rate and
// orbit state vectors, encoding/xml tags following the ESA element names
// directly (no translation layer), the way the teacher's decode package
// names struct fields after the GSF spec's own field names.
type annotationXML struct {
	XMLName xml.Name `xml:"product"`

	ImageAnnotation struct {
		ImageInformation struct {
			NumberOfSamples     int     `xml:"numberOfSamples"`
			NumberOfLines       int     `xml:"numberOfLines"`
			AzimuthTimeInterval float64 `xml:"azimuthTimeInterval"`
		} `xml:"imageInformation"`
	} `xml:"imageAnnotation"`

	GeolocationGrid struct {
		GeolocationGridPointList struct {
			Points []struct {
				Line           int     `xml:"line"`
				Pixel          int     `xml:"pixel"`
				Latitude       float64 `xml:"latitude"`
				Longitude      float64 `xml:"longitude"`
				Height         float64 `xml:"height"`
				IncidenceAngle float64 `xml:"incidenceAngle"`
				ElevationAngle float64 `xml:"elevationAngle"`
				AzimuthTime    string  `xml:"azimuthTime"`
				SlantRangeTime float64 `xml:"slantRangeTime"`
			} `xml:"geolocationGridPoint"`
		} `xml:"geolocationGridPointList"`
	} `xml:"geolocationGrid"`

	AntennaPattern struct {
		AntennaPatternList struct {
			Patterns []struct {
				AzimuthTime string    `xml:"azimuthTime"`
				Angle       []float64 `xml:"elevationAngle"`
				Gain        []float64 `xml:"elevationAntennaPattern"`
			} `xml:"antennaPattern"`
		} `xml:"antennaPatternList"`
	} `xml:"antennaPattern"`

	GeneralAnnotation struct {
		ProductInformation struct {
			AzimuthSteeringRate float64 `xml:"azimuthSteeringRate"`
		} `xml:"productInformation"`

		AzimuthFmRateList struct {
			Rates []struct {
				AzimuthTime string  `xml:"azimuthTime"`
				T0          float64 `xml:"t0"`
				C0          float64 `xml:"azimuthFmRatePolynomial0"`
				C1          float64 `xml:"azimuthFmRatePolynomial1"`
				C2          float64 `xml:"azimuthFmRatePolynomial2"`
			} `xml:"azimuthFmRate"`
		} `xml:"azimuthFmRateList"`

		OrbitList struct {
			Orbits []struct {
				Time     string  `xml:"time"`
				PosX     float64 `xml:"position>x"`
				PosY     float64 `xml:"position>y"`
				PosZ     float64 `xml:"position>z"`
				VelX     float64 `xml:"velocity>x"`
				VelY     float64 `xml:"velocity>y"`
				VelZ     float64 `xml:"velocity>z"`
			} `xml:"orbit"`
		} `xml:"orbitList"`
	} `xml:"generalAnnotation"`
}

// AnnotationFile is a gosardenoise.AnnotationSource backed by a single
// parsed ESA annotation XML document for one swath.
type AnnotationFile struct {
	swathName string
	doc       annotationXML
}

// LoadAnnotation parses an annotation XML file from path for swathName.
func LoadAnnotation(path, swathName string) (*AnnotationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc annotationXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &AnnotationFile{swathName: swathName, doc: doc}, nil
}

// MultiSwathAnnotation aggregates one AnnotationFile per swath, the shape
// a GRD product with IW1-3 or EW1-5 sub-annotations needs.
type MultiSwathAnnotation struct {
	files map[string]*AnnotationFile
}

// NewMultiSwathAnnotation builds an aggregate source from per-swath files.
func NewMultiSwathAnnotation(files map[string]*AnnotationFile) *MultiSwathAnnotation {
	return &MultiSwathAnnotation{files: files}
}

func (m *MultiSwathAnnotation) Swaths() ([]gosardenoise.Swath, error) {
	out := make([]gosardenoise.Swath, 0, len(m.files))
	for name, f := range m.files {
		out = append(out, gosardenoise.Swath{
			Name:            name,
			NumberOfSamples: f.doc.ImageAnnotation.ImageInformation.NumberOfSamples,
			NumberOfLines:   f.doc.ImageAnnotation.ImageInformation.NumberOfLines,
			LastSample:      f.doc.ImageAnnotation.ImageInformation.NumberOfSamples - 1,
			LastLine:        f.doc.ImageAnnotation.ImageInformation.NumberOfLines - 1,
		})
	}
	return out, nil
}

func (m *MultiSwathAnnotation) GeolocationGrid(swath string) ([]gosardenoise.GeolocationPoint, error) {
	f, ok := m.files[swath]
	if !ok {
		return nil, os.ErrNotExist
	}
	points := f.doc.GeolocationGrid.GeolocationGridPointList.Points
	out := make([]gosardenoise.GeolocationPoint, len(points))
	for i, p := range points {
		t, err := parseAnnotationTime(p.AzimuthTime)
		if err != nil {
			return nil, err
		}
		out[i] = gosardenoise.GeolocationPoint{
			Line: p.Line, Pixel: p.Pixel,
			Latitude: p.Latitude, Longitude: p.Longitude, Height: p.Height,
			IncidenceAngle: p.IncidenceAngle, ElevationAngle: p.ElevationAngle,
			AzimuthTime:    t,
			SlantRangeTime: p.SlantRangeTime,
		}
	}
	return out, nil
}

func (m *MultiSwathAnnotation) AntennaPattern(swath string) ([]gosardenoise.AntennaPatternSample, error) {
	f, ok := m.files[swath]
	if !ok {
		return nil, os.ErrNotExist
	}
	patterns := f.doc.AntennaPattern.AntennaPatternList.Patterns
	out := make([]gosardenoise.AntennaPatternSample, len(patterns))
	for i, p := range patterns {
		t, err := parseAnnotationTime(p.AzimuthTime)
		if err != nil {
			return nil, err
		}
		out[i] = gosardenoise.AntennaPatternSample{AzimuthTime: t, Angle: p.Angle, Gain: p.Gain}
	}
	return out, nil
}

func (m *MultiSwathAnnotation) AzimuthFmRate(swath string) ([]time.Time, []float64, []float64, []float64, []float64, error) {
	f, ok := m.files[swath]
	if !ok {
		return nil, nil, nil, nil, nil, os.ErrNotExist
	}
	rates := f.doc.GeneralAnnotation.AzimuthFmRateList.Rates
	times := make([]time.Time, len(rates))
	t0 := make([]float64, len(rates))
	c0 := make([]float64, len(rates))
	c1 := make([]float64, len(rates))
	c2 := make([]float64, len(rates))
	for i, r := range rates {
		t, err := parseAnnotationTime(r.AzimuthTime)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		times[i], t0[i], c0[i], c1[i], c2[i] = t, r.T0, r.C0, r.C1, r.C2
	}
	return times, t0, c0, c1, c2, nil
}

func (m *MultiSwathAnnotation) Orbit() ([]time.Time, [][3]float64, [][3]float64, error) {
	// Orbit state vectors are shared across swaths in a GRD product; any
	// one annotation file carries the full list.
	for _, f := range m.files {
		orbits := f.doc.GeneralAnnotation.OrbitList.Orbits
		times := make([]time.Time, len(orbits))
		pos := make([][3]float64, len(orbits))
		vel := make([][3]float64, len(orbits))
		for i, o := range orbits {
			t, err := parseAnnotationTime(o.Time)
			if err != nil {
				return nil, nil, nil, err
			}
			times[i] = t
			pos[i] = [3]float64{o.PosX, o.PosY, o.PosZ}
			vel[i] = [3]float64{o.VelX, o.VelY, o.VelZ}
		}
		return times, pos, vel, nil
	}
	return nil, nil, nil, os.ErrNotExist
}

func (m *MultiSwathAnnotation) NumberOfSamples(swath string) (int, error) {
	f, ok := m.files[swath]
	if !ok {
		return 0, os.ErrNotExist
	}
	return f.doc.ImageAnnotation.ImageInformation.NumberOfSamples, nil
}

func (m *MultiSwathAnnotation) AzimuthSteeringRate(swath string) (float64, error) {
	f, ok := m.files[swath]
	if !ok {
		return 0, os.ErrNotExist
	}
	return f.doc.GeneralAnnotation.ProductInformation.AzimuthSteeringRate, nil
}

func (m *MultiSwathAnnotation) AzimuthTimeInterval(swath string) (time.Duration, error) {
	f, ok := m.files[swath]
	if !ok {
		return 0, os.ErrNotExist
	}
	seconds := f.doc.ImageAnnotation.ImageInformation.AzimuthTimeInterval
	return time.Duration(seconds * float64(time.Second)), nil
}

var _ gosardenoise.AnnotationSource = (*MultiSwathAnnotation)(nil)
