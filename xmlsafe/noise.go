package xmlsafe

import (
	"encoding/xml"
	"os"

	"github.com/nansencenter/gosardenoise"
)

type noiseXML struct {
	XMLName xml.Name `xml:"noise"`

	RangeVectorList struct {
		Vectors []struct {
			AzimuthTime string    `xml:"azimuthTime"`
			Line        int       `xml:"line"`
			Pixel       []int     `xml:"pixel"`
			NoiseLUT    []float64 `xml:"noiseRangeLut"`
		} `xml:"noiseRangeVector"`
	} `xml:"noiseRangeVectorList"`

	AzimuthVectorList struct {
		Vectors []struct {
			AzimuthTime string  `xml:"azimuthTime"`
			FirstLine   int     `xml:"firstAzimuthLine"`
			LastLine    int     `xml:"lastAzimuthLine"`
			FirstPixel  int     `xml:"firstRangeSample"`
			LastPixel   int     `xml:"lastRangeSample"`
			NoiseLUT    float64 `xml:"noiseAzimuthLut"`
		} `xml:"noiseAzimuthVector"`
	} `xml:"noiseAzimuthVectorList"`
}

// NoiseFile is a gosardenoise.NoiseSource backed by a single parsed ESA
// noise XML document for one swath.
type NoiseFile struct {
	doc noiseXML
}

// LoadNoise parses a noise XML file from path.
func LoadNoise(path string) (*NoiseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc noiseXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &NoiseFile{doc: doc}, nil
}

// MultiSwathNoise aggregates one NoiseFile per swath.
type MultiSwathNoise struct {
	files map[string]*NoiseFile
}

// NewMultiSwathNoise builds an aggregate source from per-swath files.
func NewMultiSwathNoise(files map[string]*NoiseFile) *MultiSwathNoise {
	return &MultiSwathNoise{files: files}
}

func (m *MultiSwathNoise) RangeVectors(swath string) ([]gosardenoise.NoiseVector, error) {
	f, ok := m.files[swath]
	if !ok {
		return nil, os.ErrNotExist
	}
	vecs := f.doc.RangeVectorList.Vectors
	out := make([]gosardenoise.NoiseVector, len(vecs))
	for i, v := range vecs {
		t, err := parseAnnotationTime(v.AzimuthTime)
		if err != nil {
			return nil, err
		}
		out[i] = gosardenoise.NoiseVector{
			AzimuthTime: t,
			Line:        v.Line,
			Pixels:      v.Pixel,
			RangeLUT:    v.NoiseLUT,
		}
	}
	return out, nil
}

func (m *MultiSwathNoise) AzimuthVectors(swath string) ([]gosardenoise.NoiseVector, error) {
	f, ok := m.files[swath]
	if !ok {
		return nil, os.ErrNotExist
	}
	vecs := f.doc.AzimuthVectorList.Vectors
	out := make([]gosardenoise.NoiseVector, len(vecs))
	for i, v := range vecs {
		t, err := parseAnnotationTime(v.AzimuthTime)
		if err != nil {
			return nil, err
		}
		out[i] = gosardenoise.NoiseVector{
			AzimuthTime: t,
			FirstLine:   v.FirstLine, LastLine: v.LastLine,
			FirstPixel: v.FirstPixel, LastPixel: v.LastPixel,
			AzimuthLUT: v.NoiseLUT,
		}
	}
	return out, nil
}

var _ gosardenoise.NoiseSource = (*MultiSwathNoise)(nil)
