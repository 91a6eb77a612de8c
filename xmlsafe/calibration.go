package xmlsafe

import (
	"encoding/xml"
	"os"

	"github.com/nansencenter/gosardenoise"
)

type calibrationXML struct {
	XMLName          xml.Name `xml:"calibration"`
	CalibrationVectorList struct {
		Vectors []struct {
			Line   int       `xml:"line"`
			Pixel  []int     `xml:"pixel"`
			Sigma0 []float64 `xml:"sigmaNought"`
		} `xml:"calibrationVector"`
	} `xml:"calibrationVectorList"`
}

// CalibrationFile is a gosardenoise.CalibrationSource backed by a single
// parsed ESA calibration XML document for one swath.
type CalibrationFile struct {
	doc calibrationXML
}

// LoadCalibration parses a calibration XML file from path.
func LoadCalibration(path string) (*CalibrationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc calibrationXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &CalibrationFile{doc: doc}, nil
}

// MultiSwathCalibration aggregates one CalibrationFile per swath.
type MultiSwathCalibration struct {
	files map[string]*CalibrationFile
}

// NewMultiSwathCalibration builds an aggregate source from per-swath files.
func NewMultiSwathCalibration(files map[string]*CalibrationFile) *MultiSwathCalibration {
	return &MultiSwathCalibration{files: files}
}

func (m *MultiSwathCalibration) SigmaNought(swath string) ([]int, []int, [][]float64, error) {
	f, ok := m.files[swath]
	if !ok {
		return nil, nil, nil, os.ErrNotExist
	}
	vecs := f.doc.CalibrationVectorList.Vectors
	lines := make([]int, len(vecs))
	var pixels []int
	values := make([][]float64, len(vecs))
	for i, v := range vecs {
		lines[i] = v.Line
		if pixels == nil {
			pixels = v.Pixel
		}
		values[i] = v.Sigma0
	}
	return lines, pixels, values, nil
}

var _ gosardenoise.CalibrationSource = (*MultiSwathCalibration)(nil)
