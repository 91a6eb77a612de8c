package xmlsafe

import (
	"encoding/xml"
	"os"
	"time"

	"github.com/nansencenter/gosardenoise"
)

type auxCalXML struct {
	XMLName      xml.Name `xml:"auxiliaryCalibration"`
	CalibrationParamsList struct {
		Params []struct {
			Swath        string `xml:"swath"`
			Polarisation string `xml:"polarisation"`
			ElevationAntennaPattern struct {
				AngleIncrement float64   `xml:"elevationAngleIncrement"`
				Gain           []float64 `xml:"values"`
			} `xml:"elevationAntennaPattern"`
		} `xml:"calibrationParams"`
	} `xml:"calibrationParamsList"`
}

// AuxCalFile is a gosardenoise.AuxCalSource backed by a single parsed
// AUX_CAL XML document, extracted from a cached archive by auxfetch. ipf
// records the IPF version of the product this AUX_CAL file was resolved
// for, since the elevation-antenna-pattern sample convention (plain
// decibel magnitude vs interleaved complex) changed at IPF 2.90, per
// spec.md §4.2.
type AuxCalFile struct {
	archiveName string
	ipf         float64
	doc         auxCalXML
}

// auxCalComplexSince is the IPF version at and after which AUX_CAL
// publishes interleaved real/imaginary elevation antenna pattern samples
// instead of a single decibel magnitude per angle step.
const auxCalComplexSince = 2.90

// LoadAuxCal parses an AUX_CAL XML file from path, tagging the result with
// archiveName for diagnostics (SPEC_FULL.md §3) and ipfVersion so Resolve
// can report the right sample convention to callers.
func LoadAuxCal(path, archiveName string, ipfVersion float64) (*AuxCalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc auxCalXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &AuxCalFile{archiveName: archiveName, ipf: ipfVersion, doc: doc}, nil
}

func (a *AuxCalFile) Resolve(_ time.Time, _ string, swath string, pol gosardenoise.Polarization) (gosardenoise.AuxCalibration, error) {
	for _, p := range a.doc.CalibrationParamsList.Params {
		if p.Swath == swath && p.Polarisation == string(pol) {
			return gosardenoise.AuxCalibration{
				Swath: swath, Polarization: pol,
				Gain:           p.ElevationAntennaPattern.Gain,
				AngleIncrement: p.ElevationAntennaPattern.AngleIncrement,
				Complex:        a.ipf >= auxCalComplexSince,
				ArchiveName:    a.archiveName,
			}, nil
		}
	}
	return gosardenoise.AuxCalibration{}, os.ErrNotExist
}

var _ gosardenoise.AuxCalSource = (*AuxCalFile)(nil)
