package xmlsafe

import (
	"encoding/xml"
	"os"
	"strconv"
	"time"

	"github.com/nansencenter/gosardenoise"
)

type manifestXML struct {
	XMLName  xml.Name `xml:"XFDU"`
	Metadata struct {
		ProcessingInformation struct {
			IPFVersion string `xml:"softwareVersion"`
		} `xml:"processing"`
		InstrumentConfigurationID string `xml:"instrumentConfigurationID"`
		ValidityStart             string `xml:"validityStart"`
	} `xml:"metadataSection"`
}

// ManifestFile is a gosardenoise.ManifestSource backed by a parsed
// manifest.safe document.
type ManifestFile struct {
	doc manifestXML
}

// LoadManifest parses a manifest.safe file from path.
func LoadManifest(path string) (*ManifestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc manifestXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &ManifestFile{doc: doc}, nil
}

func (m *ManifestFile) IPFVersion() (float64, error) {
	return strconv.ParseFloat(m.doc.Metadata.ProcessingInformation.IPFVersion, 64)
}

func (m *ManifestFile) InstrumentConfigurationID() (int, error) {
	return strconv.Atoi(m.doc.Metadata.InstrumentConfigurationID)
}

func (m *ManifestFile) ValidityStart() (time.Time, error) {
	return parseAnnotationTime(m.doc.Metadata.ValidityStart)
}

var _ gosardenoise.ManifestSource = (*ManifestFile)(nil)
