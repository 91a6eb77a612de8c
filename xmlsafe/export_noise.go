package xmlsafe

import (
	"bytes"
	"encoding/xml"
	"time"
)

type noiseRangeVectorOut struct {
	AzimuthTime string    `xml:"azimuthTime"`
	Line        int       `xml:"line"`
	Pixel       []int     `xml:"pixel"`
	NoiseLUT    []float64 `xml:"noiseRangeLut"`
}

type noiseXMLOut struct {
	XMLName         xml.Name              `xml:"noise"`
	RangeVectorList struct {
		Count   int                   `xml:"count,attr"`
		Vectors []noiseRangeVectorOut `xml:"noiseRangeVector"`
	} `xml:"noiseRangeVectorList"`
}

// CorrectedRangeVector is one corrected noise-range LUT ready to be
// round-tripped back into an ESA-shaped noise XML document.
type CorrectedRangeVector struct {
	AzimuthTime time.Time
	Line        int
	Pixels      []int
	RangeLUT    []float64
}

// ExportNoiseXML serializes corrected range-noise vectors back into the
// same element shape a product's own noise XML uses, implementing
// original_source's export_noise_xml round-trip (spec.md §8 Testable
// Property 5): re-parsing the output with LoadNoise must reproduce the
// same vectors.
func ExportNoiseXML(vectors []CorrectedRangeVector) ([]byte, error) {
	var doc noiseXMLOut
	doc.RangeVectorList.Count = len(vectors)
	doc.RangeVectorList.Vectors = make([]noiseRangeVectorOut, len(vectors))
	for i, v := range vectors {
		doc.RangeVectorList.Vectors[i] = noiseRangeVectorOut{
			AzimuthTime: v.AzimuthTime.Format(annotationTimeLayout),
			Line:        v.Line,
			Pixel:       v.Pixels,
			NoiseLUT:    v.RangeLUT,
		}
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
