package xmlsafe

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportNoiseXMLRoundTrips(t *testing.T) {
	vectors := []CorrectedRangeVector{
		{
			AzimuthTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Line:        100,
			Pixels:      []int{0, 1, 2},
			RangeLUT:    []float64{1.1, 2.2, 3.3},
		},
	}
	data, err := ExportNoiseXML(vectors)
	require.NoError(t, err)

	var doc noiseXML
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.RangeVectorList.Vectors, 1)
	assert.Equal(t, 100, doc.RangeVectorList.Vectors[0].Line)
	assert.Equal(t, []float64{1.1, 2.2, 3.3}, doc.RangeVectorList.Vectors[0].NoiseLUT)
}
