package xmlsafe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnnotation = `<?xml version="1.0" encoding="UTF-8"?>
<product>
  <imageAnnotation>
    <imageInformation>
      <numberOfSamples>10</numberOfSamples>
      <numberOfLines>5</numberOfLines>
    </imageInformation>
  </imageAnnotation>
  <geolocationGrid>
    <geolocationGridPointList>
      <geolocationGridPoint>
        <line>0</line>
        <pixel>0</pixel>
        <latitude>10.0</latitude>
        <longitude>20.0</longitude>
        <height>0.0</height>
        <incidenceAngle>30.0</incidenceAngle>
        <elevationAngle>29.0</elevationAngle>
        <azimuthTime>2020-01-01T00:00:00.000000</azimuthTime>
        <slantRangeTime>0.005</slantRangeTime>
      </geolocationGridPoint>
    </geolocationGridPointList>
  </geolocationGrid>
</product>`

func TestLoadAnnotationParsesImageInformation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "annotation.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleAnnotation), 0o644))

	f, err := LoadAnnotation(path, "IW1")
	require.NoError(t, err)

	m := NewMultiSwathAnnotation(map[string]*AnnotationFile{"IW1": f})
	swaths, err := m.Swaths()
	require.NoError(t, err)
	require.Len(t, swaths, 1)
	assert.Equal(t, 10, swaths[0].NumberOfSamples)
	assert.Equal(t, 5, swaths[0].NumberOfLines)

	points, err := m.GeolocationGrid("IW1")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 30.0, points[0].IncidenceAngle, 1e-9)
}
