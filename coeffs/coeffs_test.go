package coeffs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coeffs.json")
	entries := []Entry{
		{Platform: "S1A", Mode: "IW", Swath: "IW1", Polarization: "VV", NoiseScaling: 1.2, PowerBalancing: 0.01},
	}
	require.NoError(t, Save(path, entries))

	f, err := Load(path, 3.10)
	require.NoError(t, err)

	ns, pb, ok := f.Lookup("S1A", "IW", "IW1", "VV")
	require.True(t, ok)
	assert.InDelta(t, 1.2, ns, 1e-9)
	assert.InDelta(t, 0.01, pb, 1e-9)

	_, _, ok = f.Lookup("S1A", "IW", "IW2", "VV")
	assert.False(t, ok)
}

func TestLookupSubstitutesS1BGapIPF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coeffs.json")
	entries := []Entry{
		{Platform: "S1B", Mode: "IW", Swath: "IW1", Polarization: "VV", IPFMin: 2.8, IPFMax: 99, NoiseScaling: 1.1, PowerBalancing: 0.02},
	}
	require.NoError(t, Save(path, entries))

	f, err := Load(path, 2.75)
	require.NoError(t, err)

	ns, pb, ok := f.Lookup("S1B", "IW", "IW1", "VV")
	require.True(t, ok)
	assert.InDelta(t, 1.1, ns, 1e-9)
	assert.InDelta(t, 0.02, pb, 1e-9)
}

func TestFitNoiseScalingRecoversKnownSlope(t *testing.T) {
	nesz := []float64{1, 2, 3, 4, 5}
	power := make([]float64, len(nesz))
	for i, v := range nesz {
		power[i] = 2.5*v + 1.0
	}
	ns := FitNoiseScaling(nesz, power)
	assert.InDelta(t, 2.5, ns, 1e-6)
}

func TestFitPowerBalancing(t *testing.T) {
	left := []float64{1, 1, 1}
	right := []float64{2, 2, 2}
	assert.InDelta(t, 1.0, FitPowerBalancing(left, right), 1e-9)
}
