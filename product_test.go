package gosardenoise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductIDAcceptsGRD(t *testing.T) {
	id, err := ParseProductID("S1A_IW_GRDH_1SDV_20200101T000000_20200101T000020_030000_037000_ABCD")
	require.NoError(t, err)
	assert.Equal(t, "S1A", id.Mission)
	assert.Equal(t, "IW", id.Mode)
	assert.Equal(t, "GRDH", id.ProductType)
}

func TestParseProductIDRejectsSLC(t *testing.T) {
	_, err := ParseProductID("S1A_IW_SLC__1SDV_20200101T000000_20200101T000020_030000_037000_ABCD")
	assert.Error(t, err)
}

func TestParseProductIDRejectsGarbage(t *testing.T) {
	_, err := ParseProductID("not-a-product-name")
	assert.Error(t, err)
}
