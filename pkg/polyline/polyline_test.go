package polyline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ReferenceExample(t *testing.T) {
	// Example from the polyline algorithm documentation.
	coords := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

	require.Len(t, coords, 3)
	assert.InDelta(t, 38.5, coords[0].Lat, 1e-5)
	assert.InDelta(t, -120.2, coords[0].Lon, 1e-5)
	assert.InDelta(t, 40.7, coords[1].Lat, 1e-5)
	assert.InDelta(t, -120.95, coords[1].Lon, 1e-5)
	assert.InDelta(t, 43.252, coords[2].Lat, 1e-5)
	assert.InDelta(t, -126.453, coords[2].Lon, 1e-5)
}

func TestDecode_Empty(t *testing.T) {
	assert.Nil(t, Decode(""))
}

func TestEncode_ReferenceExample(t *testing.T) {
	encoded := Encode([]Coordinate{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	})

	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
}

func TestRoundTrip(t *testing.T) {
	original := []Coordinate{
		{Lat: 37.77493, Lon: -122.41942},
		{Lat: 37.80440, Lon: -122.42110},
		{Lat: 37.75000, Lon: -122.45000},
	}

	decoded := Decode(Encode(original))

	require.Len(t, decoded, len(original))
	for i := range original {
		assert.InDelta(t, original[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, original[i].Lon, decoded[i].Lon, 1e-5)
	}
}
