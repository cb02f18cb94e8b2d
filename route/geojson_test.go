package route

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[9,9]}},
 {"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[0,0.5],[0,1]]}}
]}`

const stationsJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"First"},"geometry":{"type":"Point","coordinates":[0,0]}},
 {"type":"Feature","properties":{"name":"Second"},"geometry":{"type":"Point","coordinates":[0,0.5]}},
 {"type":"Feature","properties":{"name":"Third"},"geometry":{"type":"Point","coordinates":[0,1]}}
]}`

func TestLoadGeoJSON(t *testing.T) {
	m, err := LoadGeoJSON([]byte(lineJSON), []byte(stationsJSON), "name")
	require.NoError(t, err)

	assert.Len(t, m.Line(), 3)
	stations := m.Stations()
	require.Len(t, stations, 3)
	// display order is reversed source order
	assert.Equal(t, "Third", stations[0].Name)
	assert.Equal(t, "First", stations[2].Name)
	assert.Equal(t, Position{Longitude: 0, Latitude: 1}, stations[0].Position)
}

func TestDecodeLine_MultiLineString(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[
	 {"type":"Feature","properties":{},"geometry":{"type":"MultiLineString","coordinates":[[[0,0],[0,1]],[[0,1],[0,2]]]}}
	]}`
	line, err := DecodeLine([]byte(data))
	require.NoError(t, err)
	assert.Len(t, line, 4)
	assert.Equal(t, Position{0, 2}, line[3])
}

func TestDecodeLine_Missing(t *testing.T) {
	_, err := DecodeLine([]byte(stationsJSON))
	assert.ErrorIs(t, err, ErrLineFeatureMissing)

	_, err = DecodeLine([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeStations_Errors(t *testing.T) {
	_, err := DecodeStations([]byte(stationsJSON), "title")
	assert.ErrorIs(t, err, ErrUnnamedStation)

	_, err = DecodeStations([]byte(`{"type":"FeatureCollection","features":[]}`), "name")
	assert.ErrorIs(t, err, ErrNoStations)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	linePath := filepath.Join(dir, "line.geojson")
	stationPath := filepath.Join(dir, "stations.geojson")
	require.NoError(t, os.WriteFile(linePath, []byte(lineJSON), 0644))
	require.NoError(t, os.WriteFile(stationPath, []byte(stationsJSON), 0644))

	m, err := LoadFiles(linePath, stationPath, "name", WithProjectionCache(8))
	require.NoError(t, err)
	assert.InDelta(t, 111.195, m.Length(), 0.01)

	_, err = LoadFiles(filepath.Join(dir, "missing"), stationPath, "name")
	assert.Error(t, err)
}
