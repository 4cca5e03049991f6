package acquisition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSnapshot(t *testing.T) {
	data := `[
		{"icao24":"e48a92","callsign":"GLO1234","lat":-23.2,"lon":-46.3,"speed_mps":220,"altitude_m":9400},
		{"icao24":"e49b01","callsign":"N/A","lat":-23.1,"lon":-46.2,"speed_mps":200,"altitude_m":8000},
		{"icao24":"e49b02","callsign":"TAM3001","lat":-23.8,"lon":-46.9,"speed_mps":240,"altitude_m":0}
	]`
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	obs, err := LoadSnapshot(path)
	require.NoError(t, err)

	// The N/A callsign and zero-altitude records are dropped at load.
	require.Len(t, obs, 1)
	assert.Equal(t, "GLO1234", obs[0].Callsign)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadSnapshot_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse snapshot")
}
