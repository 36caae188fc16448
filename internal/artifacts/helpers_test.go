package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

var testLocations = []string{"Asteroid Belt", "Earth Orbit", "Lunar Orbit", "Mars Orbit", "Venus Orbit"}

// writeJSON marshals v into dir/name and returns the path.
func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// writeRaw writes data to dir/name unchanged and returns the path.
func writeRaw(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// writeZstd compresses data into dir/name and returns the path.
func writeZstd(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	require.NoError(t, err)
	defer w.Close()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, w.EncodeAll(data, nil), 0o600))
	return path
}

func encoderDoc() map[string]any {
	return map[string]any{"kind": KindLabelEncoder, "classes": testLocations}
}

// linearDocFor returns a linear artifact where y = 1 + sum(i * x_i).
func linearDocFor() map[string]any {
	coef := make([]float64, features.SpaceTrafficSchema.Len())
	for i := range coef {
		coef[i] = float64(i)
	}
	return map[string]any{
		"kind":             string(types.ModelKindLinear),
		"feature_names_in": features.SpaceTrafficSchema.Columns(),
		"coef":             coef,
		"intercept":        1.0,
	}
}

func scenarioRow() features.FeatureRow {
	return features.BuildFeatureRow(types.PredictionRequest{
		Model:       ModelLinear,
		Location:    "Mars Orbit",
		Date:        types.Date{Year: 2024, Month: 10, Day: 21},
		ObjectFlags: types.DefaultObjectFlags(),
	}, 3)
}
