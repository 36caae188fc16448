package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraffic/internal/types"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()

	require.NoError(t, cat.Validate())
	assert.Equal(t, []string{ModelRandomForest, ModelLinear, ModelSVR}, cat.Names())
	assert.Equal(t, "label_encoder.json", cat.Encoder)
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
encoder: encoders/location.json.zst
models:
  - name: Linear Regression
    artifact: LinearRegression.json
    description: Ordinary least squares
  - name: Gradient Boosting (remote)
    endpoint: http://inference.internal/predict
`)
	cat, err := ParseCatalog(data)
	require.NoError(t, err)

	assert.Equal(t, "encoders/location.json.zst", cat.Encoder)
	require.Len(t, cat.Models, 2)
	assert.False(t, cat.Models[0].IsRemote())
	assert.Equal(t, "Ordinary least squares", cat.Models[0].Description)
	assert.True(t, cat.Models[1].IsRemote())
}

func TestCatalog_ValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "models: []", "no models"},
		{"no name", "models:\n  - artifact: a.json", "has no name"},
		{"duplicate", "models:\n  - {name: A, artifact: a.json}\n  - {name: A, artifact: b.json}", "duplicate model name"},
		{"no source", "models:\n  - name: A", "neither artifact nor endpoint"},
		{"two sources", "models:\n  - {name: A, artifact: a.json, endpoint: http://x}", "both artifact and endpoint"},
		{"bad yaml", "models: [", "decoding catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  - {name: A, artifact: a.json}\n"), 0o600))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, cat.Names())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	var loadErr *types.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "catalog", loadErr.Kind)
}
