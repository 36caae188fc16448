package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

// artifactDir writes an encoder and the three default model artifacts.
func artifactDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	n := features.SpaceTrafficSchema.Len()
	writeJSON(t, dir, "label_encoder.json", encoderDoc())
	writeJSON(t, dir, "LinearRegression.json", linearDocFor())
	writeJSON(t, dir, "RandomForestRegressor.json", forestTestDoc())
	writeJSON(t, dir, "SVR.json", map[string]any{
		"kind":            string(types.ModelKindSVR),
		"n_features_in":   n,
		"kernel":          KernelLinear,
		"support_vectors": [][]float64{oneHot(n, 0)},
		"dual_coef":       []float64{2},
		"intercept":       0.5,
	})
	return dir
}

func openTestRegistry(t *testing.T, dir string) *Registry {
	t.Helper()
	reg, err := Open(Options{Catalog: DefaultCatalog(), BaseDir: dir})
	require.NoError(t, err)
	return reg
}

func TestOpen_LoadsEncoder(t *testing.T) {
	reg := openTestRegistry(t, artifactDir(t))

	assert.Equal(t, testLocations, reg.Locations())
	code, err := reg.Encoder().Transform("Mars Orbit")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, ModelRandomForest, reg.DefaultModel())
	assert.Equal(t, DefaultCatalog().Names(), reg.ModelNames())
}

func TestOpen_MissingEncoderIsArtifactLoadError(t *testing.T) {
	_, err := Open(Options{Catalog: DefaultCatalog(), BaseDir: t.TempDir()})

	var loadErr *types.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "encoder", loadErr.Kind)
}

func TestOpen_EncoderPathOverride(t *testing.T) {
	dir := artifactDir(t)
	writeJSON(t, dir, "alt.json", map[string]any{"kind": KindLabelEncoder, "classes": []string{"Saturn Rings"}})

	reg, err := Open(Options{Catalog: DefaultCatalog(), BaseDir: dir, EncoderPath: "alt.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Saturn Rings"}, reg.Locations())
}

func TestOpen_RemoteEntryNeedsFactory(t *testing.T) {
	cat := DefaultCatalog()
	cat.Models = append(cat.Models, CatalogEntry{Name: "Remote", Endpoint: "http://localhost:9/predict"})

	_, err := Open(Options{Catalog: cat, BaseDir: artifactDir(t)})

	var loadErr *types.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestRegistry_ModelLoadsEachModelOnce(t *testing.T) {
	dir := artifactDir(t)
	reg := openTestRegistry(t, dir)

	first, err := reg.Model(context.Background(), ModelLinear)
	require.NoError(t, err)

	// Removing the file after the first load must not matter.
	require.NoError(t, os.Remove(filepath.Join(dir, "LinearRegression.json")))

	second, err := reg.Model(context.Background(), ModelLinear)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistry_ConcurrentModelAccess(t *testing.T) {
	reg := openTestRegistry(t, artifactDir(t))

	var wg sync.WaitGroup
	results := make([]features.Model, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := reg.Model(context.Background(), ModelRandomForest)
			assert.NoError(t, err)
			results[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range results[1:] {
		assert.Same(t, results[0], m)
	}
}

func TestRegistry_UnknownModel(t *testing.T) {
	reg := openTestRegistry(t, artifactDir(t))

	_, err := reg.Model(context.Background(), "Gradient Boosting")

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationUnknownModel, appErr.Code)
	assert.Equal(t, DefaultCatalog().Names(), appErr.Details["available"])
}

func TestRegistry_FailedLoadIsRemembered(t *testing.T) {
	dir := artifactDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "SVR.json")))
	reg := openTestRegistry(t, dir)

	_, err := reg.Model(context.Background(), ModelSVR)
	var loadErr *types.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))

	// Restoring the file does not resurrect the model for this process.
	writeJSON(t, dir, "SVR.json", linearDocFor())
	_, err = reg.Model(context.Background(), ModelSVR)
	assert.True(t, errors.As(err, &loadErr))
}

func TestRegistry_Preload(t *testing.T) {
	reg := openTestRegistry(t, artifactDir(t))
	require.NoError(t, reg.Preload(context.Background()))
	require.NoError(t, reg.Check(context.Background()))
}

func TestRegistry_PreloadReportsFailure(t *testing.T) {
	dir := artifactDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RandomForestRegressor.json"), []byte("{"), 0o600))
	reg := openTestRegistry(t, dir)

	err := reg.Preload(context.Background())

	var loadErr *types.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Path, "RandomForestRegressor.json")
	assert.Error(t, reg.Check(context.Background()))
}

func TestRegistry_RemoteFactory(t *testing.T) {
	cat := DefaultCatalog()
	cat.Models = append(cat.Models, CatalogEntry{Name: "Remote", Endpoint: "http://inference/predict"})

	calls := 0
	remote := &stubModel{value: 42}
	reg, err := Open(Options{
		Catalog: cat,
		BaseDir: artifactDir(t),
		Remote: func(entry CatalogEntry) (features.Model, error) {
			calls++
			assert.Equal(t, "http://inference/predict", entry.Endpoint)
			return remote, nil
		},
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		m, err := reg.Model(context.Background(), "Remote")
		require.NoError(t, err)
		assert.Same(t, remote, m)
	}
	assert.Equal(t, 1, calls)

	infos := reg.Describe()
	require.Len(t, infos, 4)
	assert.True(t, infos[0].Default)
	assert.Equal(t, "artifact", infos[0].Source)
	assert.Equal(t, "remote", infos[3].Source)
}

func TestRegistry_ModelHonoursCancelledContext(t *testing.T) {
	reg := openTestRegistry(t, artifactDir(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.Model(ctx, ModelLinear)
	assert.ErrorIs(t, err, context.Canceled)
}

type stubModel struct{ value float64 }

func (s *stubModel) Predict(context.Context, features.FeatureRow) (float64, error) {
	return s.value, nil
}
