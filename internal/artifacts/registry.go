package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

// RemoteFactory builds a model for a catalog entry served over HTTP.
type RemoteFactory func(entry CatalogEntry) (features.Model, error)

// Options configures a Registry.
type Options struct {
	Catalog Catalog
	// BaseDir is the directory relative artifact paths resolve against.
	BaseDir string
	// EncoderPath overrides Catalog.Encoder when non-empty.
	EncoderPath string
	// Remote builds models for entries with an endpoint. Required only when
	// the catalog has such entries.
	Remote RemoteFactory
	Logger *slog.Logger
}

// ModelInfo describes a selectable model.
type ModelInfo struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
}

// Registry is the process-wide, read-only set of loaded artifacts. The
// encoder is loaded when the registry opens; each model is loaded at most
// once, either by Preload or on first use, and a failed load is remembered.
type Registry struct {
	catalog Catalog
	encoder *LabelEncoder
	slots   map[string]*modelSlot
	logger  *slog.Logger
}

type modelSlot struct {
	entry CatalogEntry
	load  func() (features.Model, error)
}

// Open validates the catalog, loads the encoder, and prepares lazy loaders
// for every model. Encoder failures are returned as *types.ArtifactLoadError.
func Open(opts Options) (*Registry, error) {
	if err := opts.Catalog.Validate(); err != nil {
		return nil, &types.ArtifactLoadError{Kind: "catalog", Err: err}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	encoderPath := opts.EncoderPath
	if encoderPath == "" {
		encoderPath = opts.Catalog.Encoder
	}
	if encoderPath == "" {
		return nil, &types.ArtifactLoadError{Kind: "encoder", Err: errors.New("no encoder artifact configured")}
	}
	encoder, err := LoadLabelEncoder(resolvePath(opts.BaseDir, encoderPath))
	if err != nil {
		return nil, err
	}

	r := &Registry{
		catalog: opts.Catalog,
		encoder: encoder,
		slots:   make(map[string]*modelSlot, len(opts.Catalog.Models)),
		logger:  logger,
	}

	for _, entry := range opts.Catalog.Models {
		var load func() (features.Model, error)
		if entry.IsRemote() {
			if opts.Remote == nil {
				return nil, &types.ArtifactLoadError{
					Path: entry.Endpoint,
					Kind: "model",
					Err:  fmt.Errorf("model %q is remote but no remote client is configured", entry.Name),
				}
			}
			load = func() (features.Model, error) {
				m, err := opts.Remote(entry)
				if err != nil {
					return nil, &types.ArtifactLoadError{Path: entry.Endpoint, Kind: "model", Err: err}
				}
				return m, nil
			}
		} else {
			path := resolvePath(opts.BaseDir, entry.Artifact)
			load = func() (features.Model, error) {
				return LoadModel(entry.Name, path)
			}
		}

		r.slots[entry.Name] = &modelSlot{
			entry: entry,
			load:  sync.OnceValues(r.logLoad(entry, load)),
		}
	}

	logger.Info("artifact registry opened",
		"models", len(r.slots),
		"locations", len(encoder.classes),
	)
	return r, nil
}

func (r *Registry) logLoad(entry CatalogEntry, load func() (features.Model, error)) func() (features.Model, error) {
	return func() (features.Model, error) {
		m, err := load()
		if err != nil {
			r.logger.Error("model artifact failed to load", "model", entry.Name, "error", err)
			return nil, err
		}
		r.logger.Info("model artifact loaded", "model", entry.Name, "kind", string(ModelKindOf(m)))
		return m, nil
	}
}

// Encoder returns the shared location encoder.
func (r *Registry) Encoder() features.CategoryEncoder {
	return r.encoder
}

// Locations returns the encoder vocabulary in code order.
func (r *Registry) Locations() []string {
	return r.encoder.Classes()
}

// ModelNames returns the selectable model names in catalog order.
func (r *Registry) ModelNames() []string {
	return r.catalog.Names()
}

// DefaultModel returns the first model in the catalog.
func (r *Registry) DefaultModel() string {
	return r.catalog.Models[0].Name
}

// Describe lists the models in catalog order.
func (r *Registry) Describe() []ModelInfo {
	out := make([]ModelInfo, len(r.catalog.Models))
	for i, m := range r.catalog.Models {
		source := "artifact"
		if m.IsRemote() {
			source = "remote"
		}
		out[i] = ModelInfo{
			Name:        m.Name,
			Source:      source,
			Description: m.Description,
			Default:     i == 0,
		}
	}
	return out
}

// Model returns the named model, loading it on first use. Unknown names yield
// a validation_unknown_model AppError; load failures a *types.ArtifactLoadError.
func (r *Registry) Model(ctx context.Context, name string) (features.Model, error) {
	slot, ok := r.slots[name]
	if !ok {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeValidationUnknownModel,
			fmt.Sprintf("unknown model %q", name),
			nil,
			map[string]any{"available": r.catalog.Names()},
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slot.load()
}

// Preload loads every model concurrently and returns the first failure.
func (r *Registry) Preload(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range r.catalog.Names() {
		g.Go(func() error {
			_, err := r.Model(gCtx, name)
			return err
		})
	}
	return g.Wait()
}

// Name implements core.HealthProbe.
func (r *Registry) Name() string { return "artifacts" }

// Check implements core.HealthProbe. Local models not yet loaded are loaded
// here; remote models are skipped.
func (r *Registry) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(r.encoder.classes) == 0 {
		return errors.New("encoder has no classes")
	}
	for _, name := range r.catalog.Names() {
		slot := r.slots[name]
		if slot.entry.IsRemote() {
			continue
		}
		if _, err := slot.load(); err != nil {
			return fmt.Errorf("model %q: %w", name, err)
		}
	}
	return nil
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
