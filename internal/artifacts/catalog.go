package artifacts

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Display names of the bundled models.
const (
	ModelRandomForest = "Random Forest Regressor"
	ModelLinear       = "Linear Regression"
	ModelSVR          = "Support Vector Regressor"
)

// Catalog lists the selectable models in display order and the encoder they
// share. Relative paths resolve against the artifact directory.
type Catalog struct {
	Encoder string         `yaml:"encoder"`
	Models  []CatalogEntry `yaml:"models"`
}

// CatalogEntry maps a display name to exactly one artifact file or remote
// inference endpoint.
type CatalogEntry struct {
	Name        string `yaml:"name"`
	Artifact    string `yaml:"artifact,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// IsRemote reports whether the entry is served over HTTP.
func (e CatalogEntry) IsRemote() bool {
	return e.Endpoint != ""
}

// DefaultCatalog returns the three bundled regressors.
func DefaultCatalog() Catalog {
	return Catalog{
		Encoder: "label_encoder.json",
		Models: []CatalogEntry{
			{Name: ModelRandomForest, Artifact: "RandomForestRegressor.json"},
			{Name: ModelLinear, Artifact: "LinearRegression.json"},
			{Name: ModelSVR, Artifact: "SVR.json"},
		},
	}
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, loadError(path, "catalog", err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, loadError(path, "catalog", err)
	}
	return cat, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// Validate checks for at least one model, unique names, and one source per
// entry.
func (c Catalog) Validate() error {
	if len(c.Models) == 0 {
		return errors.New("catalog lists no models")
	}
	seen := make(map[string]struct{}, len(c.Models))
	for i, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("model %d has no name", i)
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("duplicate model name %q", m.Name)
		}
		seen[m.Name] = struct{}{}

		switch {
		case m.Artifact == "" && m.Endpoint == "":
			return fmt.Errorf("model %q has neither artifact nor endpoint", m.Name)
		case m.Artifact != "" && m.Endpoint != "":
			return fmt.Errorf("model %q has both artifact and endpoint", m.Name)
		}
	}
	return nil
}

// Names returns the model display names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.Models))
	for i, m := range c.Models {
		names[i] = m.Name
	}
	return names
}
