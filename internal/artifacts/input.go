package artifacts

import (
	"errors"
	"fmt"
	"slices"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

// scalerSpec is a fitted StandardScaler: x' = (x - mean) / scale.
type scalerSpec struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// inputSpec describes what a model accepts and prepares rows for it.
type inputSpec struct {
	model        string
	featureNames []string
	nFeatures    int
	scaler       *scalerSpec
}

func newInputSpec(model string, h header) (inputSpec, error) {
	n := h.NFeaturesIn
	if len(h.FeatureNamesIn) > 0 {
		if n != 0 && n != len(h.FeatureNamesIn) {
			return inputSpec{}, fmt.Errorf("n_features_in %d does not match %d feature names", n, len(h.FeatureNamesIn))
		}
		n = len(h.FeatureNamesIn)
	}
	if n <= 0 {
		return inputSpec{}, errors.New("artifact declares neither feature_names_in nor n_features_in")
	}
	if h.Scaler != nil {
		if len(h.Scaler.Mean) != n || len(h.Scaler.Scale) != n {
			return inputSpec{}, fmt.Errorf("scaler must have %d mean and scale values", n)
		}
		for i, s := range h.Scaler.Scale {
			if s == 0 {
				return inputSpec{}, fmt.Errorf("scaler scale[%d] is zero", i)
			}
		}
	}
	return inputSpec{
		model:        model,
		featureNames: slices.Clone(h.FeatureNamesIn),
		nFeatures:    n,
		scaler:       h.Scaler,
	}, nil
}

// prepare checks row against the trained schema and returns the (scaled)
// values in training order.
func (s inputSpec) prepare(row features.FeatureRow) ([]float64, error) {
	got := row.Columns()
	if len(s.featureNames) > 0 && !slices.Equal(s.featureNames, got) {
		return nil, &types.SchemaMismatchError{
			Model:    s.model,
			Expected: slices.Clone(s.featureNames),
			Got:      got,
			Reason:   "feature names do not match those seen at fit time",
		}
	}
	if len(row.Values) != s.nFeatures {
		return nil, &types.SchemaMismatchError{
			Model:    s.model,
			Expected: slices.Clone(s.featureNames),
			Got:      got,
			Reason:   fmt.Sprintf("row has %d features, but the model expects %d", len(row.Values), s.nFeatures),
		}
	}

	x := slices.Clone(row.Values)
	if s.scaler != nil {
		for i := range x {
			x[i] = (x[i] - s.scaler.Mean[i]) / s.scaler.Scale[i]
		}
	}
	return x, nil
}
