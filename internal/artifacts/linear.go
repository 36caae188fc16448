package artifacts

import (
	"context"
	"fmt"

	"spacetraffic/internal/features"
)

// LinearRegressor predicts intercept + coef · x.
type LinearRegressor struct {
	input     inputSpec
	coef      []float64
	intercept float64
}

type linearDoc struct {
	header
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func decodeLinear(name string, data []byte) (*LinearRegressor, error) {
	var doc linearDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding linear regression: %w", err)
	}
	if doc.NFeaturesIn == 0 && len(doc.FeatureNamesIn) == 0 {
		doc.NFeaturesIn = len(doc.Coef)
	}
	input, err := newInputSpec(name, doc.header)
	if err != nil {
		return nil, err
	}
	if len(doc.Coef) != input.nFeatures {
		return nil, fmt.Errorf("linear regression has %d coefficients for %d features", len(doc.Coef), input.nFeatures)
	}
	return &LinearRegressor{input: input, coef: doc.Coef, intercept: doc.Intercept}, nil
}

// Predict implements features.Model.
func (m *LinearRegressor) Predict(_ context.Context, row features.FeatureRow) (float64, error) {
	x, err := m.input.prepare(row)
	if err != nil {
		return 0, err
	}
	y := m.intercept
	for i, c := range m.coef {
		y += c * x[i]
	}
	return y, nil
}
