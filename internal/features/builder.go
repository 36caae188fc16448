package features

import (
	"context"
	"errors"
	"fmt"
	"math"

	"spacetraffic/internal/types"
)

// CategoryEncoder maps a fixed vocabulary of labels to integer codes.
type CategoryEncoder interface {
	// Classes returns the known labels in code order.
	Classes() []string
	// Transform returns the code for a known label or a *types.EncodingError.
	Transform(label string) (int, error)
}

// Model is a trained regressor.
type Model interface {
	Predict(ctx context.Context, row FeatureRow) (float64, error)
}

// EncodeLocation returns the encoder's code for location. Any failure is
// reported as a *types.EncodingError.
func EncodeLocation(location string, encoder CategoryEncoder) (int, error) {
	code, err := encoder.Transform(location)
	if err != nil {
		var encErr *types.EncodingError
		if errors.As(err, &encErr) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", &types.EncodingError{Field: "location", Value: location}, err)
	}
	if code < 0 {
		return 0, &types.EncodingError{Field: "location", Value: location}
	}
	return code, nil
}

// BuildFeatureRow lays out a request in SpaceTrafficSchema order. Flags become
// 0 or 1. The date is copied as-is.
func BuildFeatureRow(req types.PredictionRequest, locationCode int) FeatureRow {
	values := make([]float64, 0, SpaceTrafficSchema.Len())
	values = append(values,
		float64(locationCode),
		float64(req.Date.Year),
		float64(req.Date.Month),
		float64(req.Date.Day),
	)
	for _, t := range types.ObjectTypes {
		values = append(values, boolToFloat(req.ObjectFlags[t]))
	}
	return FeatureRow{Schema: SpaceTrafficSchema, Values: values}
}

// Predict runs exactly one inference call for row.
func Predict(ctx context.Context, row FeatureRow, model Model) (float64, error) {
	if len(row.Values) != row.Schema.Len() {
		return 0, &types.SchemaMismatchError{
			Expected: row.Schema.Columns(),
			Reason:   fmt.Sprintf("row has %d values for %d columns", len(row.Values), row.Schema.Len()),
		}
	}

	value, err := model.Predict(ctx, row)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, types.NewAppError(types.ErrCodeInternalInvalidPrediction,
			"model returned a non-finite prediction", nil)
	}
	return value, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
