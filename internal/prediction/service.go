package prediction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

// ModelSource resolves models by display name and exposes the location
// encoder. *artifacts.Registry satisfies it.
type ModelSource interface {
	Model(ctx context.Context, name string) (features.Model, error)
	Encoder() features.CategoryEncoder
}

// Recorder receives one call per submission.
type Recorder interface {
	RecordPrediction(ctx context.Context, model string, outcome types.Outcome, duration time.Duration)
}

// Result is a successful prediction.
type Result struct {
	ID         uuid.UUID           `json:"id"`
	Model      string              `json:"model"`
	Prediction float64             `json:"prediction"`
	Message    string              `json:"message"`
	Features   map[string]float64  `json:"features"`
	Row        features.FeatureRow `json:"-"`
}

// Service performs submissions against a ModelSource. It holds no state
// between calls.
type Service struct {
	source   ModelSource
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a Service. A nil recorder disables metrics.
func NewService(source ModelSource, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:   source,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit converts and validates in, then runs Predict.
func (s *Service) Submit(ctx context.Context, in Input) (*Result, error) {
	req, err := in.ToRequest()
	if err != nil {
		s.record(ctx, in.Model, types.OutcomeInvalidInput, 0)
		return nil, err
	}
	return s.Predict(ctx, req)
}

// Predict runs one submission: resolve model, encode location, build row,
// predict. A failure at any step stops the pipeline; an unknown location
// never reaches the model.
func (s *Service) Predict(ctx context.Context, req types.PredictionRequest) (*Result, error) {
	start := s.now()
	result, err := s.predict(ctx, req)
	elapsed := s.now().Sub(start)

	outcome := OutcomeOf(err)
	s.record(ctx, req.Model, outcome, elapsed)

	attrs := []any{
		"request_id", types.GetRequestID(ctx),
		"model", req.Model,
		"location", req.Location,
		"date", req.Date.String(),
		"outcome", string(outcome),
		"duration_ms", elapsed.Milliseconds(),
	}
	switch outcome {
	case types.OutcomeSuccess:
		s.logger.Info("prediction completed", append(attrs, "prediction", result.Prediction)...)
	case types.OutcomeArtifactError, types.OutcomeFailure:
		s.logger.Error("prediction failed", append(attrs, "error", err)...)
	default:
		s.logger.Warn("prediction rejected", append(attrs, "error", err)...)
	}
	return result, err
}

func (s *Service) predict(ctx context.Context, req types.PredictionRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model, err := s.source.Model(ctx, req.Model)
	if err != nil {
		return nil, err
	}
	code, err := features.EncodeLocation(req.Location, s.source.Encoder())
	if err != nil {
		return nil, err
	}
	row := features.BuildFeatureRow(req, code)

	value, err := features.Predict(ctx, row, model)
	if err != nil {
		var schemaErr *types.SchemaMismatchError
		if errors.As(err, &schemaErr) && schemaErr.Model == "" {
			schemaErr.Model = req.Model
		}
		return nil, err
	}

	return &Result{
		ID:         uuid.New(),
		Model:      req.Model,
		Prediction: value,
		Message:    SuccessMessage(value),
		Features:   row.Map(),
		Row:        row,
	}, nil
}

func (s *Service) record(ctx context.Context, model string, outcome types.Outcome, d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordPrediction(ctx, model, outcome, d)
	}
}

// SuccessMessage formats a prediction for display.
func SuccessMessage(value float64) string {
	return fmt.Sprintf("Predicted Traffic Density: %.2f", value)
}
