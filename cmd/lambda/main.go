// Package main is the Lambda entrypoint for single predictions.
//
// The function receives a prediction input as its event payload and returns
// the prediction with its display message, or an error payload carrying the
// same code and user-facing text the HTTP API would return. Artifacts are
// loaded during cold start; a load failure exits the process.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"spacetraffic/internal/bootstrap"
	"spacetraffic/internal/config"
	"spacetraffic/internal/prediction"
	"spacetraffic/internal/types"
)

// Response is the function result. Exactly one of Prediction or Error is set.
type Response struct {
	Prediction *float64      `json:"prediction,omitempty"`
	Message    string        `json:"message"`
	Model      string        `json:"model,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	Error      *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload mirrors the HTTP error envelope.
type ErrorPayload struct {
	Code    string         `json:"code"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// Handler adapts prediction.Service to the Lambda runtime.
type Handler struct {
	service prediction.Submitter
	logger  *slog.Logger
}

// Handle runs one submission. Prediction failures are reported in the
// response body; the returned error is reserved for runtime problems.
func (h *Handler) Handle(ctx context.Context, in prediction.Input) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	res, err := h.service.Submit(ctx, in)
	if err != nil {
		appErr := types.ToAppError(err)
		h.logger.Info("prediction rejected", "code", appErr.Code, "model", in.Model)
		return Response{
			Message: prediction.UserMessage(err),
			Model:   in.Model,
			Error: &ErrorPayload{
				Code:    string(appErr.Code),
				Status:  appErr.HTTPStatus(),
				Details: appErr.Details,
			},
		}, nil
	}

	value := res.Prediction
	return Response{
		Prediction: &value,
		Message:    res.Message,
		Model:      res.Model,
		RequestID:  res.ID.String(),
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("prediction Lambda initializing (cold start)", "version", cfg.Build.Version)

	rt, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize predictor", "error", err)
		os.Exit(1)
	}

	h := &Handler{service: rt.Service, logger: logger}
	lambda.Start(h.Handle)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
