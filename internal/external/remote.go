package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"spacetraffic/internal/artifacts"
	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

// maxResponseSize bounds the body read from a model server.
const maxResponseSize = 1 << 20

type inferenceRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type inferenceResponse struct {
	Predictions []float64 `json:"predictions"`
}

type inferenceError struct {
	Error    string   `json:"error"`
	Expected []string `json:"expected,omitempty"`
}

// RemoteModel is a features.Model evaluated by an HTTP inference service.
type RemoteModel struct {
	name     string
	endpoint string
	client   *BaseClient
}

// NewRemoteModel returns a model that POSTs rows to endpoint.
func NewRemoteModel(name, endpoint string, client *BaseClient) *RemoteModel {
	return &RemoteModel{name: name, endpoint: endpoint, client: client}
}

// RemoteFactory returns an artifacts.RemoteFactory whose models share one
// HTTP client. Each endpoint gets its own breaker.
func RemoteFactory(timeout time.Duration, userAgent string) artifacts.RemoteFactory {
	httpClient := &http.Client{Timeout: timeout}
	return func(entry artifacts.CatalogEntry) (features.Model, error) {
		if entry.Endpoint == "" {
			return nil, fmt.Errorf("model %q has no endpoint", entry.Name)
		}
		client := NewBaseClient(httpClient, "model:"+entry.Name, userAgent)
		return NewRemoteModel(entry.Name, entry.Endpoint, client), nil
	}
}

// Name returns the catalog display name.
func (m *RemoteModel) Name() string { return m.name }

// Predict sends a single-row batch and returns the first prediction. A 422
// from the server is reported as *types.SchemaMismatchError.
func (m *RemoteModel) Predict(ctx context.Context, row features.FeatureRow) (float64, error) {
	body, err := json.Marshal(inferenceRequest{
		Columns: row.Columns(),
		Rows:    [][]float64{row.Values},
	})
	if err != nil {
		return 0, fmt.Errorf("encoding inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeUpstreamModel, "reading model server response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var e inferenceError
		_ = json.Unmarshal(data, &e)
		reason := e.Error
		if reason == "" {
			reason = "model server rejected the feature row"
		}
		return 0, &types.SchemaMismatchError{
			Model:    m.name,
			Expected: e.Expected,
			Got:      row.Columns(),
			Reason:   reason,
		}
	case resp.StatusCode != http.StatusOK:
		return 0, types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamModel,
			fmt.Sprintf("model server returned %d", resp.StatusCode),
			nil,
			map[string]any{"status": resp.StatusCode},
		)
	}

	var out inferenceResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, types.NewAppError(types.ErrCodeUpstreamModel, "model server returned malformed JSON", err)
	}
	if len(out.Predictions) != 1 {
		return 0, types.NewAppError(
			types.ErrCodeUpstreamModel,
			fmt.Sprintf("model server returned %d predictions for 1 row", len(out.Predictions)),
			nil,
		)
	}
	if v := out.Predictions[0]; math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, types.NewAppError(types.ErrCodeInternalInvalidPrediction, "model server returned a non-finite value", nil)
	}
	return out.Predictions[0], nil
}
