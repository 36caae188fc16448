package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraffic/internal/artifacts"
	"spacetraffic/internal/core"
	"spacetraffic/internal/features"
	"spacetraffic/internal/prediction"
	"spacetraffic/internal/types"
)

type mockCatalog struct{}

func (mockCatalog) Describe() []artifacts.ModelInfo {
	return []artifacts.ModelInfo{
		{Name: artifacts.ModelRandomForest, Source: "artifact", Default: true},
		{Name: artifacts.ModelLinear, Source: "artifact"},
	}
}

func (mockCatalog) Locations() []string {
	return []string{"Asteroid Belt", "Earth Orbit", "Lunar Orbit", "Mars Orbit", "Venus Orbit"}
}

type mockService struct {
	calls    int
	received prediction.Input
	submitFn func(prediction.Input) (*prediction.Result, error)
}

func (m *mockService) Submit(_ context.Context, in prediction.Input) (*prediction.Result, error) {
	m.calls++
	m.received = in
	return m.submitFn(in)
}

func newTestRouter(svc PredictionService) http.Handler {
	h := NewPredictionHandler(mockCatalog{}, svc, nil, slog.Default())
	r := chi.NewRouter()
	r.Route("/v1", h.RegisterRoutes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleListModels(t *testing.T) {
	rec := do(t, newTestRouter(nil), http.MethodGet, "/v1/models", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []artifacts.ModelInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, artifacts.ModelRandomForest, resp.Data[0].Name)
	assert.True(t, resp.Data[0].Default)
}

func TestHandleListLocations(t *testing.T) {
	rec := do(t, newTestRouter(nil), http.MethodGet, "/v1/locations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":{"locations":["Asteroid Belt","Earth Orbit","Lunar Orbit","Mars Orbit","Venus Orbit"]}}`,
		rec.Body.String())
}

func TestHandleListObjectTypes(t *testing.T) {
	rec := do(t, newTestRouter(nil), http.MethodGet, "/v1/object-types", "")

	var resp struct {
		Data []ObjectTypeInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 6)
	assert.Equal(t, "Asteroid Mining Ship", resp.Data[0].Label)
	assert.Equal(t, ObjectTypeInfo{Label: "Space Station", Column: "Object_Type_Space Station", Default: true}, resp.Data[5])
	for _, ot := range resp.Data[:5] {
		assert.False(t, ot.Default, ot.Label)
	}
}

func TestHandleGetSchema(t *testing.T) {
	rec := do(t, newTestRouter(nil), http.MethodGet, "/v1/schema", "")

	var resp struct {
		Data SchemaInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, features.SpaceTrafficSchema.Columns(), resp.Data.Columns)
	assert.Equal(t, "Location_Encoded", resp.Data.Columns[0])
}

func TestHandleCreatePrediction_Success(t *testing.T) {
	svc := &mockService{submitFn: func(in prediction.Input) (*prediction.Result, error) {
		return &prediction.Result{
			ID:         uuid.New(),
			Model:      in.Model,
			Prediction: 12.345,
			Message:    prediction.SuccessMessage(12.345),
		}, nil
	}}
	body := `{"model":"Linear Regression","location":"Mars Orbit","year":2024,"month":10,"day":21,"object_types":{"Satellite":true}}`

	rec := do(t, newTestRouter(svc), http.MethodPost, "/v1/predictions", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Data prediction.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Predicted Traffic Density: 12.35", resp.Data.Message)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, map[string]bool{"Satellite": true}, svc.received.ObjectTypes)
}

func TestHandleCreatePrediction_RejectsBeforeService(t *testing.T) {
	tests := []struct {
		name string
		body string
		code types.ErrorCode
	}{
		{"malformed", `{"model":`, types.ErrCodeValidationInvalidJSON},
		{"unknown field", `{"model":"x","colour":"red"}`, types.ErrCodeValidationInvalidJSON},
		{"missing model", `{"location":"Mars Orbit","year":2024,"month":1,"day":1}`, types.ErrCodeValidationMissingField},
		{"year out of range", `{"model":"m","location":"Mars Orbit","year":2101,"month":1,"day":1}`, types.ErrCodeValidationInvalidDate},
		{"bad object type", `{"model":"m","location":"Mars Orbit","year":2024,"month":1,"day":1,"object_types":{"Comet":true}}`, types.ErrCodeValidationInvalidObjectType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := do(t, newTestRouter(svc), http.MethodPost, "/v1/predictions", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp core.APIErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Error.Code)
			assert.Equal(t, 0, svc.calls)
		})
	}
}

func TestHandleCreatePrediction_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    types.ErrorCode
		message string
	}{
		{
			"unknown location",
			&types.EncodingError{Field: "location", Value: "Unknown Station"},
			http.StatusBadRequest, types.ErrCodeValidationUnknownLocation,
			"Error encoding location:",
		},
		{
			"schema mismatch",
			&types.SchemaMismatchError{Model: "SVR", Reason: "X has 10 features, but SVR is expecting 8 features as input"},
			http.StatusUnprocessableEntity, types.ErrCodeSchemaFeatureMismatch,
			"Prediction Error:",
		},
		{
			"artifact",
			&types.ArtifactLoadError{Path: "model/SVR.json", Kind: "model", Err: errors.New("no such file")},
			http.StatusInternalServerError, types.ErrCodeInternalArtifactLoad,
			"Error loading model:",
		},
		{
			"remote",
			types.NewAppError(types.ErrCodeUpstreamModel, "model server returned 503", nil),
			http.StatusBadGateway, types.ErrCodeUpstreamModel,
			"Prediction Error: model server returned 503",
		},
	}
	body := `{"model":"m","location":"Mars Orbit","year":2024,"month":10,"day":21}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{submitFn: func(prediction.Input) (*prediction.Result, error) { return nil, tt.err }}
			rec := do(t, newTestRouter(svc), http.MethodPost, "/v1/predictions", body)

			assert.Equal(t, tt.status, rec.Code)
			var resp core.APIErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Error.Code)
			assert.True(t, strings.HasPrefix(resp.Error.Message, tt.message), resp.Error.Message)
		})
	}
}
