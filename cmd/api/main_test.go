package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"spacetraffic/internal/bootstrap"
	"spacetraffic/internal/config"
	"spacetraffic/internal/core"
)

// buildTestServer wires the server against the sample artifacts in model/.
func buildTestServer(t *testing.T) *core.Server {
	t.Helper()
	setTestEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	rt, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("bootstrap.New: %v", err)
	}

	srv, err := buildServer(cfg, logger, rt)
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health: got status %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if status := resp["status"]; status != "healthy" {
		t.Errorf("GET /health: got status=%v, want 'healthy'", status)
	}
}

func TestOpenAPIEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /openapi.json: got status %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "/v1/predictions") {
		t.Errorf("GET /openapi.json: document does not describe /v1/predictions")
	}
}

func TestPredictionEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	body := `{"model":"Linear Regression","location":"Lunar Orbit","year":2030,"month":4,"day":12}`
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/predictions: got status %d; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Predicted Traffic Density: ") {
		t.Errorf("POST /v1/predictions: missing message in %s", rec.Body.String())
	}
}

func TestPredictionEndpoint_UnknownLocation(t *testing.T) {
	srv := buildTestServer(t)

	body := `{"model":"Linear Regression","location":"Pluto","year":2030,"month":4,"day":12}`
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST /v1/predictions: got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Error encoding location") {
		t.Errorf("POST /v1/predictions: unexpected body %s", rec.Body.String())
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		t.Run(level, func(t *testing.T) {
			if logger := newLogger(level); logger == nil {
				t.Fatalf("newLogger(%q) returned nil", level)
			}
		})
	}
}

// setTestEnv points the config at the checked-in sample artifacts.
func setTestEnv(t *testing.T) {
	t.Helper()

	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ARTIFACT_DIR", "../../model")
	t.Setenv("MODEL_CATALOG", "catalog.yaml")
	t.Setenv("PRELOAD_MODELS", "true")
	t.Setenv("METRICS_ENABLED", "false")
}
