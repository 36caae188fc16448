// Package core provides the HTTP chassis for the space traffic API. It
// builds a chi router, applies the cross-cutting middleware (recovery,
// timeouts, request ids, logging, CORS, metrics), and hosts the health and
// OpenAPI endpoints. Domain handlers register themselves under /v1.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spacetraffic/internal/config"
)

// MetricsCollector records API request telemetry.
type MetricsCollector interface {
	// RecordRequest records one request. Endpoint is the route pattern.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// Server holds the dependencies of the HTTP API.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator
	Metrics   MetricsCollector

	// HealthProbes are run by GET /health.
	HealthProbes []HealthProbe
	// V1RouteRegistrars mount domain routes under /v1. Populated by main to
	// keep core free of handler imports.
	V1RouteRegistrars []func(chi.Router)
	// OpenAPI is served at GET /openapi.json when set.
	OpenAPI json.Marshaler

	router *chi.Mux
}

// NewServer validates the required dependencies and prepares an empty router.
// Callers set the optional fields and then call MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases server resources. The HTTP listener itself is stopped by
// the caller via http.Server.Shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Info("server shutdown complete")
	return nil
}
