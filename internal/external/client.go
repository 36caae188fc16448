// Package external provides the boundary between the prediction pipeline and
// model servers reached over HTTP. All outbound calls go through BaseClient,
// which applies the circuit breaker, request id propagation, and error
// mapping.
package external

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"spacetraffic/internal/types"
)

// BreakerSettings returns the breaker configuration used for inference
// endpoints.
func BreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	}
}

// BaseClient wraps an *http.Client and a circuit breaker. Each call is a
// single attempt.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewBaseClient creates a BaseClient with its own breaker named breakerName.
func NewBaseClient(httpClient *http.Client, breakerName, userAgent string) *BaseClient {
	return NewBaseClientWithBreaker(
		httpClient,
		gobreaker.NewCircuitBreaker[*http.Response](BreakerSettings(breakerName)),
		userAgent,
	)
}

// NewBaseClientWithBreaker creates a BaseClient with a caller-provided breaker.
func NewBaseClientWithBreaker(
	httpClient *http.Client,
	breaker *gobreaker.CircuitBreaker[*http.Response],
	userAgent string,
) *BaseClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BaseClient{
		client:    httpClient,
		breaker:   breaker,
		userAgent: userAgent,
	}
}

// Do executes req through the breaker. Responses below 500 are returned as-is
// and the caller closes the body. Transport failures, 5xx responses, and an
// open breaker are returned as upstream_model_unavailable AppErrors.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if id := types.GetRequestID(req.Context()); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if r.StatusCode >= 500 {
			return r, fmt.Errorf("upstream returned %d", r.StatusCode)
		}
		return r, nil
	})
	if err == nil {
		return resp, nil
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
		resp.Body.Close()
	}
	return nil, mapError(status, err)
}

func mapError(status int, err error) *types.AppError {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return types.NewAppError(
			types.ErrCodeUpstreamModel,
			"circuit breaker is open; model server unavailable",
			err,
		)
	case status >= 500:
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamModel,
			fmt.Sprintf("model server returned %d", status),
			err,
			map[string]any{"status": status},
		)
	default:
		return types.NewAppError(types.ErrCodeUpstreamModel, "model server request failed", err)
	}
}
