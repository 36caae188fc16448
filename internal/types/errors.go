package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All handlers MUST use these constants instead of hardcoded strings.
const (
	// Validation (400)
	ErrCodeValidationInvalidJSON       ErrorCode = "validation_invalid_json"
	ErrCodeValidationMissingField      ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidDate       ErrorCode = "validation_invalid_date"
	ErrCodeValidationUnknownLocation   ErrorCode = "validation_unknown_location"
	ErrCodeValidationUnknownModel      ErrorCode = "validation_unknown_model"
	ErrCodeValidationInvalidObjectType ErrorCode = "validation_invalid_object_type"
	ErrCodeValidationFailed            ErrorCode = "validation_failed"

	// Not found (404) / Method not allowed (405)
	ErrCodeNotFoundRoute    ErrorCode = "not_found_route"
	ErrCodeMethodNotAllowed ErrorCode = "method_not_allowed"

	// Schema (422)
	ErrCodeSchemaFeatureMismatch ErrorCode = "schema_feature_mismatch"

	// Conflict (409)
	ErrCodeConflictSubmission ErrorCode = "conflict_submission_in_progress"

	// Internal/Upstream (500/502)
	ErrCodeInternalArtifactLoad      ErrorCode = "internal_artifact_load_failed"
	ErrCodeInternalInvalidPrediction ErrorCode = "internal_invalid_prediction"
	ErrCodeInternalUnexpected        ErrorCode = "internal_unexpected_error"
	ErrCodeUpstreamModel             ErrorCode = "upstream_model_unavailable"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound // 404
	case c == ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed // 405
	case strings.HasPrefix(s, "conflict_"):
		return http.StatusConflict // 409
	case strings.HasPrefix(s, "schema_"):
		return http.StatusUnprocessableEntity // 422
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway // 502
	case strings.HasPrefix(s, "internal_"):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type.
// All handler errors are expressed as AppError to get consistent formatting,
// HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// EncodingError reports a categorical value outside the encoder vocabulary.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("y contains previously unseen label %q for %s", e.Value, e.Field)
}

// SchemaMismatchError reports a feature row that does not fit what a model
// was trained on. Expected and Got are column names when the model carries
// them; otherwise only the counts are meaningful.
type SchemaMismatchError struct {
	Model    string
	Expected []string
	Got      []string
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model %q: %s", e.Model, e.Reason)
	}
	return e.Reason
}

// ArtifactLoadError reports a model or encoder artifact that could not be
// read or decoded.
type ArtifactLoadError struct {
	Path string
	Kind string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("loading %s artifact %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("loading artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// ToAppError converts any error into an AppError. AppErrors already in the
// chain are returned as-is; the domain error types map to their codes; anything
// else becomes internal_unexpected_error.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var encErr *EncodingError
	if errors.As(err, &encErr) {
		return NewAppErrorWithDetails(
			ErrCodeValidationUnknownLocation,
			encErr.Error(),
			err,
			map[string]any{"field": encErr.Field, "value": encErr.Value},
		)
	}

	var schemaErr *SchemaMismatchError
	if errors.As(err, &schemaErr) {
		details := map[string]any{}
		if schemaErr.Model != "" {
			details["model"] = schemaErr.Model
		}
		if len(schemaErr.Expected) > 0 {
			details["expected"] = schemaErr.Expected
		}
		if len(schemaErr.Got) > 0 {
			details["got"] = schemaErr.Got
		}
		return NewAppErrorWithDetails(ErrCodeSchemaFeatureMismatch, schemaErr.Error(), err, details)
	}

	var loadErr *ArtifactLoadError
	if errors.As(err, &loadErr) {
		return NewAppErrorWithDetails(
			ErrCodeInternalArtifactLoad,
			"model artifact could not be loaded",
			err,
			map[string]any{"artifact": loadErr.Path},
		)
	}

	return NewAppError(ErrCodeInternalUnexpected, "an unexpected error occurred", err)
}
