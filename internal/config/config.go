// Package config defines the process configuration for the space traffic
// services. Configuration is loaded once at startup from the environment
// (optionally seeded from a .env file) and is immutable thereafter.
//
// Any invalid value fails startup.
package config

import "time"

// Config is the top-level configuration struct.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"OTEL_SERVICE_NAME" default:"spacetraffic"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server        ServerConfig
	Models        ModelConfig
	Remote        RemoteConfig
	AWS           AWSConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s" validate:"gt=0"`
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ModelConfig locates the model artifacts.
type ModelConfig struct {
	// ArtifactDir is the base for relative artifact paths.
	ArtifactDir string `envconfig:"ARTIFACT_DIR" default:"model" validate:"required"`
	// Catalog is an optional YAML manifest; empty uses the built-in catalog.
	Catalog         string `envconfig:"MODEL_CATALOG"`
	EncoderArtifact string `envconfig:"ENCODER_ARTIFACT" default:"label_encoder.json" validate:"required"`
	Preload         bool   `envconfig:"PRELOAD_MODELS" default:"true"`
}

// RemoteConfig configures HTTP-served models.
type RemoteConfig struct {
	Timeout   time.Duration `envconfig:"REMOTE_MODEL_TIMEOUT" default:"5s" validate:"gt=0"`
	UserAgent string        `envconfig:"REMOTE_MODEL_USER_AGENT" default:"SpaceTraffic-Inference/1.0"`
}

// AWSConfig holds regional configuration for the CloudWatch client.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL" validate:"omitempty,url"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	MetricsEnabled  bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"SpaceTraffic"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrDotenv indicates an explicitly requested .env file could not be read.
	ErrDotenv ConfigErrorType = "DOTENV_FAILED"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
