// Package bootstrap builds the runtime pieces shared by every binary: the
// artifact registry, the metrics recorder, and the prediction service.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"spacetraffic/internal/artifacts"
	"spacetraffic/internal/config"
	"spacetraffic/internal/core"
	"spacetraffic/internal/external"
	"spacetraffic/internal/metrics"
	"spacetraffic/internal/prediction"
)

// Recorder is both the prediction and the HTTP request recorder.
type Recorder interface {
	prediction.Recorder
	core.MetricsCollector
}

// Runtime is the assembled prediction stack.
type Runtime struct {
	Registry *artifacts.Registry
	Recorder Recorder
	Service  *prediction.Service
}

// New opens the registry, builds the recorder, and wires the service. When
// Models.Preload is set every model is loaded before New returns.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	registry, err := OpenRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Models.Preload {
		if err := registry.Preload(ctx); err != nil {
			return nil, fmt.Errorf("preloading models: %w", err)
		}
	}

	recorder, err := NewRecorder(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Registry: registry,
		Recorder: recorder,
		Service:  prediction.NewService(registry, recorder, logger),
	}, nil
}

// OpenRegistry reads the catalog named by MODEL_CATALOG, or uses the bundled
// catalog, and opens it against the artifact directory.
func OpenRegistry(cfg *config.Config, logger *slog.Logger) (*artifacts.Registry, error) {
	catalog := artifacts.DefaultCatalog()
	if cfg.Models.Catalog != "" {
		path := cfg.Models.Catalog
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Models.ArtifactDir, path)
		}
		loaded, err := artifacts.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}

	return artifacts.Open(artifacts.Options{
		Catalog:     catalog,
		BaseDir:     cfg.Models.ArtifactDir,
		EncoderPath: cfg.Models.EncoderArtifact,
		Remote:      external.RemoteFactory(cfg.Remote.Timeout, cfg.Remote.UserAgent),
		Logger:      logger,
	})
}

// NewRecorder returns a CloudWatch recorder when metrics are enabled and a
// no-op recorder otherwise.
func NewRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Recorder, error) {
	if !cfg.Observability.MetricsEnabled {
		return metrics.NopRecorder{}, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
		if cfg.AWS.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.EndpointURL)
		}
	})
	logger.Info("cloudwatch metrics enabled", "namespace", cfg.Observability.MetricNamespace)
	return metrics.NewCloudWatchRecorder(client, cfg.Observability.MetricNamespace, logger), nil
}
