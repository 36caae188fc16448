// Package metrics publishes prediction and API telemetry to CloudWatch.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"spacetraffic/internal/types"
)

// publishTimeout bounds PutMetricData calls made outside a request context.
const publishTimeout = 2 * time.Second

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchRecorder emits metrics to AWS CloudWatch.
//
// Metrics emitted:
//   - PredictionCount: Dims {Model, Outcome} on every submission
//   - PredictionLatency: Dims {Model} in milliseconds
//   - APIRequestCount: Dims {Method, Endpoint, Status}
//   - APILatency: Dims {Method, Endpoint} in milliseconds
//
// Publish failures are logged and otherwise ignored.
type CloudWatchRecorder struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchRecorder creates a recorder publishing to namespace. An empty
// namespace falls back to types.MetricNamespace.
func NewCloudWatchRecorder(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchRecorder {
	if namespace == "" {
		namespace = types.MetricNamespace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchRecorder{client: client, namespace: namespace, logger: logger}
}

// RecordPrediction emits the count and latency of one submission.
func (m *CloudWatchRecorder) RecordPrediction(ctx context.Context, model string, outcome types.Outcome, duration time.Duration) {
	modelDim := dimension(types.DimModel, model)
	m.put(ctx, "prediction",
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricPredictionCount),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{modelDim, dimension(types.DimOutcome, string(outcome))},
		},
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricPredictionLatency),
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       cwtypes.StandardUnitMilliseconds,
			Dimensions: []cwtypes.Dimension{modelDim},
		},
	)
}

// RecordRequest emits API request count and latency.
func (m *CloudWatchRecorder) RecordRequest(method, endpoint, status string, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	methodDim := dimension(types.DimMethod, method)
	endpointDim := dimension(types.DimEndpoint, endpoint)
	m.put(ctx, "request",
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricAPIRequestCount),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{methodDim, endpointDim, dimension(types.DimStatus, status)},
		},
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricAPILatency),
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       cwtypes.StandardUnitMilliseconds,
			Dimensions: []cwtypes.Dimension{methodDim, endpointDim},
		},
	)
}

func (m *CloudWatchRecorder) put(ctx context.Context, kind string, data ...cwtypes.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record metric",
			"error", err.Error(),
			"kind", kind,
		)
	}
}

func dimension(name, value string) cwtypes.Dimension {
	return cwtypes.Dimension{Name: aws.String(name), Value: aws.String(value)}
}

// NopRecorder discards all metrics.
type NopRecorder struct{}

func (NopRecorder) RecordPrediction(context.Context, string, types.Outcome, time.Duration) {}

func (NopRecorder) RecordRequest(string, string, string, time.Duration) {}
