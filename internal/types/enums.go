package types

// ObjectType is one of the space object categories the models were trained
// against. Each one contributes a one-hot column to the feature row.
type ObjectType string

const (
	ObjectAsteroidMiningShip ObjectType = "Asteroid Mining Ship"
	ObjectMannedSpacecraft   ObjectType = "Manned Spacecraft"
	ObjectSatellite          ObjectType = "Satellite"
	ObjectScientificProbe    ObjectType = "Scientific Probe"
	ObjectSpaceDebris        ObjectType = "Space Debris"
	ObjectSpaceStation       ObjectType = "Space Station"
)

// ObjectTypes lists every object type in training column order.
var ObjectTypes = []ObjectType{
	ObjectAsteroidMiningShip,
	ObjectMannedSpacecraft,
	ObjectSatellite,
	ObjectScientificProbe,
	ObjectSpaceDebris,
	ObjectSpaceStation,
}

// IsValid reports whether t is one of the known object types.
func (t ObjectType) IsValid() bool {
	for _, known := range ObjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Column returns the one-hot column name for the object type.
func (t ObjectType) Column() string {
	return "Object_Type_" + string(t)
}

// ModelKind identifies how a model artifact computes its prediction.
type ModelKind string

const (
	ModelKindLinear ModelKind = "linear_regression"
	ModelKindForest ModelKind = "random_forest"
	ModelKindSVR    ModelKind = "svr"
	ModelKindRemote ModelKind = "remote"
)

// Outcome classifies how a submission ended, for logs and metrics.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeEncodingError  Outcome = "encoding_error"
	OutcomeSchemaMismatch Outcome = "schema_mismatch"
	OutcomeArtifactError  Outcome = "artifact_error"
	OutcomeInvalidInput   Outcome = "invalid_input"
	OutcomeFailure        Outcome = "failure"
)

// Metric names and dimensions published by the metrics recorder.
const (
	MetricNamespace         = "SpaceTraffic"
	MetricPredictionCount   = "PredictionCount"
	MetricPredictionLatency = "PredictionLatency"
	MetricAPIRequestCount   = "APIRequestCount"
	MetricAPILatency        = "APILatency"

	DimModel    = "Model"
	DimOutcome  = "Outcome"
	DimMethod   = "Method"
	DimEndpoint = "Endpoint"
	DimStatus   = "Status"
)
