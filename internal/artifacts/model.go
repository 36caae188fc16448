package artifacts

import (
	"encoding/json"
	"fmt"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

// LoadModel reads the regressor artifact at path. name is the display name
// used in schema mismatch reports.
func LoadModel(name, path string) (features.Model, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, loadError(path, "model", err)
	}
	model, err := DecodeModel(name, data)
	if err != nil {
		return nil, loadError(path, "model", err)
	}
	return model, nil
}

// DecodeModel decodes an in-memory regressor artifact.
func DecodeModel(name string, data []byte) (features.Model, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}

	switch types.ModelKind(h.Kind) {
	case types.ModelKindLinear:
		return decodeLinear(name, data)
	case types.ModelKindForest:
		return decodeForest(name, data)
	case types.ModelKindSVR:
		return decodeSVR(name, data)
	case "":
		return nil, fmt.Errorf("artifact has no kind")
	default:
		return nil, fmt.Errorf("unsupported model kind %q", h.Kind)
	}
}

// ModelKindOf reports the kind of a model loaded by this package.
func ModelKindOf(m features.Model) types.ModelKind {
	switch m.(type) {
	case *LinearRegressor:
		return types.ModelKindLinear
	case *ForestRegressor:
		return types.ModelKindForest
	case *SupportVectorRegressor:
		return types.ModelKindSVR
	default:
		return types.ModelKindRemote
	}
}
