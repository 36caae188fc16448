// Package prediction runs a single submission end to end: it validates the
// inputs, resolves the model, encodes the location, builds the feature row,
// and runs one inference call.
package prediction

import (
	"fmt"

	"spacetraffic/internal/types"
)

// Input is the submission as received from a front-end. ObjectTypes maps
// object type labels to their toggle state. When nil the form defaults apply;
// when present, absent labels are off.
type Input struct {
	Model       string          `json:"model" validate:"required"`
	Location    string          `json:"location" validate:"required"`
	Year        int             `json:"year" validate:"min=2000,max=2100"`
	Month       int             `json:"month" validate:"min=1,max=12"`
	Day         int             `json:"day" validate:"min=1,max=31"`
	ObjectTypes map[string]bool `json:"object_types,omitempty" validate:"omitempty,dive,keys,object_type,endkeys"`
}

// ToRequest converts the input into a validated PredictionRequest.
func (in Input) ToRequest() (types.PredictionRequest, error) {
	flags := types.DefaultObjectFlags()
	if in.ObjectTypes != nil {
		flags = make(types.ObjectFlags, len(types.ObjectTypes))
		for _, t := range types.ObjectTypes {
			flags[t] = false
		}
		for label, on := range in.ObjectTypes {
			t := types.ObjectType(label)
			if !t.IsValid() {
				return types.PredictionRequest{}, types.NewAppErrorWithDetails(
					types.ErrCodeValidationInvalidObjectType,
					fmt.Sprintf("unknown object type %q", label),
					nil,
					map[string]any{"field": "object_types", "value": label},
				)
			}
			flags[t] = on
		}
	}

	req := types.PredictionRequest{
		Model:       in.Model,
		Location:    in.Location,
		Date:        types.Date{Year: in.Year, Month: in.Month, Day: in.Day},
		ObjectFlags: flags,
	}
	if err := req.Validate(); err != nil {
		return types.PredictionRequest{}, err
	}
	return req, nil
}

// InputFromRequest is the inverse of ToRequest, used to prefill a form with a
// previous submission.
func InputFromRequest(req types.PredictionRequest) Input {
	objects := make(map[string]bool, len(types.ObjectTypes))
	for _, t := range types.ObjectTypes {
		objects[string(t)] = req.ObjectFlags[t]
	}
	return Input{
		Model:       req.Model,
		Location:    req.Location,
		Year:        req.Date.Year,
		Month:       req.Date.Month,
		Day:         req.Date.Day,
		ObjectTypes: objects,
	}
}
