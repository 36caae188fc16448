package types

import "fmt"

// Input surface bounds for the prediction date.
const (
	MinYear  = 2000
	MaxYear  = 2100
	MinMonth = 1
	MaxMonth = 12
	MinDay   = 1
	MaxDay   = 31
)

// Date is a calendar date split into the three numeric fields the models
// consume. The day is not checked against the month length: 2024-02-31 is a
// valid Date.
type Date struct {
	Year  int `json:"year" validate:"min=2000,max=2100"`
	Month int `json:"month" validate:"min=1,max=12"`
	Day   int `json:"day" validate:"min=1,max=31"`
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Validate enforces the input surface bounds on each field independently.
func (d Date) Validate() error {
	if d.Year < MinYear || d.Year > MaxYear {
		return NewAppErrorWithDetails(ErrCodeValidationInvalidDate,
			fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear), nil,
			map[string]any{"field": "year", "value": d.Year})
	}
	if d.Month < MinMonth || d.Month > MaxMonth {
		return NewAppErrorWithDetails(ErrCodeValidationInvalidDate,
			fmt.Sprintf("month must be between %d and %d", MinMonth, MaxMonth), nil,
			map[string]any{"field": "month", "value": d.Month})
	}
	if d.Day < MinDay || d.Day > MaxDay {
		return NewAppErrorWithDetails(ErrCodeValidationInvalidDate,
			fmt.Sprintf("day must be between %d and %d", MinDay, MaxDay), nil,
			map[string]any{"field": "day", "value": d.Day})
	}
	return nil
}

// ObjectFlags records which object types are present. Missing keys are false.
type ObjectFlags map[ObjectType]bool

// DefaultObjectFlags returns the form defaults: Space Station on, the rest off.
func DefaultObjectFlags() ObjectFlags {
	flags := make(ObjectFlags, len(ObjectTypes))
	for _, t := range ObjectTypes {
		flags[t] = false
	}
	flags[ObjectSpaceStation] = true
	return flags
}

// Clone returns an independent copy of the flags.
func (f ObjectFlags) Clone() ObjectFlags {
	out := make(ObjectFlags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Selected returns the enabled object types in column order.
func (f ObjectFlags) Selected() []ObjectType {
	var out []ObjectType
	for _, t := range ObjectTypes {
		if f[t] {
			out = append(out, t)
		}
	}
	return out
}

// PredictionRequest is the explicit value built once per submission.
// It carries everything the feature builder reads; nothing else is consulted.
type PredictionRequest struct {
	Model       string
	Location    string
	Date        Date
	ObjectFlags ObjectFlags
}

// Validate checks the input-surface constraints. Location vocabulary and model
// names are checked later against the loaded artifacts.
func (r PredictionRequest) Validate() error {
	if r.Model == "" {
		return NewAppErrorWithDetails(ErrCodeValidationMissingField, "model is required", nil,
			map[string]any{"field": "model"})
	}
	if r.Location == "" {
		return NewAppErrorWithDetails(ErrCodeValidationMissingField, "location is required", nil,
			map[string]any{"field": "location"})
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	for t := range r.ObjectFlags {
		if !t.IsValid() {
			return NewAppErrorWithDetails(ErrCodeValidationInvalidObjectType,
				fmt.Sprintf("unknown object type %q", string(t)), nil,
				map[string]any{"field": "object_types", "value": string(t)})
		}
	}
	return nil
}
