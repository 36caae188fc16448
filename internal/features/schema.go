// Package features turns a prediction request into the fixed-order numeric
// row the regression models were trained on, and runs one prediction.
package features

import (
	"slices"

	"spacetraffic/internal/types"
)

// Column names shared by every space traffic model.
const (
	ColumnLocationEncoded = "Location_Encoded"
	ColumnYear            = "Year"
	ColumnMonth           = "Month"
	ColumnDay             = "Day"
)

// FeatureSchema is a named, ordered list of feature columns. The order is the
// contract with the trained models and must not change at runtime.
type FeatureSchema struct {
	name    string
	columns []string
	index   map[string]int
}

// NewFeatureSchema builds a schema from ordered column names.
func NewFeatureSchema(name string, columns ...string) FeatureSchema {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return FeatureSchema{
		name:    name,
		columns: slices.Clone(columns),
		index:   index,
	}
}

// SpaceTrafficSchema is the column layout the space traffic models expect.
var SpaceTrafficSchema = NewFeatureSchema("space_traffic_v1",
	ColumnLocationEncoded,
	ColumnYear,
	ColumnMonth,
	ColumnDay,
	types.ObjectAsteroidMiningShip.Column(),
	types.ObjectMannedSpacecraft.Column(),
	types.ObjectSatellite.Column(),
	types.ObjectScientificProbe.Column(),
	types.ObjectSpaceDebris.Column(),
	types.ObjectSpaceStation.Column(),
)

// Name returns the schema identifier.
func (s FeatureSchema) Name() string { return s.name }

// Columns returns a copy of the ordered column names.
func (s FeatureSchema) Columns() []string { return slices.Clone(s.columns) }

// Len returns the number of columns.
func (s FeatureSchema) Len() int { return len(s.columns) }

// Index returns the position of a column, or -1 if the schema lacks it.
func (s FeatureSchema) Index(column string) int {
	if i, ok := s.index[column]; ok {
		return i
	}
	return -1
}

// Equal reports whether the schema has exactly the given columns in order.
func (s FeatureSchema) Equal(columns []string) bool {
	return slices.Equal(s.columns, columns)
}

// FeatureRow is one record laid out according to Schema.
type FeatureRow struct {
	Schema FeatureSchema
	Values []float64
}

// Columns returns the row's column names in order.
func (r FeatureRow) Columns() []string { return r.Schema.Columns() }

// Value returns the value of a named column.
func (r FeatureRow) Value(column string) (float64, bool) {
	i := r.Schema.Index(column)
	if i < 0 || i >= len(r.Values) {
		return 0, false
	}
	return r.Values[i], true
}

// Map returns the row as column -> value.
func (r FeatureRow) Map() map[string]float64 {
	out := make(map[string]float64, len(r.Values))
	for i, c := range r.Schema.columns {
		if i < len(r.Values) {
			out[c] = r.Values[i]
		}
	}
	return out
}
