package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultObjectFlags(t *testing.T) {
	flags := DefaultObjectFlags()

	require.Len(t, flags, len(ObjectTypes))
	assert.True(t, flags[ObjectSpaceStation])
	assert.Equal(t, []ObjectType{ObjectSpaceStation}, flags.Selected())
}

func TestObjectFlags_CloneIsIndependent(t *testing.T) {
	flags := DefaultObjectFlags()
	clone := flags.Clone()
	clone[ObjectSatellite] = true

	assert.False(t, flags[ObjectSatellite])
}

func TestObjectType_Column(t *testing.T) {
	assert.Equal(t, "Object_Type_Space Debris", ObjectSpaceDebris.Column())
	assert.True(t, ObjectScientificProbe.IsValid())
	assert.False(t, ObjectType("Comet").IsValid())
}

func TestDate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		date    Date
		wantErr bool
	}{
		{"lower year bound", Date{2000, 1, 1}, false},
		{"upper year bound", Date{2100, 12, 31}, false},
		{"year below range", Date{1999, 6, 1}, true},
		{"year above range", Date{2101, 6, 1}, true},
		{"month zero", Date{2024, 0, 1}, true},
		{"month thirteen", Date{2024, 13, 1}, true},
		{"day zero", Date{2024, 1, 0}, true},
		{"day thirty two", Date{2024, 1, 32}, true},
		{"february thirty first is lenient", Date{2023, 2, 31}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.date.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, ErrCodeValidationInvalidDate, appErr.Code)
		})
	}
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2024-10-21", Date{2024, 10, 21}.String())
}

func TestPredictionRequest_Validate(t *testing.T) {
	valid := PredictionRequest{
		Model:       "Linear Regression",
		Location:    "Mars Orbit",
		Date:        Date{2024, 10, 21},
		ObjectFlags: DefaultObjectFlags(),
	}
	require.NoError(t, valid.Validate())

	t.Run("missing model", func(t *testing.T) {
		r := valid
		r.Model = ""
		var appErr *AppError
		require.True(t, errors.As(r.Validate(), &appErr))
		assert.Equal(t, ErrCodeValidationMissingField, appErr.Code)
	})

	t.Run("missing location", func(t *testing.T) {
		r := valid
		r.Location = ""
		var appErr *AppError
		require.True(t, errors.As(r.Validate(), &appErr))
		assert.Equal(t, "location", appErr.Details["field"])
	})

	t.Run("unknown object type", func(t *testing.T) {
		r := valid
		r.ObjectFlags = ObjectFlags{"Comet": true}
		var appErr *AppError
		require.True(t, errors.As(r.Validate(), &appErr))
		assert.Equal(t, ErrCodeValidationInvalidObjectType, appErr.Code)
	})
}
