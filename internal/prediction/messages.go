package prediction

import (
	"errors"
	"fmt"

	"spacetraffic/internal/types"
)

// OutcomeOf classifies a submission error; nil is success.
func OutcomeOf(err error) types.Outcome {
	if err == nil {
		return types.OutcomeSuccess
	}

	var (
		encErr    *types.EncodingError
		schemaErr *types.SchemaMismatchError
		loadErr   *types.ArtifactLoadError
		appErr    *types.AppError
	)
	switch {
	case errors.As(err, &encErr):
		return types.OutcomeEncodingError
	case errors.As(err, &schemaErr):
		return types.OutcomeSchemaMismatch
	case errors.As(err, &loadErr):
		return types.OutcomeArtifactError
	case errors.As(err, &appErr) && appErr.HTTPStatus() == 400:
		return types.OutcomeInvalidInput
	default:
		return types.OutcomeFailure
	}
}

// UserMessage returns the text shown to the user for a failed submission.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		encErr    *types.EncodingError
		schemaErr *types.SchemaMismatchError
		loadErr   *types.ArtifactLoadError
		appErr    *types.AppError
	)
	switch {
	case errors.As(err, &encErr):
		return fmt.Sprintf("Error encoding location: %v. Ensure the input data matches the training data locations.", encErr)
	case errors.As(err, &schemaErr):
		return fmt.Sprintf("Prediction Error: %v. Ensure the input matches the training data schema.", schemaErr)
	case errors.As(err, &loadErr):
		return fmt.Sprintf("Error loading model: %v", loadErr.Err)
	case errors.As(err, &appErr):
		if appErr.HTTPStatus() == 400 {
			return appErr.Message
		}
		return fmt.Sprintf("Prediction Error: %s.", appErr.Message)
	default:
		return fmt.Sprintf("Prediction Error: %v.", err)
	}
}

// Fatal reports whether err leaves nothing useful to do in an interactive
// session.
func Fatal(err error) bool {
	var loadErr *types.ArtifactLoadError
	return errors.As(err, &loadErr)
}
