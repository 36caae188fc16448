package core

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"spacetraffic/internal/types"
)

// dateFields are the JSON names whose violations are reported as
// validation_invalid_date.
var dateFields = map[string]struct{}{"year": {}, "month": {}, "day": {}}

// Validator wraps go-playground/validator with the domain tags registered:
//
//	object_type  the string is one of types.ObjectTypes
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator. Field names in errors use the json tag.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("object_type", validateObjectType); err != nil {
		logger.Error("failed to register validation", "tag", "object_type", "error", err)
	}

	return &Validator{validate: v, logger: logger}
}

func validateObjectType(fl validator.FieldLevel) bool {
	return types.ObjectType(fl.Field().String()).IsValid()
}

// ValidateStruct validates s and converts the first violation into an
// AppError. Every violated field is listed under details["fields"].
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		v.logger.Error("struct validation could not run", "error", err)
		return types.NewAppError(types.ErrCodeInternalUnexpected, "an unexpected error occurred", err)
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fieldName(fe)
	}

	first := verrs[0]
	return types.NewAppErrorWithDetails(
		errorCode(first),
		message(first),
		err,
		map[string]any{
			"field":      fieldName(first),
			"constraint": first.Tag(),
			"fields":     fields,
		},
	)
}

// fieldName returns the json field name, keeping map keys such as
// object_types[Comet].
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func errorCode(fe validator.FieldError) types.ErrorCode {
	if _, ok := dateFields[fe.Field()]; ok {
		return types.ErrCodeValidationInvalidDate
	}
	switch fe.Tag() {
	case "required":
		return types.ErrCodeValidationMissingField
	case "object_type":
		return types.ErrCodeValidationInvalidObjectType
	default:
		return types.ErrCodeValidationFailed
	}
}

func message(fe validator.FieldError) string {
	name := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "object_type":
		return fmt.Sprintf("unknown object type %q", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}
