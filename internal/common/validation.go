package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joseph-ayodele/intern-tracker/constants"
)

// Validator wraps go-playground/validator with the project's custom tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that reports json field names and knows the
// "candidate_status" tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("candidate_status", func(fl validator.FieldLevel) bool {
		return constants.CandidateStatus(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Struct validates s and returns an AppError wrapping ErrValidation on failure.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return NewAppError("VALIDATION_ERROR", FormatValidationErrors(err), ErrValidation)
	}
	return nil
}

// FormatValidationErrors turns validator errors into "field: rule" pairs.
func FormatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "candidate_status":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(constants.StatusValues(), ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
