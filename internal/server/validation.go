package server

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/loan-quote/pkg/validation"
)

// FieldError is one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Details   []FieldError `json:"details,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// toFieldErrors maps validator and domain errors to readable field messages.
func toFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]FieldError, 0, len(ve))
		for _, e := range ve {
			out = append(out, FieldError{Field: e.Field(), Message: tagMessage(e)})
		}
		return out
	}

	inputErrs := validation.InputErrors(err)
	if len(inputErrs) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(inputErrs))
	for _, e := range inputErrs {
		out = append(out, FieldError{Field: e.Field, Message: e.Reason})
	}
	return out
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "alpha":
		return "must contain letters only"
	case "datetime":
		return "must be a month formatted as " + e.Param()
	default:
		return e.Tag() + " validation failed"
	}
}
