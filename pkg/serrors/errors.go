package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Base is a coded error suitable for API payloads.
type Base struct {
	Code    string
	Message string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) *Base {
	return &Base{Code: code, Message: message}
}

// ValidationErrors maps struct field names to human-readable messages.
type ValidationErrors map[string]string

// ProcessValidatorErrors flattens validator.ValidationErrors into a
// field -> message map.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, err := range errs {
		switch err.Tag() {
		case "required":
			out[err.Field()] = fmt.Sprintf("%s is required", err.Field())
		case "email":
			out[err.Field()] = fmt.Sprintf("%s must be a valid email", err.Field())
		case "oneof":
			out[err.Field()] = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		default:
			out[err.Field()] = fmt.Sprintf("%s is invalid", err.Field())
		}
	}
	return out
}

// First returns an arbitrary-but-stable first message for compact API errors.
func (v ValidationErrors) First(fields ...string) string {
	for _, f := range fields {
		if msg, ok := v[f]; ok {
			return msg
		}
	}
	for _, msg := range v {
		return msg
	}
	return "validation failed"
}
