package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidateStruct validates a struct using go-playground/validator and
// returns one error covering every failed field.
func ValidateStruct(s interface{}) error {
	if s == nil {
		return nil
	}

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("validator: expected a struct, got %T", s)
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		msgs := make([]string, 0, len(ve))
		for _, e := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return fmt.Errorf("validation failed: %w", err)
}

// FieldErrors extracts structured per-field errors for API responses.
func FieldErrors(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		out = append(out, FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: fmt.Sprintf("failed '%s' validation", e.Tag()),
		})
	}
	return out
}
