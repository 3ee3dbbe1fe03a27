package config

import (
	"errors"
	"fmt"
)

// ErrInvalid indicates a configuration value fails validation.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Field is the setting that failed validation.
	Field string
	// Message describes the validation error.
	Message string
	// Value is the invalid value, if any.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
