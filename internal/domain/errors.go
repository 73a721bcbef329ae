package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientData is returned when a computation has no data to work on
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDimensionMismatch is returned when series and weights do not line up
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ValidationError reports an invalid input field
type ValidationError struct {
	Field   string
	Message string
	Err     error // Optional underlying sentinel, e.g. ErrDimensionMismatch
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any validation error
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DimensionMismatch wraps ErrDimensionMismatch in a ValidationError
func DimensionMismatch(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrDimensionMismatch,
	}
}

// InsufficientData wraps ErrInsufficientData with context
func InsufficientData(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInsufficientData)
}
