// Package model defines the core data types for pro-forma projections.
package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for projection inputs. Callers match them with errors.Is.
var (
	ErrMissingField        = errors.New("missing required field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrInsufficientHistory = errors.New("insufficient historical data")
)

// FieldError ties a sentinel error to the assumption or column that caused it.
type FieldError struct {
	Field  string
	Err    error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v: %q: %s", e.Err, e.Field, e.Detail)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// ErrorKind returns a short machine-readable name for a projection error,
// or "internal" if err is not one of the sentinels above.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	default:
		return "internal"
	}
}

// ErrorField returns the offending field name carried by err, if any.
func ErrorField(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
