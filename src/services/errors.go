package services

import (
	"errors"
	"strings"
)

// Sentinel errors for explicit error handling.
// Callers distinguish failure modes with errors.Is instead of string matching.
var (
	// ErrValidation indicates a malformed or out-of-range input
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated indicates a missing, invalid or expired token
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrForbidden indicates a valid identity without the required role
	ErrForbidden = errors.New("admin access required")

	// ErrNotFound indicates the target record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness constraint could not be satisfied
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// FieldError describes one invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field problems; it matches ErrValidation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// validator accumulates field errors
type validator struct {
	fields []FieldError
}

func (v *validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
