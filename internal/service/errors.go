package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the services. Handlers translate them into
// HTTP status codes; everything else maps to a 500.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	ErrForbidden     = errors.New("operation not allowed")
	ErrSelfFollow    = errors.New("cannot follow yourself")
)

// ValidationError is the collected multi-field report produced by the recipe
// validation pipeline. Keys are payload field names, values are the
// human-readable messages for every rule the field violated.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message to the given field's violation list.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any violation was collected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
