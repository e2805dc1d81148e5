// Package apperrors defines the error kinds shared between the storage
// layer, the services and the HTTP handlers. Repositories and the write
// gateway wrap store errors with these sentinels; handlers branch on them
// with errors.Is / errors.As to pick a status code.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound marks a lookup by identifier that matched no row.
	ErrNotFound = errors.New("record not found")

	// ErrConstraint marks a write the store rejected due to a uniqueness
	// or foreign-key constraint, after the transaction rolled back.
	ErrConstraint = errors.New("constraint violation")

	// ErrInvalidCredentials is returned for both an unknown username and
	// a wrong password, so login responses cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports field-level problems with caller-supplied data.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, reason))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
