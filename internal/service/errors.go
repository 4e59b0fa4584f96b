package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/arredo/backoffice-api/internal/repository"
	"gorm.io/gorm"
)

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when login fails. It does not say which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDealClosed is returned when a stage change targets a won or lost deal
	ErrDealClosed = errors.New("deal is closed")

	// ErrInvalidStage is returned for unknown stages or stages a move cannot reach
	ErrInvalidStage = errors.New("invalid stage")

	// ErrCategoryInUse is returned when deleting a category that sales or budgets still reference
	ErrCategoryInUse = errors.New("category is in use")
)

// ValidationError carries field-level messages. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// translate maps persistence errors to service errors, wrapping anything else with the action
func translate(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDealLocked):
		return ErrDealClosed
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
