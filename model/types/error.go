package types

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every error that rejects a pass before it starts.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports malformed demand or developer input. Rule names the
// failed check so that callers can surface it to users.
type ValidationError struct {
	Entity string
	ID     int
	Field  string
	Rule   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s %d: %s", e.Entity, e.ID, e.Rule)
	}
	return fmt.Sprintf("invalid %s %d: %s %s", e.Entity, e.ID, e.Field, e.Rule)
}

// Is makes the error match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a validation error
func NewValidationError(entity string, id int, field, rule string) error {
	return &ValidationError{Entity: entity, ID: id, Field: field, Rule: rule}
}

// InvalidCapacityError is returned when a developer starts a pass with negative capacity.
type InvalidCapacityError struct {
	DeveloperID int
	Hours       float64
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("invalid capacity for developer %d: hoursAvailable %v must be >= 0", e.DeveloperID, e.Hours)
}

// Is makes the error match ErrInvalidInput.
func (e *InvalidCapacityError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Rule returns the validation rule carried by err, or an empty string.
func Rule(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field == "" {
			return validationErr.Rule
		}
		return validationErr.Field + " " + validationErr.Rule
	}
	var capacityErr *InvalidCapacityError
	if errors.As(err, &capacityErr) {
		return "hoursAvailable must be >= 0"
	}
	return ""
}
