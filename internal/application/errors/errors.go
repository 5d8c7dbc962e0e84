// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"

	"github.com/reglet-dev/profilecache/internal/domain/values"
)

// ValidationError indicates a profile field or admission rule rejected a value.
type ValidationError struct {
	Cause   error  // Underlying field or rule error
	Field   string // Field that failed validation
	Message string // Error message
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ProfileNotFoundError indicates no live profile is cached under a username.
type ProfileNotFoundError struct {
	Username string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile not found: %s", e.Username)
}

// NewProfileNotFoundError creates a new not-found error.
func NewProfileNotFoundError(username string) *ProfileNotFoundError {
	return &ProfileNotFoundError{Username: username}
}

// DuplicateProfileError indicates a live profile already holds a username.
type DuplicateProfileError struct {
	Username   string
	ExistingID values.ProfileID
}

func (e *DuplicateProfileError) Error() string {
	return fmt.Sprintf("profile %s already exists (id %s)", e.Username, e.ExistingID)
}

// NewDuplicateProfileError creates a new duplicate error.
func NewDuplicateProfileError(username string, existing values.ProfileID) *DuplicateProfileError {
	return &DuplicateProfileError{
		Username:   username,
		ExistingID: existing,
	}
}

// ImportError records why one seed in a batch import was not created.
type ImportError struct {
	Cause    error
	Username string
	Index    int
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed for seed %d (%s): %v", e.Index, e.Username, e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// NewImportError creates a new import error.
func NewImportError(index int, username string, cause error) *ImportError {
	return &ImportError{
		Index:    index,
		Username: username,
		Cause:    cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
