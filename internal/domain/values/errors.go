package values

import (
	"errors"
	"fmt"
)

// Validation error kinds. Validators wrap one of these so callers can
// classify a failure with errors.Is regardless of the detail message.
var (
	// ErrInvalidUsername indicates an empty, whitespace-only, or malformed username.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidLastLogin indicates an unusable last-login timestamp.
	ErrInvalidLastLogin = errors.New("invalid last login")
)

// FieldError reports a rejected write to a bound field.
type FieldError struct {
	Value any
	Err   error
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
