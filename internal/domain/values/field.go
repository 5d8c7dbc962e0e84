package values

import (
	"fmt"
	"strings"
)

// Validator checks a candidate value and returns the value that should be stored.
type Validator[T any] func(T) (T, error)

// FieldBinding ties a field name to the validator that guards every write to it.
// A binding is created once per field of a record type and shared by all
// instances of that type. It never changes after construction.
type FieldBinding[T any] struct {
	validator Validator[T]
	name      string
}

// BindField creates the binding for a field.
// It panics on an empty name or nil validator; bindings are declared at
// package level, so either case is a programming error.
func BindField[T any](name string, validator Validator[T]) *FieldBinding[T] {
	if strings.TrimSpace(name) == "" {
		panic("values: field binding requires a name")
	}
	if validator == nil {
		panic(fmt.Sprintf("values: field %q bound without a validator", name))
	}
	return &FieldBinding[T]{name: name, validator: validator}
}

// Name returns the bound field name.
func (b *FieldBinding[T]) Name() string {
	return b.name
}

// Validate runs the bound validator without storing anything.
func (b *FieldBinding[T]) Validate(value T) (T, error) {
	accepted, err := b.validator(value)
	if err != nil {
		var zero T
		return zero, &FieldError{Field: b.name, Value: value, Err: err}
	}
	return accepted, nil
}

// Assign validates value and, only if it passes, stores the validator's result in dst.
// On failure dst keeps its previous value.
func (b *FieldBinding[T]) Assign(dst *T, value T) error {
	accepted, err := b.Validate(value)
	if err != nil {
		return err
	}
	*dst = accepted
	return nil
}
