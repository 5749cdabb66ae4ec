package model

import (
	"errors"
	"fmt"
)

// ErrModelMismatch is returned when an Instance is passed to a descriptor it
// does not conform to.
var ErrModelMismatch = errors.New("model: instance does not conform to this descriptor")

// DeclarationError is returned when a shape declares an invalid combination
// of fields, types, or constraints. It aborts registration.
type DeclarationError struct {
	Table   string
	Message string
}

// Error returns the error message for DeclarationError.
func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declare %s: %s", e.Table, e.Message)
}

// DuplicateNameError is returned when a model is registered under a table
// name that is already taken.
type DuplicateNameError struct {
	Table string
}

// Error returns the error message for DuplicateNameError.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("table %q is already registered", e.Table)
}

// UnknownModelError is returned when a lookup names a model that has not
// been registered.
type UnknownModelError struct {
	Table string
}

// Error returns the error message for UnknownModelError.
func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("no model registered for table %q", e.Table)
}

// EncodeError is returned when a field value cannot be encoded for the
// database, tagged with the owning model and field.
type EncodeError struct {
	Table string
	Field string
	Cause error
}

// Error returns the error message for EncodeError.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s.%s: %v", e.Table, e.Field, e.Cause)
}

// Unwrap returns the underlying cause of the EncodeError.
func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// DecodeError is returned when a raw column value cannot be decoded into a
// field's Go representation, tagged with the owning model and field.
type DecodeError struct {
	Table string
	Field string
	Cause error
}

// Error returns the error message for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s.%s: %v", e.Table, e.Field, e.Cause)
}

// Unwrap returns the underlying cause of the DecodeError.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ArityError is returned when a row's value count does not match a model's
// field count.
type ArityError struct {
	Table string
	Want  int
	Got   int
}

// Error returns the error message for ArityError.
func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d values, got %d", e.Table, e.Want, e.Got)
}
