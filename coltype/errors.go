package coltype

import "fmt"

// EncodeError is returned when a Go value lies outside a column type's
// domain, such as a string longer than a VARCHAR limit or a label not in an
// enum's set.
type EncodeError struct {
	// Type is the DDL fragment of the column type that rejected the value.
	Type string
	// Value is the rejected value.
	Value any
	// Cause describes why the value was rejected.
	Cause error
}

// Error returns the error message for EncodeError.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Type, e.Cause)
}

// Unwrap returns the underlying cause of the EncodeError.
func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// DecodeError is returned when a database-returned value cannot be parsed
// into a column type's Go representation, such as a malformed timestamp.
type DecodeError struct {
	// Type is the DDL fragment of the column type that rejected the value.
	Type string
	// Value is the raw value that could not be decoded.
	Value any
	// Cause describes why decoding failed.
	Cause error
}

// Error returns the error message for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Type, e.Cause)
}

// Unwrap returns the underlying cause of the DecodeError.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
