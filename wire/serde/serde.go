// Package serde defines the structured error values generated serializers
// return to their callers. These are runtime contracts of the generated code,
// not generator defects: callers are expected to handle them.
package serde

import "fmt"

// SerializationError wraps a failure encountered while serializing a value,
// such as a timestamp that cannot be rendered in the wire format.
type SerializationError struct {
	Err error
}

// Error describes the wrapped failure.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization failed: %v", e.Err)
}

// Unwrap returns the wrapped failure.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// UnknownUnionVariantError reports an attempt to serialize a union value
// whose variant was not known at generation time.
type UnknownUnionVariantError struct {
	Union string
}

// Error names the union.
func (e *UnknownUnionVariantError) Error() string {
	return fmt.Sprintf("cannot serialize unknown variant of union %s", e.Union)
}
