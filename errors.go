package fleetxml

import (
	"fmt"
	"reflect"
)

// A MarshalerError represents an error from calling a MarshalTree or
// MarshalText method.
type MarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *MarshalerError) Error() string {
	return "fleetxml: error calling MarshalTree for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnmarshalerError represents an error returned by an UnmarshalTree
// method. The record's own error is kept intact and reachable through
// errors.As.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "fleetxml: error calling UnmarshalTree for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }

// ScalarError reports text that is present but does not follow the
// grammar of the scalar type it is decoded into.
type ScalarError struct {
	Type reflect.Type
	Text string
	Err  error
}

func (e *ScalarError) Error() string {
	return fmt.Sprintf("fleetxml: cannot decode %q into Go value of type %s: %v", e.Text, e.Type, e.Err)
}

func (e *ScalarError) Unwrap() error { return e.Err }

// WhitespaceError is returned when the text of an element begins or ends
// with whitespace. Reading trims element text, so such a value would not
// decode back to itself.
type WhitespaceError struct {
	Name string
	Text string
}

func (e *WhitespaceError) Error() string {
	return fmt.Sprintf("fleetxml: cannot encode %q as <%s>: leading or trailing whitespace is not preserved", e.Text, e.Name)
}

// FieldError locates a decode or encode failure at a struct field. Nested
// records produce a chain of FieldErrors ending in the original cause.
type FieldError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Type.String() + "." + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }
