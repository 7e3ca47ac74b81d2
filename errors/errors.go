package errors

import "fmt"

// ParseError reports malformed input. Reading is all-or-nothing, so a
// ParseError is always the only error of a failed parse and no partial
// tree accompanies it.
//
// Err is set when the input could not be read to the end; Message then
// already includes it.
type ParseError struct {
	Message string
	Line    int
	Column  int
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fleetxml: parsing error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
