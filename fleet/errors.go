package fleet

import (
	"errors"

	fxerrors "github.com/KimNorgaard/go-fleetxml/errors"
	"github.com/KimNorgaard/go-fleetxml/extract"
)

// Kind classifies why a fleet file could not be loaded or saved.
type Kind int

const (
	// KindParse means the input is not well-formed markup.
	KindParse Kind = iota + 1
	// KindStructure means an expected element or attribute is missing,
	// duplicated or misplaced.
	KindStructure
	// KindSemantic means content is present but invalid, such as a
	// malformed number or an unknown xsi:type.
	KindSemantic
	// KindWrite means the fleet could not be encoded or written.
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindStructure:
		return "structure"
	case KindSemantic:
		return "semantic"
	case KindWrite:
		return "write"
	}
	return "unknown"
}

// Error is returned by Load and Save. The underlying chain stays
// reachable through errors.As.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return "fleet: " + e.Kind.String() + " error: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(err error) *Error {
	var pe *fxerrors.ParseError
	switch {
	case errors.As(err, &pe):
		return &Error{Kind: KindParse, Err: err}
	case extract.IsStructural(err):
		return &Error{Kind: KindStructure, Err: err}
	}
	return &Error{Kind: KindSemantic, Err: err}
}
