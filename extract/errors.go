package extract

import (
	"errors"
	"fmt"

	"github.com/KimNorgaard/go-fleetxml/tree"
)

// DuplicateError reports a requested child element that occurs more than
// once. Element is the second occurrence.
type DuplicateError struct {
	Element *tree.Element
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("fleetxml: duplicate element <%s>", e.Element.Name)
}

// DuplicateAttrError reports a requested attribute that occurs more than
// once on the same element. Attr is the second occurrence.
type DuplicateAttrError struct {
	Attr tree.Attr
}

func (e *DuplicateAttrError) Error() string {
	return fmt.Sprintf("fleetxml: duplicate attribute %s", e.Attr.Name)
}

// MissingError reports a required child element or attribute that is absent.
type MissingError struct {
	Name   string
	Parent string // name of the element that was searched, if known
	Attr   bool
}

func (e *MissingError) Error() string {
	what := "element"
	if e.Attr {
		what = "attribute"
	}
	if e.Parent == "" {
		return fmt.Sprintf("fleetxml: missing %s %s", what, e.Name)
	}
	return fmt.Sprintf("fleetxml: missing %s %s in <%s>", what, e.Name, e.Parent)
}

// NameError reports an element whose name differs from the fixed name
// expected at its position.
type NameError struct {
	Want    string
	Element *tree.Element
}

func (e *NameError) Error() string {
	return fmt.Sprintf("fleetxml: expected element <%s>, got <%s>", e.Want, e.Element.Name)
}

// CountError reports a fixed-arity extraction over the wrong number of
// elements.
type CountError struct {
	Want int
	Got  int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("fleetxml: expected %d element(s), got %d", e.Want, e.Got)
}

// UnexpectedElementError reports an element where only text is allowed.
type UnexpectedElementError struct {
	Element *tree.Element
}

func (e *UnexpectedElementError) Error() string {
	return fmt.Sprintf("fleetxml: unexpected element <%s> where text was expected", e.Element.Name)
}

// UnexpectedTextError reports non-blank text where only elements are allowed.
type UnexpectedTextError struct {
	Text string
}

func (e *UnexpectedTextError) Error() string {
	return fmt.Sprintf("fleetxml: unexpected text %q where elements were expected", e.Text)
}

// IsStructural reports whether err, or any error it wraps, describes a tree
// shape that does not match the expected one, as opposed to a value that
// failed to parse.
func IsStructural(err error) bool {
	var (
		dup    *DuplicateError
		dupA   *DuplicateAttrError
		miss   *MissingError
		name   *NameError
		count  *CountError
		unexEl *UnexpectedElementError
		unexTx *UnexpectedTextError
	)
	return errors.As(err, &dup) ||
		errors.As(err, &dupA) ||
		errors.As(err, &miss) ||
		errors.As(err, &name) ||
		errors.As(err, &count) ||
		errors.As(err, &unexEl) ||
		errors.As(err, &unexTx)
}
