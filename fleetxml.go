package fleetxml

import (
	"bytes"

	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Marshaler is the interface implemented by types that build their own
// element. MarshalTree must return an element named name.
type Marshaler interface {
	MarshalTree(name string) (*tree.Element, error)
}

// Unmarshaler is the interface implemented by types that decode
// themselves from an element. The element belongs to the receiver from
// then on.
type Unmarshaler interface {
	UnmarshalTree(el *tree.Element) error
}

// Parse reads a document and returns its top-level nodes.
func Parse(data []byte, opts ...Option) (tree.Nodes, error) {
	return NewDecoder(bytes.NewReader(data), opts...).Tree()
}

// Unmarshal parses the document in data and stores the result in the
// value pointed to by v.
//
// The root element must be named after the type of v: the result of its
// ElementName method if it has one, its Go type name otherwise. Struct
// fields map to child elements of the same name, or to attributes when
// tagged `tree:",attr"`. A missing field is an error unless the field is
// a pointer or is tagged omitempty or nillable. A child element with
// xsi:nil="true" leaves a nillable field at its zero value. Slices and
// arrays map to an element whose children are all named after the item
// type, or after the item= tag option. A sequence element without items
// decodes to a nil slice, so an empty non-nil slice comes back as nil.
// Children with unknown names are ignored; a mapped name that occurs
// twice is an error.
//
// Element text is trimmed of surrounding whitespace; attribute values
// are not.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}

// Marshal returns the document encoding of v.
//
// The root element is named as described for Unmarshal and carries the
// xmlns:xsd and xmlns:xsi declarations. Fields are written in declaration
// order. Nil pointers are left out, or written as xsi:nil="true" when
// the field is tagged nillable. Nil and empty slices are both written as
// an empty element. Element text with leading or trailing whitespace is
// rejected with a *WhitespaceError.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
