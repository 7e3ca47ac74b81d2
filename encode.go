package fleetxml

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/KimNorgaard/go-fleetxml/internal/formatter"
	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Namespace declarations written on the root element of every document.
const (
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

// NilAttr marks an element as an explicit null.
const NilAttr = "xsi:nil"

// Encoder writes documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the document encoding of v to the stream. See Marshal.
func (e *Encoder) Encode(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return fmt.Errorf("fleetxml: cannot encode nil value")
	}
	name, err := rootName(rv.Type())
	if err != nil {
		return err
	}
	root, err := Encode(name, v)
	if err != nil {
		return err
	}
	attrs := tree.Attributes{
		{Name: "xmlns:xsd", Value: XSDNamespace},
		{Name: "xmlns:xsi", Value: XSINamespace},
	}
	root.Attrs = append(attrs, root.Attrs...)
	return e.EncodeTree(tree.Nodes{root})
}

// EncodeTree writes nodes to the stream as a document. Names are checked
// for validity and text is escaped. Nothing is written if the tree
// contains an invalid name or character.
func (e *Encoder) EncodeTree(nodes tree.Nodes) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := formatter.New(&buf, o.formatterOptions()).Format(nodes); err != nil {
		return err
	}
	_, err = e.w.Write(buf.Bytes())
	return err
}

// Encode builds the element named name that holds v, following the same
// rules as Marshal. No namespace declarations are added.
//
// Encode is meant for MarshalTree implementations that hand parts of
// their value back to the default mapping.
func Encode(name string, v any) (*tree.Element, error) {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() != reflect.Pointer {
		// Copy into addressable storage so that pointer receivers are found.
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		rv = pv.Elem()
	}
	es := &encodeState{}
	return es.encode(name, rv, "")
}

type encodeState struct {
	attr bool // encoding the value of an attribute field
}

func (es *encodeState) encode(name string, v reflect.Value, item string) (*tree.Element, error) { //nolint:gocyclo
	if !v.IsValid() {
		return nil, fmt.Errorf("fleetxml: cannot encode nil value as <%s>", name)
	}

	if el, handled, err := es.tryCustomMarshal(name, v); handled || err != nil {
		return el, err
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, fmt.Errorf("fleetxml: cannot encode nil %s as <%s>", v.Type(), name)
		}
		return es.encode(name, v.Elem(), item)
	case reflect.Struct:
		return es.encodeStruct(name, v)
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 && v.Kind() == reflect.Slice {
			break
		}
		return es.encodeSequence(name, v, item)
	}

	text, err := scalarText(v)
	if err != nil {
		return nil, err
	}
	return es.textElement(name, text)
}

// tryCustomMarshal uses Marshaler or encoding.TextMarshaler when v or a
// pointer to it implements one of them.
func (es *encodeState) tryCustomMarshal(name string, v reflect.Value) (*tree.Element, bool, error) {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, false, nil
	}

	if m, ok := asInterface[Marshaler](v); ok {
		el, err := m.MarshalTree(name)
		if err != nil {
			return nil, true, &MarshalerError{Type: v.Type(), Err: err}
		}
		if el == nil || el.Name != name {
			return nil, true, &MarshalerError{Type: v.Type(), Err: fmt.Errorf("MarshalTree did not return an element named <%s>", name)}
		}
		return el, true, nil
	}

	if m, ok := asInterface[encoding.TextMarshaler](v); ok {
		text, err := m.MarshalText()
		if err != nil {
			return nil, true, &MarshalerError{Type: v.Type(), Err: err}
		}
		el, err := es.textElement(name, string(text))
		return el, true, err
	}

	return nil, false, nil
}

// asInterface returns v, or a pointer to v when v is addressable, as T.
func asInterface[T any](v reflect.Value) (T, bool) {
	if v.CanInterface() {
		if m, ok := v.Interface().(T); ok {
			return m, true
		}
	}
	if v.Kind() != reflect.Pointer && v.CanAddr() && v.Addr().CanInterface() {
		m, ok := v.Addr().Interface().(T)
		return m, ok
	}
	var zero T
	return zero, false
}

// textElement returns an element holding s. Empty text gives an empty
// element.
//
// Element text is trimmed when read, so text with leading or trailing
// whitespace is rejected. Attribute values are kept as written.
func (es *encodeState) textElement(name, s string) (*tree.Element, error) {
	if s == "" {
		return tree.NewElement(name), nil
	}
	if !es.attr && strings.TrimSpace(s) != s {
		return nil, &WhitespaceError{Name: name, Text: s}
	}
	return tree.NewText(name, s), nil
}

func (es *encodeState) encodeStruct(name string, v reflect.Value) (*tree.Element, error) {
	t := v.Type()
	el := &tree.Element{Name: name}
	for _, f := range cachedFields(t).list {
		fv := v.FieldByIndex(f.idx)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if (fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface) && fv.IsNil() {
			if f.nillable && !f.attr {
				el.Children = append(el.Children, tree.NewElement(f.name).WithAttr(NilAttr, "true"))
			}
			continue
		}

		es.attr = f.attr
		child, err := es.encode(f.name, fv, f.item)
		es.attr = false
		if err != nil {
			return nil, &FieldError{Type: t, Field: f.name, Err: err}
		}
		if f.attr {
			text, err := attrText(child)
			if err != nil {
				return nil, &FieldError{Type: t, Field: f.name, Err: err}
			}
			el.Attrs = append(el.Attrs, tree.Attr{Name: f.name, Value: text})
			continue
		}
		el.Children = append(el.Children, child)
	}
	return el, nil
}

// attrText flattens an encoded scalar into an attribute value.
func attrText(el *tree.Element) (string, error) {
	if len(el.Attrs) > 0 {
		return "", fmt.Errorf("fleetxml: attribute %s cannot hold attributes", el.Name)
	}
	var s string
	for _, n := range el.Children {
		t, ok := n.(tree.Text)
		if !ok {
			return "", fmt.Errorf("fleetxml: attribute %s cannot hold elements", el.Name)
		}
		s += string(t)
	}
	return s, nil
}

func (es *encodeState) encodeSequence(name string, v reflect.Value, item string) (*tree.Element, error) {
	if item == "" {
		item = typeName(v.Type().Elem())
	}
	if item == "" {
		return nil, fmt.Errorf("fleetxml: cannot determine item element name for %s", v.Type())
	}
	el := &tree.Element{Name: name}
	for i := 0; i < v.Len(); i++ {
		child, err := es.encode(item, v.Index(i), "")
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", item, i, err)
		}
		el.Children = append(el.Children, child)
	}
	return el, nil
}
