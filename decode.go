package fleetxml

import (
	"encoding"
	"fmt"
	"io"
	"reflect"

	"github.com/KimNorgaard/go-fleetxml/extract"
	"github.com/KimNorgaard/go-fleetxml/internal/lexer"
	"github.com/KimNorgaard/go-fleetxml/internal/parser"
	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Decoder reads and decodes documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// The decoder buffers data from r as necessary. It is the caller's
// responsibility to call Close on r if required.
//
// Functional options can be provided to configure the decoding process,
// such as setting a maximum nesting depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Tree reads the whole document from the input and returns its top-level
// nodes, which hold exactly the root element. Comments, processing
// instructions and the document type declaration are checked but not kept.
//
// If the input is not well formed, Tree returns an *errors.ParseError and
// no partial tree.
func (d *Decoder) Tree() (tree.Nodes, error) {
	if d.r == nil {
		return nil, fmt.Errorf("fleetxml: Decode(nil reader)")
	}
	o, err := newOptions(d.opts)
	if err != nil {
		return nil, err
	}
	return parser.New(lexer.New(d.r), o.maxDepth).Parse()
}

// Decode reads the document from its input and stores it in the value
// pointed to by v. The root element must carry the name of v's type, see
// Unmarshal.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("fleetxml: Decode(non-pointer %T or nil)", v)
	}
	o, err := newOptions(d.opts)
	if err != nil {
		return err
	}
	nodes, err := d.Tree()
	if err != nil {
		return err
	}

	root, err := extract.Single(nodes)
	if err != nil {
		return err
	}
	name, err := rootName(rv.Type().Elem())
	if err != nil {
		return err
	}
	if err := extract.ExpectName(root, name); err != nil {
		return err
	}

	ds := &decodeState{depth: o.maxDepth}
	return ds.decode(root, rv.Elem(), "")
}

// Decode maps the fragment el onto the value pointed to by v, following
// the same rules as Unmarshal. The name of el itself is not checked.
//
// Decode is meant for UnmarshalTree implementations that hand parts of
// their element back to the default mapping.
//
// The MaxDepth limit counts the nesting of el and its descendants, the
// way the reader counts it. A Decode call made from UnmarshalTree starts
// a new count at its own element; the whole descent stays bounded by the
// depth of the tree, which the reader limits.
func Decode(el *tree.Element, v any, opts ...Option) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("fleetxml: Decode(non-pointer %T or nil)", v)
	}
	if el == nil {
		return fmt.Errorf("fleetxml: Decode(nil element)")
	}
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	ds := &decodeState{depth: o.maxDepth}
	return ds.decode(el, rv.Elem(), "")
}

type decodeState struct {
	depth int // element levels left
}

// decode maps el onto rv. item names the elements of a sequence when rv
// is a slice or an array. Each call descends one element level.
func (ds *decodeState) decode(el *tree.Element, rv reflect.Value, item string) error {
	if ds.depth <= 0 {
		return fmt.Errorf("fleetxml: reached max recursion depth")
	}
	ds.depth--
	defer func() { ds.depth++ }()
	return ds.decodeValue(el, rv, item)
}

func (ds *decodeState) decodeValue(el *tree.Element, rv reflect.Value, item string) error {
	handled, err := ds.tryCustomUnmarshal(el, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return ds.decodeValue(el, rv.Elem(), item)
	}
	if !rv.CanSet() {
		return fmt.Errorf("fleetxml: cannot set value of type %s", rv.Type())
	}

	switch rv.Kind() {
	case reflect.Struct:
		return ds.decodeStruct(el, rv)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return decodeScalar(el, rv)
		}
		return ds.decodeSlice(el, rv, item)
	case reflect.Array:
		return ds.decodeArray(el, rv, item)
	case reflect.Interface, reflect.Map, reflect.Chan, reflect.Func:
		return fmt.Errorf("fleetxml: cannot decode element <%s> into Go value of type %s", el.Name, rv.Type())
	default:
		return decodeScalar(el, rv)
	}
}

// tryCustomUnmarshal attempts to use a custom unmarshaler (Unmarshaler or
// encoding.TextUnmarshaler) on the given reflect.Value. It returns true if
// a custom unmarshaler was found and used, in which case the caller should
// not proceed with default decoding.
func (ds *decodeState) tryCustomUnmarshal(el *tree.Element, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalTree(el); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		text, err := extract.Text(el.Children)
		if err != nil {
			return true, err
		}
		if err := u.UnmarshalText([]byte(text)); err != nil {
			return true, &ScalarError{Type: rv.Type(), Text: text, Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) decodeStruct(el *tree.Element, rv reflect.Value) error {
	t := rv.Type()
	fields := cachedFields(t)

	children, err := extract.Children(el.Children, fields.childNames...)
	if err != nil {
		return err
	}
	attrs, err := extract.Attributes(el.Attrs, fields.attrNames...)
	if err != nil {
		return err
	}

	for i := range fields.list {
		f := &fields.list[i]
		fv := rv.FieldByIndex(f.idx)

		var child *tree.Element
		if f.attr {
			if a := attrs[f.slot]; a != nil {
				child = tree.NewText(a.Name, a.Value)
			}
		} else {
			child = children[f.slot]
		}

		if child == nil {
			if f.optional(fv.Type()) {
				continue
			}
			return &FieldError{Type: t, Field: f.name, Err: &extract.MissingError{Name: f.name, Parent: el.Name, Attr: f.attr}}
		}
		if f.nillable && isNil(child) {
			fv.Set(reflect.Zero(fv.Type()))
			continue
		}
		if err := ds.decode(child, fv, f.item); err != nil {
			return &FieldError{Type: t, Field: f.name, Err: err}
		}
	}
	return nil
}

// items returns the elements of a sequence element, checking that each one
// carries the item name of the sequence.
func items(el *tree.Element, elemType reflect.Type, item string) ([]*tree.Element, error) {
	els, err := extract.Elements(el.Children)
	if err != nil {
		return nil, err
	}
	if item == "" {
		item = typeName(elemType)
	}
	if item == "" {
		return els, nil
	}
	for _, e := range els {
		if err := extract.ExpectName(e, item); err != nil {
			return nil, err
		}
	}
	return els, nil
}

func (ds *decodeState) decodeSlice(el *tree.Element, rv reflect.Value, item string) error {
	els, err := items(el, rv.Type().Elem(), item)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	newSlice := reflect.MakeSlice(rv.Type(), len(els), len(els))
	for i, e := range els {
		if err := ds.decode(e, newSlice.Index(i), ""); err != nil {
			return fmt.Errorf("%s[%d]: %w", e.Name, i, err)
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) decodeArray(el *tree.Element, rv reflect.Value, item string) error {
	els, err := items(el, rv.Type().Elem(), item)
	if err != nil {
		return err
	}
	if len(els) != rv.Len() {
		return &extract.CountError{Want: rv.Len(), Got: len(els)}
	}
	for i, e := range els {
		if err := ds.decode(e, rv.Index(i), ""); err != nil {
			return fmt.Errorf("%s[%d]: %w", e.Name, i, err)
		}
	}
	return nil
}

// isNil reports whether el is marked as an explicit null.
func isNil(el *tree.Element) bool {
	v, ok := el.Attrs.Get(NilAttr)
	return ok && v == "true"
}

// rootName returns the root element name of documents holding values of
// type t.
func rootName(t reflect.Type) (string, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n, ok := reflect.New(t).Interface().(interface{ ElementName() string }); ok {
		return n.ElementName(), nil
	}
	if t.Name() == "" {
		return "", fmt.Errorf("fleetxml: cannot determine root element name for %s", t)
	}
	return t.Name(), nil
}
