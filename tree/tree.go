// Package tree defines the in-memory representation of a parsed markup
// document: a forest of elements and text.
//
// Values in this package are plain data. A tree is produced either by the
// reader (from bytes) or by an encoder (from typed records) and is consumed
// by the opposite direction; nothing retains it afterwards. Elements are
// owned by the Nodes slice that contains them and are never shared between
// two parents.
package tree

import (
	"strings"
)

// Node is either a Text or an *Element.
type Node interface {
	// String returns a compact, human-readable rendering of the node.
	// It is meant for error messages, not for serialization.
	String() string
	node()
}

// Text is a run of character data.
type Text string

func (Text) node() {}

func (t Text) String() string { return string(t) }

// IsBlank reports whether the text consists only of whitespace.
// Blank text is insignificant when decoding structure.
func (t Text) IsBlank() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// Attributes is the ordered attribute list of one element. Duplicate names
// are representable; lookups that must reject duplicates live in package
// extract.
type Attributes []Attr

// Get returns the value of the first attribute named name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Element is a named node with attributes and children.
type Element struct {
	Name     string
	Attrs    Attributes
	Children Nodes
}

func (*Element) node() {}

// NewElement returns an element named name holding children.
func NewElement(name string, children ...Node) *Element {
	el := &Element{Name: name}
	if len(children) > 0 {
		el.Children = Nodes(children)
	}
	return el
}

// NewText returns an element named name whose only child is the text s.
func NewText(name, s string) *Element {
	return NewElement(name, Text(s))
}

// WithAttr appends an attribute and returns el for chaining.
func (el *Element) WithAttr(name, value string) *Element {
	el.Attrs = append(el.Attrs, Attr{Name: name, Value: value})
	return el
}

// String renders the element in a compact single-line form.
func (el *Element) String() string {
	var out strings.Builder
	out.WriteString("<")
	out.WriteString(el.Name)
	for _, a := range el.Attrs {
		out.WriteString(" ")
		out.WriteString(a.Name)
		out.WriteString(`="`)
		out.WriteString(a.Value)
		out.WriteString(`"`)
	}
	if len(el.Children) == 0 {
		out.WriteString("/>")
		return out.String()
	}
	out.WriteString(">")
	out.WriteString(el.Children.String())
	out.WriteString("</")
	out.WriteString(el.Name)
	out.WriteString(">")
	return out.String()
}

// Nodes is an ordered sequence of nodes.
type Nodes []Node

// String concatenates the rendering of every node.
func (ns Nodes) String() string {
	var out strings.Builder
	for _, n := range ns {
		out.WriteString(n.String())
	}
	return out.String()
}

// Elements returns the element nodes of ns in document order.
func (ns Nodes) Elements() []*Element {
	var els []*Element
	for _, n := range ns {
		if el, ok := n.(*Element); ok {
			els = append(els, el)
		}
	}
	return els
}
