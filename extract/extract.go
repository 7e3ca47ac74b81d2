// Package extract implements strict, name-indexed lookups over the direct
// children and attributes of a tree fragment.
//
// Every function here turns format drift into an explicit error: a
// requested name that occurs twice is a duplicate, never resolved to the
// first or last occurrence, and fixed-arity extractions fail on one element
// too many or too few. Blank text is never significant for structure.
//
// The returned elements are the fragment's own values, not copies. The
// caller takes them over and the fragment should not be used afterwards.
package extract

import (
	"strings"

	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Children finds the direct child elements of nodes named by names. The
// result has one slot per name, nil where the name does not occur.
// Children with other names are ignored.
func Children(nodes tree.Nodes, names ...string) ([]*tree.Element, error) {
	found := make([]*tree.Element, len(names))
	for _, n := range nodes {
		el, ok := n.(*tree.Element)
		if !ok {
			continue
		}
		for i, name := range names {
			if el.Name != name {
				continue
			}
			if found[i] != nil {
				return nil, &DuplicateError{Element: el}
			}
			found[i] = el
		}
	}
	return found, nil
}

// Attributes finds the attributes of attrs named by names, one slot per
// name, nil where the name does not occur.
func Attributes(attrs tree.Attributes, names ...string) ([]*tree.Attr, error) {
	found := make([]*tree.Attr, len(names))
	for j := range attrs {
		a := &attrs[j]
		for i, name := range names {
			if a.Name != name {
				continue
			}
			if found[i] != nil {
				return nil, &DuplicateAttrError{Attr: *a}
			}
			found[i] = a
		}
	}
	return found, nil
}

// Elements returns every element of nodes in document order. Non-blank
// text is an error.
func Elements(nodes tree.Nodes) ([]*tree.Element, error) {
	var els []*tree.Element
	for _, n := range nodes {
		switch v := n.(type) {
		case *tree.Element:
			els = append(els, v)
		case tree.Text:
			if !v.IsBlank() {
				return nil, &UnexpectedTextError{Text: string(v)}
			}
		}
	}
	return els, nil
}

// Exactly returns the elements of nodes, which must number exactly n.
func Exactly(nodes tree.Nodes, n int) ([]*tree.Element, error) {
	els, err := Elements(nodes)
	if err != nil {
		return nil, err
	}
	if len(els) != n {
		return nil, &CountError{Want: n, Got: len(els)}
	}
	return els, nil
}

// Single returns the only element of nodes.
func Single(nodes tree.Nodes) (*tree.Element, error) {
	els, err := Exactly(nodes, 1)
	if err != nil {
		return nil, err
	}
	return els[0], nil
}

// Text concatenates all text of nodes in order. The first element found is
// returned in the error.
func Text(nodes tree.Nodes) (string, error) {
	if len(nodes) == 1 {
		if t, ok := nodes[0].(tree.Text); ok {
			return string(t), nil
		}
	}
	var sb strings.Builder
	for _, n := range nodes {
		switch v := n.(type) {
		case tree.Text:
			sb.WriteString(string(v))
		case *tree.Element:
			return "", &UnexpectedElementError{Element: v}
		}
	}
	return sb.String(), nil
}

// Require turns an absent slot from Children into a MissingError.
func Require(el *tree.Element, name, parent string) (*tree.Element, error) {
	if el == nil {
		return nil, &MissingError{Name: name, Parent: parent}
	}
	return el, nil
}

// RequireAttr turns an absent slot from Attributes into a MissingError.
func RequireAttr(a *tree.Attr, name, parent string) (*tree.Attr, error) {
	if a == nil {
		return nil, &MissingError{Name: name, Parent: parent, Attr: true}
	}
	return a, nil
}

// ExpectName checks that el carries the fixed name want.
func ExpectName(el *tree.Element, want string) error {
	if el.Name != want {
		return &NameError{Want: want, Element: el}
	}
	return nil
}
