// Package variant maps closed families of record types onto elements
// whose concrete type is named by an xsi:type attribute.
//
// A family is declared once with New, listing every branch with its tag
// and constructor. Decoding resolves the attribute to exactly one branch
// and fails on a tag that was not declared.
package variant

import (
	"fmt"
	"sort"

	"github.com/KimNorgaard/go-fleetxml"
	"github.com/KimNorgaard/go-fleetxml/extract"
	"github.com/KimNorgaard/go-fleetxml/tree"
)

// TypeAttr names the attribute that carries the tag of a variant.
const TypeAttr = "xsi:type"

// Variant is implemented by every member of a family. VariantTag returns
// the tag written in TypeAttr for the member's type.
type Variant interface {
	VariantTag() string
}

// Branch binds a tag to the constructor of one member type.
type Branch[V Variant] struct {
	tag string
	new func() V
}

// Case returns the branch for tag. newV must return a fresh pointer that
// the element is decoded into.
func Case[V Variant](tag string, newV func() V) Branch[V] {
	return Branch[V]{tag: tag, new: newV}
}

// Union is a closed family of member types.
type Union[V Variant] struct {
	name     string
	branches map[string]func() V
}

// New declares the family name with the given branches. It panics on an
// empty or repeated tag, which is a programming error.
func New[V Variant](name string, branches ...Branch[V]) *Union[V] {
	u := &Union[V]{name: name, branches: make(map[string]func() V, len(branches))}
	for _, b := range branches {
		if b.tag == "" {
			panic(fmt.Sprintf("variant: empty tag in union %s", name))
		}
		if _, ok := u.branches[b.tag]; ok {
			panic(fmt.Sprintf("variant: duplicate tag %q in union %s", b.tag, name))
		}
		u.branches[b.tag] = b.new
	}
	return u
}

// Name returns the family name.
func (u *Union[V]) Name() string { return u.name }

// Tags returns the declared tags in sorted order.
func (u *Union[V]) Tags() []string {
	tags := make([]string, 0, len(u.branches))
	for t := range u.branches {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Decode reads the tag of el and decodes el into a new value of the
// matching member type.
func (u *Union[V]) Decode(el *tree.Element) (V, error) {
	var zero V
	attrs, err := extract.Attributes(el.Attrs, TypeAttr)
	if err != nil {
		return zero, err
	}
	a, err := extract.RequireAttr(attrs[0], TypeAttr, el.Name)
	if err != nil {
		return zero, err
	}
	newV, ok := u.branches[a.Value]
	if !ok {
		return zero, &UnknownTagError{Union: u.name, Tag: a.Value}
	}
	v := newV()
	if err := fleetxml.Decode(el, v); err != nil {
		return zero, err
	}
	return v, nil
}

// Encode builds the element named name for v, with the tag of v first
// among its attributes.
func (u *Union[V]) Encode(name string, v V) (*tree.Element, error) {
	if any(v) == nil {
		return nil, fmt.Errorf("fleetxml: cannot encode nil %s variant as <%s>", u.name, name)
	}
	tag := v.VariantTag()
	if _, ok := u.branches[tag]; !ok {
		return nil, &UnknownTagError{Union: u.name, Tag: tag}
	}
	el, err := fleetxml.Encode(name, v)
	if err != nil {
		return nil, err
	}
	el.Attrs = append(tree.Attributes{{Name: TypeAttr, Value: tag}}, el.Attrs...)
	return el, nil
}

// UnknownTagError reports a tag that names no member of the family.
type UnknownTagError struct {
	Union string
	Tag   string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("fleetxml: unknown %s variant %q", e.Union, e.Tag)
}
