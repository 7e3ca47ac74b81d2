package fleetxml

import (
	"reflect"
	"strings"
	"sync"
)

// field represents a cached struct field.
type field struct {
	name      string
	idx       []int
	attr      bool
	omitEmpty bool
	nillable  bool
	item      string
	slot      int // position in childNames or attrNames
}

// optional reports whether the field may be absent from a decoded element.
func (f *field) optional(t reflect.Type) bool {
	return f.omitEmpty || f.nillable || t.Kind() == reflect.Pointer
}

type structFields struct {
	list       []field
	childNames []string
	attrNames  []string
}

// fieldCache caches the mapped fields of each struct type.
var fieldCache sync.Map // map[reflect.Type]*structFields

// cachedFields uses reflection to parse a struct's tags and build the list
// of its mapped fields in declaration order. Fields of embedded structs
// are promoted. It skips unexported fields and fields tagged with `tree:"-"`.
func cachedFields(t reflect.Type) *structFields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*structFields)
	}

	sf := &structFields{}
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			rf := t.Field(i)
			tag := rf.Tag.Get("tree")
			if tag == "-" {
				continue
			}
			index := append(append([]int(nil), idx...), i)
			if rf.Anonymous && tag == "" && rf.Type.Kind() == reflect.Struct {
				walk(rf.Type, index)
				continue
			}
			if !rf.IsExported() {
				continue
			}

			f := field{name: rf.Name, idx: index}
			name, opts, _ := strings.Cut(tag, ",")
			if name != "" {
				f.name = name
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				switch {
				case opt == "attr":
					f.attr = true
				case opt == "omitempty":
					f.omitEmpty = true
				case opt == "nillable":
					f.nillable = true
				case strings.HasPrefix(opt, "item="):
					f.item = strings.TrimPrefix(opt, "item=")
				}
			}

			if f.attr {
				f.slot = len(sf.attrNames)
				sf.attrNames = append(sf.attrNames, f.name)
			} else {
				f.slot = len(sf.childNames)
				sf.childNames = append(sf.childNames, f.name)
			}
			sf.list = append(sf.list, f)
		}
	}
	walk(t, nil)

	actual, _ := fieldCache.LoadOrStore(t, sf)
	return actual.(*structFields)
}

// typeName returns the name of t after following pointers. It is the
// default element name of sequence items and root elements.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// isEmptyValue reports whether the value v is empty.
// It is equivalent to the `encoding/json` definition of empty:
// false, 0, a nil pointer, a nil interface value, and any empty array,
// slice, map, or string.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
