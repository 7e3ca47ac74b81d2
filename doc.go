/*
Package fleetxml reads and writes the XML save files of a fleet-building
game and maps them onto Go records. The API mirrors the standard
`encoding/json` package.

The package offers two workflows.

1. Record Decoding and Encoding

Unmarshal and Marshal convert between documents and Go values. Struct
fields map to child elements by name, and struct tags adjust the mapping:

	type MagSaveData struct {
		MagazineKey string
		MunitionKey string
		Quantity    int
	}

	type WeaponGroup struct {
		Name       string   `tree:",attr"`
		MemberKeys []string `tree:",item=string"`
	}

Decoding is strict. A required child that is missing, a mapped child that
occurs twice, a sequence item with the wrong name and a number that does
not parse are all errors, located by a chain of FieldError values that
errors.As can search. Children with unmapped names are ignored.

Types that need more control implement Unmarshaler and Marshaler. They
receive the element itself and usually hand its parts back to Decode and
Encode, or to the lookups in package extract. Package variant builds on
this to decode families of types selected by an xsi:type attribute.

2. Tree Access

Parse returns the document as a tree of elements and text, and Format
writes a tree back out:

	nodes, err := fleetxml.Parse(data)
	if err != nil {
		// handle error
	}
	var buf bytes.Buffer
	err = fleetxml.Format(&buf, nodes, fleetxml.Indent(4))

Reading keeps elements, attributes in document order and trimmed
non-blank text. Comments, processing instructions and whitespace between
elements are dropped. Well-formedness errors are reported as a single
*errors.ParseError with a line and column.

Writing uses two-space indentation and an XML declaration by default; see
the Option functions.
*/
package fleetxml
