package fleetxml_test

import (
	"testing"

	"github.com/KimNorgaard/go-fleetxml"
	"github.com/stretchr/testify/require"
)

// OmitStruct has every field tagged with omitempty.
type OmitStruct struct {
	String  string      `tree:",omitempty"`
	Int     int         `tree:",omitempty"`
	Float   float64     `tree:",omitempty"`
	Bool    bool        `tree:",omitempty"`
	Slice   []string    `tree:",omitempty,item=s"`
	Pointer *int        `tree:",omitempty"`
	Struct  *OmitStruct `tree:",omitempty"`
	Attr    string      `tree:",attr,omitempty"`
}

func TestMarshal_OmitEmpty(t *testing.T) {
	t.Run("zero values are omitted", func(t *testing.T) {
		b, err := fleetxml.Marshal(OmitStruct{}, fleetxml.Indent(0), fleetxml.OmitDeclaration())
		require.NoError(t, err)
		require.Equal(t, `<OmitStruct`+ns+`/>`, string(b))
	})

	t.Run("set values are written in field order", func(t *testing.T) {
		n := 0
		v := OmitStruct{
			String:  "s",
			Int:     1,
			Float:   1.5,
			Bool:    true,
			Slice:   []string{"a"},
			Pointer: &n,
			Struct:  &OmitStruct{String: "nested"},
			Attr:    "a",
		}
		b, err := fleetxml.Marshal(v, fleetxml.Indent(0), fleetxml.OmitDeclaration())
		require.NoError(t, err)
		require.Equal(t, `<OmitStruct`+ns+` Attr="a"><String>s</String><Int>1</Int><Float>1.5</Float><Bool>true</Bool>`+
			`<Slice><s>a</s></Slice><Pointer>0</Pointer><Struct><String>nested</String></Struct></OmitStruct>`, string(b))

		var out OmitStruct
		require.NoError(t, fleetxml.Unmarshal(b, &out))
		require.Equal(t, v, out)
	})

	t.Run("absent fields decode to zero values", func(t *testing.T) {
		var out OmitStruct
		require.NoError(t, fleetxml.Unmarshal([]byte(`<OmitStruct/>`), &out))
		require.Equal(t, OmitStruct{}, out)
	})
}
