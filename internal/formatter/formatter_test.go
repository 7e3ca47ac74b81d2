package formatter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-fleetxml/internal/formatter"
	"github.com/KimNorgaard/go-fleetxml/tree"
	"github.com/stretchr/testify/require"
)

// Centralized test cases to be used across different format settings.
var testCases = []struct {
	name             string
	nodes            tree.Nodes
	expectedCompact  string
	expectedIndented string // 2 spaces
}{
	{
		name:             "Empty element",
		nodes:            tree.Nodes{tree.NewElement("Load")},
		expectedCompact:  `<Load/>`,
		expectedIndented: `<Load />`,
	},
	{
		name:             "Text element",
		nodes:            tree.Nodes{tree.NewText("Name", "Test Fleet")},
		expectedCompact:  `<Name>Test Fleet</Name>`,
		expectedIndented: `<Name>Test Fleet</Name>`,
	},
	{
		name:             "Attributes keep their order",
		nodes:            tree.Nodes{tree.NewElement("a").WithAttr("z", "1").WithAttr("b", "2")},
		expectedCompact:  `<a z="1" b="2"/>`,
		expectedIndented: `<a z="1" b="2" />`,
	},
	{
		name: "Nested elements",
		nodes: tree.Nodes{
			tree.NewElement("MagSaveData",
				tree.NewText("MagazineKey", "abc"),
				tree.NewElement("Load", tree.NewText("Quantity", "48")),
			),
		},
		expectedCompact:  `<MagSaveData><MagazineKey>abc</MagazineKey><Load><Quantity>48</Quantity></Load></MagSaveData>`,
		expectedIndented: "<MagSaveData>\n  <MagazineKey>abc</MagazineKey>\n  <Load>\n    <Quantity>48</Quantity>\n  </Load>\n</MagSaveData>",
	},
	{
		name: "Blank text between elements is dropped",
		nodes: tree.Nodes{
			tree.NewElement("a", tree.Text("\n  "), tree.NewElement("b"), tree.Text("\n")),
		},
		expectedCompact:  `<a><b/></a>`,
		expectedIndented: "<a>\n  <b />\n</a>",
	},
	{
		name:             "Escaping",
		nodes:            tree.Nodes{tree.NewText("a", `x < y & "z" > w`).WithAttr("v", "<\"a\"&\tb\n>")},
		expectedCompact:  `<a v="&lt;&quot;a&quot;&amp;&#x9;b&#xA;&gt;">x &lt; y &amp; "z" &gt; w</a>`,
		expectedIndented: `<a v="&lt;&quot;a&quot;&amp;&#x9;b&#xA;&gt;">x &lt; y &amp; "z" &gt; w</a>`,
	},
}

func TestFormatter_Indentation(t *testing.T) {
	t.Run("Default Indent (2 spaces)", func(t *testing.T) {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				f := formatter.New(&buf, formatter.Options{Indent: "  "})
				err := f.Format(tc.nodes)
				require.NoError(t, err)
				require.Equal(t, tc.expectedIndented, buf.String())
			})
		}
	})

	t.Run("Compact Output", func(t *testing.T) {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				f := formatter.New(&buf, formatter.Options{})
				err := f.Format(tc.nodes)
				require.NoError(t, err)
				require.Equal(t, tc.expectedCompact, buf.String())
			})
		}
	})

	t.Run("Tab Indent", func(t *testing.T) {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				f := formatter.New(&buf, formatter.Options{Indent: "\t"})
				expected := strings.ReplaceAll(tc.expectedIndented, "  ", "\t")
				err := f.Format(tc.nodes)
				require.NoError(t, err)
				require.Equal(t, expected, buf.String())
			})
		}
	})
}

func TestFormatter_Declaration(t *testing.T) {
	yes := true
	tests := []struct {
		name     string
		decl     formatter.Declaration
		expected string
	}{
		{"Version only", formatter.Declaration{Version: "1.0"}, "<?xml version=\"1.0\"?>\n<a />"},
		{"Encoding", formatter.Declaration{Version: "1.0", Encoding: "utf-8"}, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<a />"},
		{"Standalone", formatter.Declaration{Version: "1.0", Standalone: &yes}, "<?xml version=\"1.0\" standalone=\"yes\"?>\n<a />"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			decl := tt.decl
			f := formatter.New(&buf, formatter.Options{Indent: "  ", Declaration: &decl})
			require.NoError(t, f.Format(tree.Nodes{tree.NewElement("a")}))
			require.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestFormatter_InvalidNames(t *testing.T) {
	tests := []struct {
		name        string
		nodes       tree.Nodes
		expectedErr string
	}{
		{"Empty element name", tree.Nodes{tree.NewElement("")}, `fleetxml: invalid name ""`},
		{"Space in name", tree.Nodes{tree.NewElement("a b")}, `fleetxml: invalid name "a b"`},
		{"Two colons", tree.Nodes{tree.NewElement("a:b:c")}, `fleetxml: name "a:b:c" is not a valid qualified name`},
		{"Empty prefix", tree.Nodes{tree.NewElement(":a")}, `fleetxml: name ":a" is not a valid qualified name`},
		{"Empty local part", tree.Nodes{tree.NewElement("a:")}, `fleetxml: name "a:" is not a valid qualified name`},
		{"Bad attribute name", tree.Nodes{tree.NewElement("a").WithAttr("x:y:z", "1")}, `fleetxml: name "x:y:z" is not a valid qualified name`},
		{"Control character in text", tree.Nodes{tree.NewText("a", "x\x00")}, "fleetxml: invalid character U+0000 in text"},
		{"Control character in attribute", tree.Nodes{tree.NewElement("a").WithAttr("v", "\x1b")}, "fleetxml: invalid character U+001B in attribute v of <a>"},
		{"Invalid UTF-8", tree.Nodes{tree.NewText("a", "\xff")}, "fleetxml: invalid utf-8 sequence in text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := formatter.New(&buf, formatter.Options{Indent: "  "}).Format(tt.nodes)
			require.EqualError(t, err, tt.expectedErr)
		})
	}
}
