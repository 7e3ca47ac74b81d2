package formatter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-fleetxml/internal/lexer"
	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Declaration describes the <?xml ...?> line written before the document.
type Declaration struct {
	Version    string
	Encoding   string // omitted when empty
	Standalone *bool  // omitted when nil
}

// Options configures a Formatter.
type Options struct {
	// Indent is the string written once per nesting level. An empty
	// string selects compact output without any line breaks.
	Indent string
	// Declaration is written first when non-nil.
	Declaration *Declaration
}

// Formatter writes a tree to an output stream.
type Formatter struct {
	w      *bufio.Writer
	err    error
	indent string
	decl   *Declaration
	depth  int
}

// New returns a new formatter that writes to w.
func New(w io.Writer, opts Options) *Formatter {
	return &Formatter{
		w:      bufio.NewWriter(w),
		indent: opts.Indent,
		decl:   opts.Declaration,
	}
}

// Format writes nodes, preceded by the declaration if one is configured.
// Names and values are validated as they are written; an invalid one
// aborts the output with an error.
func (f *Formatter) Format(nodes tree.Nodes) error {
	if f.decl != nil {
		f.writeDeclaration()
	}
	for i, n := range nodes {
		if i > 0 || f.decl != nil {
			f.newline()
		}
		if err := f.writeNode(n); err != nil {
			return err
		}
	}
	if f.err != nil {
		return f.err
	}
	return f.w.Flush()
}

func (f *Formatter) write(s string) {
	if f.err != nil {
		return
	}
	_, f.err = f.w.WriteString(s)
}

func (f *Formatter) newline() {
	if f.indent == "" {
		return
	}
	f.write("\n")
	for i := 0; i < f.depth; i++ {
		f.write(f.indent)
	}
}

func (f *Formatter) writeDeclaration() {
	f.write(`<?xml version="`)
	f.write(f.decl.Version)
	f.write(`"`)
	if f.decl.Encoding != "" {
		f.write(` encoding="`)
		f.write(f.decl.Encoding)
		f.write(`"`)
	}
	if f.decl.Standalone != nil {
		if *f.decl.Standalone {
			f.write(` standalone="yes"`)
		} else {
			f.write(` standalone="no"`)
		}
	}
	f.write("?>")
}

func (f *Formatter) writeNode(node tree.Node) error {
	switch n := node.(type) {
	case tree.Text:
		return f.writeText(string(n))
	case *tree.Element:
		return f.writeElement(n)
	default:
		return fmt.Errorf("fleetxml: unsupported node type for formatting: %T", n)
	}
}

func (f *Formatter) writeElement(el *tree.Element) error {
	if err := checkName(el.Name); err != nil {
		return err
	}
	f.write("<")
	f.write(el.Name)
	for _, a := range el.Attrs {
		if err := checkName(a.Name); err != nil {
			return err
		}
		if err := checkValue(a.Value); err != nil {
			return fmt.Errorf("%w in attribute %s of <%s>", err, a.Name, el.Name)
		}
		f.write(" ")
		f.write(a.Name)
		f.write(`="`)
		f.write(attrEscaper.Replace(a.Value))
		f.write(`"`)
	}

	if len(el.Children) == 0 {
		if f.indent == "" {
			f.write("/>")
		} else {
			f.write(" />")
		}
		return nil
	}
	f.write(">")

	if isTextOnly(el.Children) {
		for _, child := range el.Children {
			if err := f.writeNode(child); err != nil {
				return err
			}
		}
	} else {
		f.depth++
		for _, child := range el.Children {
			if t, ok := child.(tree.Text); ok && t.IsBlank() {
				continue
			}
			f.newline()
			if err := f.writeNode(child); err != nil {
				return err
			}
		}
		f.depth--
		f.newline()
	}

	f.write("</")
	f.write(el.Name)
	f.write(">")
	return nil
}

func (f *Formatter) writeText(s string) error {
	if err := checkValue(s); err != nil {
		return fmt.Errorf("%w in text", err)
	}
	f.write(textEscaper.Replace(s))
	return nil
}

func isTextOnly(nodes tree.Nodes) bool {
	for _, n := range nodes {
		if _, ok := n.(tree.Text); !ok {
			return false
		}
	}
	return true
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// checkName validates a markup name, including the split into an optional
// namespace prefix and a local part.
func checkName(name string) error {
	if !lexer.IsName(name) {
		return fmt.Errorf("fleetxml: invalid name %q", name)
	}
	if strings.Count(name, ":") > 1 {
		return fmt.Errorf("fleetxml: name %q is not a valid qualified name", name)
	}
	if prefix, local, ok := strings.Cut(name, ":"); ok {
		if prefix == "" || !lexer.IsName(local) {
			return fmt.Errorf("fleetxml: name %q is not a valid qualified name", name)
		}
	}
	return nil
}

func checkValue(s string) error {
	for i, ch := range s {
		if ch == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return fmt.Errorf("fleetxml: invalid utf-8 sequence")
			}
		}
		if !lexer.IsChar(ch) {
			return fmt.Errorf("fleetxml: invalid character U+%04X", ch)
		}
	}
	return nil
}
