package fleetxml

import (
	"fmt"
	"strings"

	"github.com/KimNorgaard/go-fleetxml/internal/formatter"
	"github.com/KimNorgaard/go-fleetxml/internal/parser"
)

const (
	defaultIndent  = 2
	defaultVersion = "1.0"
)

// Option configures reading, writing, encoding or decoding. Options that do
// not apply to an operation are ignored by it.
type Option func(*options) error

type options struct {
	indent     *int
	indentChar rune
	decl       formatter.Declaration
	omitDecl   bool
	maxDepth   int
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		indentChar: ' ',
		decl:       formatter.Declaration{Version: defaultVersion},
		maxDepth:   parser.DefaultMaxDepth,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) formatterOptions() formatter.Options {
	width := defaultIndent
	if o.indent != nil {
		width = *o.indent
	}
	fo := formatter.Options{
		Indent: strings.Repeat(string(o.indentChar), width),
	}
	if !o.omitDecl {
		decl := o.decl
		fo.Declaration = &decl
	}
	return fo
}

// Indent sets how many indent characters are written per nesting level.
// Zero produces compact output on a single line. The default is 2.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("fleetxml: indent width cannot be negative")
		}
		o.indent = &n
		return nil
	}
}

// IndentChar selects the indent character, either ' ' (the default) or '\t'.
func IndentChar(c rune) Option {
	return func(o *options) error {
		if c != ' ' && c != '\t' {
			return fmt.Errorf("fleetxml: indent character must be a space or a tab, got %q", c)
		}
		o.indentChar = c
		return nil
	}
}

// Declaration sets the version written in the XML declaration.
func Declaration(version string) Option {
	return func(o *options) error {
		if version == "" {
			return fmt.Errorf("fleetxml: declaration version cannot be empty")
		}
		o.decl.Version = version
		return nil
	}
}

// DeclarationEncoding adds an encoding attribute to the XML declaration.
// The output is always UTF-8; this only controls what is declared.
func DeclarationEncoding(encoding string) Option {
	return func(o *options) error {
		o.decl.Encoding = encoding
		return nil
	}
}

// Standalone adds a standalone attribute to the XML declaration.
func Standalone(standalone bool) Option {
	return func(o *options) error {
		o.decl.Standalone = &standalone
		return nil
	}
}

// OmitDeclaration suppresses the XML declaration.
func OmitDeclaration() Option {
	return func(o *options) error {
		o.omitDecl = true
		return nil
	}
}

// MaxDepth sets the maximum nesting depth accepted when reading and
// decoding. This guards against pathologically deep documents.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("fleetxml: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
