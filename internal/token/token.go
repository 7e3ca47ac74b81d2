package token

// Type is the type of a token.
type Type string

// Attr is an attribute as it appears inside a start tag, with entity
// references already resolved.
type Attr struct {
	Name  string
	Value string
}

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string // tag name, decoded text, or error message for ILLEGAL
	Attrs   []Attr // only set for START and EMPTY
	Line    int
	Column  int
	Err     error // read failure behind an ILLEGAL token
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // Malformed input; Literal holds the reason
	EOF     Type = "EOF"     // End of input

	// Markup
	START Type = "START" // <name attr="v">
	EMPTY Type = "EMPTY" // <name attr="v"/>
	END   Type = "END"   // </name>

	// Character data, including CDATA sections
	TEXT Type = "TEXT"

	// Discarded constructs
	COMMENT   Type = "COMMENT"   // <!-- ... -->
	PROCINST  Type = "PROCINST"  // <?target ...?>, Literal is the target
	DIRECTIVE Type = "DIRECTIVE" // <!DOCTYPE ...>
)

// IsDeclaration reports whether tok is the <?xml ...?> declaration.
func (t Token) IsDeclaration() bool {
	return t.Type == PROCINST && t.Literal == "xml"
}
