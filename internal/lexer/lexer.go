package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KimNorgaard/go-fleetxml/internal/token"
)

// maxReferenceLen bounds the name inside an entity or character reference.
const maxReferenceLen = 32

// Lexer holds the state for tokenizing markup.
type Lexer struct {
	r      *bufio.Reader
	buf    bytes.Buffer
	ch     rune
	bad    bool  // ch was decoded from an invalid UTF-8 sequence
	err    error // read failure; ch is -1 from then on
	line   int
	column int
}

// New creates and returns a new Lexer. A leading byte order mark is skipped.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		column: 1,
	}
	l.readRune()
	if l.ch == '\uFEFF' {
		l.readRune()
	}
	return l
}

// NextToken scans the input and returns the next token. Once an ILLEGAL
// token has been returned the lexer state is unspecified.
func (l *Lexer) NextToken() token.Token {
	tok := token.Token{Line: l.line, Column: l.column}
	switch {
	case l.ch == -1 && l.err != nil:
		l.illegal(&tok, "read error")
	case l.ch == -1:
		tok.Type = token.EOF
	case l.ch != '<':
		l.readText(&tok)
	case l.match("<!--"):
		l.readComment(&tok)
	case l.match("<![CDATA["):
		l.readCDATA(&tok)
	case l.match("<!"):
		l.readDirective(&tok)
	case l.match("<?"):
		l.readProcInst(&tok)
	case l.match("</"):
		l.readEndTag(&tok)
	default:
		l.advance() // consume '<'
		l.readStartTag(&tok)
	}
	return tok
}

func (l *Lexer) readRune() {
	if l.err != nil {
		l.ch = -1
		return
	}
	r, size, err := l.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		l.ch = -1
		l.bad = false
		return
	}
	l.ch = r
	l.bad = r == utf8.RuneError && size == 1
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readRune()
	l.column++
}

// match consumes the ASCII string s if the input continues with it.
func (l *Lexer) match(s string) bool {
	if l.ch != rune(s[0]) {
		return false
	}
	if len(s) > 1 {
		// Prioritize the returned slice, as Peek can return both bytes and an error
		b, _ := l.r.Peek(len(s) - 1)
		if string(b) != s[1:] {
			return false
		}
	}
	for i := 0; i < len(s); i++ {
		l.advance()
	}
	return true
}

// illegal marks tok as malformed. A pending read failure takes precedence
// over the reason given, since it is what cut the input short.
func (l *Lexer) illegal(tok *token.Token, format string, args ...any) {
	tok.Type = token.ILLEGAL
	tok.Literal = fmt.Sprintf(format, args...)
	tok.Attrs = nil
	if l.err != nil {
		tok.Literal = "read error: " + l.err.Error()
		tok.Err = l.err
	}
}

// checkChar reports whether the current rune may appear in a document and
// marks tok illegal if it may not.
func (l *Lexer) checkChar(tok *token.Token) bool {
	if l.bad {
		l.illegal(tok, "invalid utf-8 sequence")
		return false
	}
	if !isChar(l.ch) {
		l.illegal(tok, "illegal character U+%04X", l.ch)
		return false
	}
	return true
}

func (l *Lexer) skipSpace() bool {
	skipped := false
	for isSpace(l.ch) {
		l.advance()
		skipped = true
	}
	return skipped
}

func (l *Lexer) readText(tok *token.Token) {
	l.buf.Reset()
	for l.ch != '<' && l.ch != -1 {
		switch l.ch {
		case '&':
			s, msg := l.readReference()
			if msg != "" {
				l.illegal(tok, "%s", msg)
				return
			}
			l.buf.WriteString(s)
			continue
		case '\r':
			l.advance()
			if l.ch != '\n' {
				l.buf.WriteRune('\n')
			}
			continue
		}
		if !l.checkChar(tok) {
			return
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	tok.Type = token.TEXT
	tok.Literal = l.buf.String()
}

// readReference decodes an entity or character reference. It is entered
// with l.ch == '&'. On failure the second result holds the reason.
func (l *Lexer) readReference() (string, string) {
	l.advance() // consume '&'
	var name strings.Builder
	for l.ch != ';' {
		if l.ch == -1 || l.ch == '<' || l.ch == '&' || isSpace(l.ch) || name.Len() > maxReferenceLen {
			return "", "unterminated entity reference"
		}
		name.WriteRune(l.ch)
		l.advance()
	}
	l.advance() // consume ';'

	ref := name.String()
	switch ref {
	case "lt":
		return "<", ""
	case "gt":
		return ">", ""
	case "amp":
		return "&", ""
	case "apos":
		return "'", ""
	case "quot":
		return `"`, ""
	}
	if strings.HasPrefix(ref, "#") {
		var (
			v   uint64
			err error
		)
		if strings.HasPrefix(ref, "#x") {
			v, err = strconv.ParseUint(ref[2:], 16, 32)
		} else {
			v, err = strconv.ParseUint(ref[1:], 10, 32)
		}
		if err != nil || !isChar(rune(v)) {
			return "", fmt.Sprintf("invalid character reference &%s;", ref)
		}
		return string(rune(v)), ""
	}
	return "", fmt.Sprintf("unknown entity reference &%s;", ref)
}

func (l *Lexer) readComment(tok *token.Token) {
	l.buf.Reset()
	for !l.match("-->") {
		if l.ch == -1 {
			l.illegal(tok, "unterminated comment")
			return
		}
		if !l.checkChar(tok) {
			return
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	tok.Type = token.COMMENT
	tok.Literal = l.buf.String()
}

func (l *Lexer) readCDATA(tok *token.Token) {
	l.buf.Reset()
	for !l.match("]]>") {
		if l.ch == -1 {
			l.illegal(tok, "unterminated CDATA section")
			return
		}
		if !l.checkChar(tok) {
			return
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	tok.Type = token.TEXT
	tok.Literal = l.buf.String()
}

// readDirective reads a <!...> construct such as a DOCTYPE declaration,
// including an internal subset in brackets.
func (l *Lexer) readDirective(tok *token.Token) {
	l.buf.Reset()
	depth := 0
	var quote rune
	for {
		switch {
		case l.ch == -1:
			l.illegal(tok, "unterminated directive")
			return
		case quote != 0:
			if l.ch == quote {
				quote = 0
			}
		case l.ch == '"' || l.ch == '\'':
			quote = l.ch
		case l.ch == '[':
			depth++
		case l.ch == ']':
			depth--
		case l.ch == '>' && depth <= 0:
			l.advance()
			tok.Type = token.DIRECTIVE
			tok.Literal = l.buf.String()
			return
		}
		if !l.checkChar(tok) {
			return
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
}

func (l *Lexer) readProcInst(tok *token.Token) {
	target := l.readName()
	if target == "" {
		l.illegal(tok, "missing processing instruction target")
		return
	}
	for !l.match("?>") {
		if l.ch == -1 {
			l.illegal(tok, "unterminated processing instruction <?%s", target)
			return
		}
		if !l.checkChar(tok) {
			return
		}
		l.advance()
	}
	tok.Type = token.PROCINST
	tok.Literal = target
}

func (l *Lexer) readEndTag(tok *token.Token) {
	name := l.readName()
	if name == "" {
		l.illegal(tok, "invalid end tag name")
		return
	}
	l.skipSpace()
	if l.ch != '>' {
		l.illegal(tok, "expected '>' to close end tag </%s", name)
		return
	}
	l.advance()
	tok.Type = token.END
	tok.Literal = name
}

func (l *Lexer) readStartTag(tok *token.Token) {
	name := l.readName()
	if name == "" {
		l.illegal(tok, "invalid element name")
		return
	}
	tok.Literal = name
	for {
		hadSpace := l.skipSpace()
		switch {
		case l.ch == '>':
			l.advance()
			tok.Type = token.START
			return
		case l.ch == '/':
			l.advance()
			if l.ch != '>' {
				l.illegal(tok, "expected '>' after '/' in tag <%s", name)
				return
			}
			l.advance()
			tok.Type = token.EMPTY
			return
		case l.ch == -1:
			l.illegal(tok, "unterminated start tag <%s", name)
			return
		case !hadSpace:
			l.illegal(tok, "expected whitespace before attribute in tag <%s", name)
			return
		}
		attr, ok := l.readAttr(tok, name)
		if !ok {
			return
		}
		tok.Attrs = append(tok.Attrs, attr)
	}
}

func (l *Lexer) readAttr(tok *token.Token, elem string) (token.Attr, bool) {
	name := l.readName()
	if name == "" {
		l.illegal(tok, "invalid attribute name in tag <%s", elem)
		return token.Attr{}, false
	}
	l.skipSpace()
	if l.ch != '=' {
		l.illegal(tok, "expected '=' after attribute %s", name)
		return token.Attr{}, false
	}
	l.advance()
	l.skipSpace()
	quote := l.ch
	if quote != '"' && quote != '\'' {
		l.illegal(tok, "value of attribute %s must be quoted", name)
		return token.Attr{}, false
	}
	l.advance()

	var value strings.Builder
	for l.ch != quote {
		switch l.ch {
		case -1:
			l.illegal(tok, "unterminated value of attribute %s", name)
			return token.Attr{}, false
		case '<':
			l.illegal(tok, "'<' in value of attribute %s", name)
			return token.Attr{}, false
		case '&':
			s, msg := l.readReference()
			if msg != "" {
				l.illegal(tok, "%s", msg)
				return token.Attr{}, false
			}
			value.WriteString(s)
			continue
		case '\r':
			// A CR LF pair normalizes to a single space.
			l.advance()
			if l.ch == '\n' {
				l.advance()
			}
			value.WriteRune(' ')
			continue
		case '\t', '\n':
			l.advance()
			value.WriteRune(' ')
			continue
		}
		if !l.checkChar(tok) {
			return token.Attr{}, false
		}
		value.WriteRune(l.ch)
		l.advance()
	}
	l.advance() // consume closing quote
	return token.Attr{Name: name, Value: value.String()}, true
}

func (l *Lexer) readName() string {
	if l.bad || !isNameStart(l.ch) {
		return ""
	}
	var name strings.Builder
	for !l.bad && isNameChar(l.ch) {
		name.WriteRune(l.ch)
		l.advance()
	}
	return name.String()
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// isChar reports whether ch is allowed in an XML 1.0 document.
func isChar(ch rune) bool {
	switch {
	case ch == 0x9 || ch == 0xA || ch == 0xD:
		return true
	case ch >= 0x20 && ch <= 0xD7FF:
		return true
	case ch >= 0xE000 && ch <= 0xFFFD:
		return true
	case ch >= 0x10000 && ch <= 0x10FFFF:
		return true
	}
	return false
}

func isNameStart(ch rune) bool {
	return ch == '_' || ch == ':' || unicode.IsLetter(ch)
}

func isNameChar(ch rune) bool {
	return isNameStart(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '.' || ch == 0xB7 || unicode.Is(unicode.Mn, ch)
}

// IsName reports whether s is a well-formed markup name.
func IsName(s string) bool {
	for i, ch := range s {
		if ch == utf8.RuneError {
			return false
		}
		if i == 0 && !isNameStart(ch) || !isNameChar(ch) {
			return false
		}
	}
	return s != ""
}

// IsChar reports whether ch may appear in a document.
func IsChar(ch rune) bool {
	return isChar(ch)
}
