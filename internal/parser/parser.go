package parser

import (
	"fmt"
	"strings"

	"github.com/KimNorgaard/go-fleetxml/errors"
	"github.com/KimNorgaard/go-fleetxml/internal/lexer"
	"github.com/KimNorgaard/go-fleetxml/internal/token"
	"github.com/KimNorgaard/go-fleetxml/tree"
)

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 1000

// Parser builds a tree from the token stream of a lexer.
//
// Nesting is tracked on an explicit stack of open elements, so document
// depth never translates into Go call depth.
type Parser struct {
	l        *lexer.Lexer
	maxDepth int

	curToken token.Token
	stack    []*tree.Element
	root     tree.Nodes
	text     strings.Builder

	seenToken bool // any token other than whitespace has been consumed
	seenRoot  bool // the root element has been opened
}

// New creates a new parser. A maxDepth of zero or less selects DefaultMaxDepth.
func New(l *lexer.Lexer, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{l: l, maxDepth: maxDepth}
}

// Parse consumes the whole input and returns the top-level nodes of the
// document: its single root element. The first error aborts parsing and
// no nodes are returned with it.
func (p *Parser) Parse() (tree.Nodes, error) {
	for {
		p.curToken = p.l.NextToken()
		done, err := p.step()
		if err != nil {
			return nil, err
		}
		if done {
			return p.root, nil
		}
	}
}

func (p *Parser) step() (bool, error) { //nolint:gocyclo
	tok := p.curToken
	switch tok.Type {
	case token.ILLEGAL:
		err := p.errorf("%s", tok.Literal)
		err.Err = tok.Err
		return false, err

	case token.TEXT:
		if len(p.stack) == 0 {
			if strings.TrimSpace(tok.Literal) != "" {
				return false, p.errorf("unexpected text outside of the root element")
			}
			return false, nil
		}
		p.text.WriteString(tok.Literal)
		return false, nil

	case token.COMMENT:
		p.seenToken = true
		return false, nil

	case token.PROCINST:
		if tok.IsDeclaration() && p.seenToken {
			return false, p.errorf("xml declaration is only allowed at the start of the document")
		}
		p.seenToken = true
		return false, nil

	case token.DIRECTIVE:
		if len(p.stack) > 0 || p.seenRoot {
			return false, p.errorf("directive <!%s> is only allowed before the root element", firstWord(tok.Literal))
		}
		p.seenToken = true
		return false, nil

	case token.START, token.EMPTY:
		p.seenToken = true
		if len(p.stack) == 0 {
			if p.seenRoot {
				return false, p.errorf("unexpected second root element <%s>", tok.Literal)
			}
			p.seenRoot = true
		}
		p.flushText()
		el := &tree.Element{Name: tok.Literal}
		for _, a := range tok.Attrs {
			el.Attrs = append(el.Attrs, tree.Attr{Name: a.Name, Value: a.Value})
		}
		p.appendNode(el)
		if tok.Type == token.START {
			if len(p.stack) >= p.maxDepth {
				return false, p.errorf("maximum nesting depth of %d exceeded", p.maxDepth)
			}
			p.stack = append(p.stack, el)
		}
		return false, nil

	case token.END:
		if len(p.stack) == 0 {
			return false, p.errorf("unexpected end tag </%s>", tok.Literal)
		}
		top := p.stack[len(p.stack)-1]
		if top.Name != tok.Literal {
			return false, p.errorf("mismatched end tag: expected </%s>, got </%s>", top.Name, tok.Literal)
		}
		p.flushText()
		p.stack = p.stack[:len(p.stack)-1]
		return false, nil

	case token.EOF:
		if len(p.stack) > 0 {
			return false, p.errorf("unexpected end of input: element <%s> is not closed", p.stack[len(p.stack)-1].Name)
		}
		if !p.seenRoot {
			return false, p.errorf("document has no root element")
		}
		return true, nil

	default:
		return false, p.errorf("unexpected token %s", tok.Type)
	}
}

// flushText appends the text collected since the last markup token to the
// open element, trimmed. Blank text produces no node.
func (p *Parser) flushText() {
	s := strings.TrimSpace(p.text.String())
	p.text.Reset()
	if s == "" || len(p.stack) == 0 {
		return
	}
	p.appendNode(tree.Text(s))
}

func (p *Parser) appendNode(n tree.Node) {
	if len(p.stack) == 0 {
		p.root = append(p.root, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, n)
}

func (p *Parser) errorf(format string, args ...any) *errors.ParseError {
	return &errors.ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    p.curToken.Line,
		Column:  p.curToken.Column,
	}
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t\r\n["); i >= 0 {
		return s[:i]
	}
	return s
}
