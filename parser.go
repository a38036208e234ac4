package ski

import (
	"fmt"
)

// MalformedExpressionError reports unbalanced or empty groups in an
// expression. Pos is the byte offset of the offending parenthesis.
type MalformedExpressionError struct {
	Pos int
	Msg string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression at %d: %s", e.Pos, e.Msg)
}

type Parser struct {
	lexer *Lexer
	tree  *Tree
	stack []entry
}

// entry is either an open parenthesis or a parsed term.
type entry struct {
	open bool
	pos  int
	node NodeID
}

func NewParser(text string) *Parser {
	return &Parser{lexer: NewLexer(text), tree: NewTree()}
}

// Parse parses a bracketed expression such as "(S(KK))" into a tree.
func Parse(text string) (*Tree, error) {
	return NewParser(text).ParseTree()
}

// MustParse is like Parse but panics on malformed input.
func MustParse(text string) *Tree {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTree consumes the whole input. Juxtaposed terms associate to the
// left, so "SKK" is ((SK)K). The empty input yields a single empty leaf.
func (p *Parser) ParseTree() (t *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			merr, ok := r.(*MalformedExpressionError)
			if !ok {
				panic(r)
			}
			t, err = nil, merr
		}
	}()

	for {
		tok := p.lexer.Next()
		switch tok.Kind {
		case TokEOF:
			p.tree.Root = p.finish()
			return p.tree, nil
		case TokOpen:
			p.stack = append(p.stack, entry{open: true, pos: tok.Pos})
		case TokClose:
			p.closeGroup(tok.Pos)
		case TokSymbol:
			p.stack = append(p.stack, entry{node: p.tree.Leaf(tok.Val), pos: tok.Pos})
		}
	}
}

func (p *Parser) closeGroup(pos int) {
	i := len(p.stack) - 1
	for i >= 0 && !p.stack[i].open {
		i--
	}
	if i < 0 {
		panic(&MalformedExpressionError{Pos: pos, Msg: "unmatched ')'"})
	}
	terms := p.stack[i+1:]
	if len(terms) == 0 {
		panic(&MalformedExpressionError{Pos: p.stack[i].pos, Msg: "empty group"})
	}
	node := p.concat(terms)
	p.stack = append(p.stack[:i], entry{node: node, pos: p.stack[i].pos})
}

func (p *Parser) finish() NodeID {
	for _, e := range p.stack {
		if e.open {
			panic(&MalformedExpressionError{Pos: e.pos, Msg: "unclosed '('"})
		}
	}
	if len(p.stack) == 0 {
		return p.tree.Leaf("")
	}
	return p.concat(p.stack)
}

func (p *Parser) concat(terms []entry) NodeID {
	node := terms[0].node
	for _, e := range terms[1:] {
		node = p.tree.Pair(node, e.node)
	}
	return node
}
