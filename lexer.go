package ski

import (
	"fmt"
	"unicode/utf8"
)

type TokenKind string

const (
	TokEOF    TokenKind = "EOF"
	TokOpen   TokenKind = "OPEN"
	TokClose  TokenKind = "CLOSE"
	TokSymbol TokenKind = "SYMBOL"
)

type Token struct {
	Kind TokenKind
	Val  string
	Pos  int
}

// A Lexer splits an expression into parentheses and one-character symbols.
// Every rune other than a parenthesis is a symbol, whitespace included.
type Lexer struct {
	Text   string
	Pos    int
	Buffer *Token
}

func NewLexer(text string) *Lexer {
	return &Lexer{Text: text, Pos: 0, Buffer: nil}
}

func (l *Lexer) Peek() Token {
	if l.Buffer == nil {
		tok := l.nextToken()
		l.Buffer = &tok
	}
	return *l.Buffer
}

func (l *Lexer) Next() Token {
	if l.Buffer != nil {
		tok := *l.Buffer
		l.Buffer = nil
		return tok
	}
	return l.nextToken()
}

func (l *Lexer) nextToken() Token {
	if l.Pos >= len(l.Text) {
		return Token{Kind: TokEOF, Val: "", Pos: l.Pos}
	}

	start := l.Pos
	switch l.Text[l.Pos] {
	case '(':
		l.Pos++
		return Token{Kind: TokOpen, Val: "(", Pos: start}
	case ')':
		l.Pos++
		return Token{Kind: TokClose, Val: ")", Pos: start}
	}

	r, size := utf8.DecodeRuneInString(l.Text[l.Pos:])
	if r == utf8.RuneError && size <= 1 {
		panic(&MalformedExpressionError{Pos: start, Msg: fmt.Sprintf("invalid UTF-8 byte %#x", l.Text[l.Pos])})
	}
	l.Pos += size
	return Token{Kind: TokSymbol, Val: l.Text[start:l.Pos], Pos: start}
}
