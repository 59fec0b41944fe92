package parse

import (
	"errors"
	"io"
)

// ErrInvalidSyntax is returned whenever a statement does not conform
// to the grammar documented in parser.go.
var ErrInvalidSyntax = errors.New("parse: invalid syntax")

// lexer is a one-token-of-lookahead wrapper over the tokenizer: its
// current field always holds the next unconsumed token, advanced by
// calling nextToken.
type lexer struct {
	tok     *tokenizer
	current token
	atEOF   bool
}

func newLexer(src string) *lexer {
	lx := &lexer{tok: newTokenizer(src)}
	lx.advance()
	return lx
}

// advance pulls the next token from the tokenizer. Reaching the end
// of input is not an error: it sets current to an EOF token and
// records atEOF so later eat* calls fail with ErrInvalidSyntax instead
// of silently retrying.
func (lx *lexer) advance() error {
	tok, err := lx.tok.nextToken()
	if err == io.EOF {
		lx.current = tok
		lx.atEOF = true
		return nil
	}
	if err != nil {
		return ErrInvalidSyntax
	}
	lx.current = tok
	return nil
}

func (lx *lexer) matchTokenType(t tokenType) bool {
	return !lx.atEOF && lx.current.typ == t
}

func (lx *lexer) matchIntConstant() bool {
	return lx.matchTokenType(tokenNumber)
}

func (lx *lexer) matchStringConstant() bool {
	return lx.matchTokenType(tokenString)
}

func (lx *lexer) matchKeyword(keyword string) bool {
	return !lx.atEOF && lx.current.typ > keywordTokens && tokenText(lx.tok.src, lx.current) == keyword
}

func (lx *lexer) matchIdentifier() bool {
	return lx.matchTokenType(tokenIdentifier)
}

func (lx *lexer) eatTokenType(t tokenType) error {
	if !lx.matchTokenType(t) {
		return ErrInvalidSyntax
	}
	return lx.advance()
}

func (lx *lexer) eatIntConstant() (int, error) {
	if !lx.matchIntConstant() {
		return 0, ErrInvalidSyntax
	}
	v, err := tokenIntVal(lx.tok.src, lx.current)
	if err != nil {
		return 0, err
	}
	return v, lx.advance()
}

func (lx *lexer) eatStringConstant() (string, error) {
	if !lx.matchStringConstant() {
		return "", ErrInvalidSyntax
	}
	s := tokenText(lx.tok.src, lx.current)
	return s, lx.advance()
}

func (lx *lexer) eatKeyword(kw string) error {
	if !lx.matchKeyword(kw) {
		return ErrInvalidSyntax
	}
	return lx.advance()
}

func (lx *lexer) eatIdentifier() (string, error) {
	if !lx.matchIdentifier() {
		return "", ErrInvalidSyntax
	}
	s := tokenText(lx.tok.src, lx.current)
	return s, lx.advance()
}
