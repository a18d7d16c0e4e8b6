package parser

import (
	"amb/lexer"
	"fmt"
)

// Represents a parsing error. We use this internally to signal
// that we cannot continue parsing some expression/statement.
type ParserError struct {
	Filename string
	Token    lexer.Token
	Message  string
}

func (e ParserError) Error() string { return e.String() }
func (e ParserError) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Token.Line, e.Token.Column, e.Message)
}

func (p *Parser) error(tok lexer.Token, s string, args ...interface{}) {
	err := ParserError{
		Filename: p.filename,
		Token:    tok,
		Message:  fmt.Sprintf(s, args...),
	}
	p.Errors = append(p.Errors, err)
	panic(err)
}

func (p *Parser) expect(typ lexer.TokenType, s string, args ...interface{}) lexer.Token {
	if !p.match(typ) {
		p.error(p.peek(), s, args...)
	}
	return p.previous()
}

// synchronize synchronizes the parser by discarding tokens
// until we reach a token which starts a statement. This means
// that cascading errors are discarded, and we still report as
// many errors as possible.
func (p *Parser) synchronize() {
	p.consume()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case lexer.CONST, lexer.LET, lexer.FUNCTION, lexer.IF, lexer.RETURN:
			return
		}
		p.consume()
	}
}
