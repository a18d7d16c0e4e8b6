package parser

import "amb/lexer"

type (
	unaryParser  func() Component
	binaryParser func(Component) Component
)

type Parser struct {
	filename      string
	tokens        []lexer.Token
	Errors        []ParserError
	curr          int // how many we have consumed.
	unaryParsers  map[lexer.TokenType]unaryParser
	binaryParsers map[lexer.TokenType]binaryParser
	precedences   map[lexer.TokenType]int
}

const (
	PREC_LOWEST  = iota
	PREC_ASSIGN  // =
	PREC_COND    // ? :
	PREC_OR      // ||
	PREC_AND     // &&
	PREC_EQ      // ===, !==
	PREC_CMP     // <=, <, >, >=
	PREC_SUM     // +, -
	PREC_PRODUCT // *, /, %
	PREC_UNARY   // !, -
	PREC_CALL    // ()
)

// ====
// init
// ====

func New(fn string, tokens []lexer.Token) *Parser {
	p := &Parser{
		filename: fn,
		tokens:   tokens,
		Errors:   []ParserError{},
		curr:     0,
	}
	p.unaryParsers = map[lexer.TokenType]unaryParser{
		lexer.LEFT_PAREN: p.grouping,
		lexer.IDENTIFIER: p.identifier,
		lexer.NUMBER:     p.literal,
		lexer.STRING:     p.literal,
		lexer.TRUE:       p.literal,
		lexer.FALSE:      p.literal,
		lexer.NULL:       p.literal,
		lexer.BANG:       p.unary,
		lexer.MINUS:      p.unary,
	}
	// note: need to make sure that every entry in binaryParsers
	// has a corresponding entry in precedences.
	p.binaryParsers = map[lexer.TokenType]binaryParser{
		lexer.EQUAL:             p.assign,
		lexer.QUESTION:          p.conditional,
		lexer.AND:               p.logical,
		lexer.OR:                p.logical,
		lexer.EQUAL_EQUAL_EQUAL: p.binary,
		lexer.BANG_EQUAL_EQUAL:  p.binary,
		lexer.GREATER:           p.binary,
		lexer.GREATER_EQUAL:     p.binary,
		lexer.LESS:              p.binary,
		lexer.LESS_EQUAL:        p.binary,
		lexer.PLUS:              p.binary,
		lexer.MINUS:             p.binary,
		lexer.STAR:              p.binary,
		lexer.SLASH:             p.binary,
		lexer.PERCENT:           p.binary,
		lexer.LEFT_PAREN:        p.call,
	}
	p.precedences = map[lexer.TokenType]int{
		lexer.EQUAL:             PREC_ASSIGN,
		lexer.QUESTION:          PREC_COND,
		lexer.OR:                PREC_OR,
		lexer.AND:               PREC_AND,
		lexer.EQUAL_EQUAL_EQUAL: PREC_EQ,
		lexer.BANG_EQUAL_EQUAL:  PREC_EQ,
		lexer.GREATER:           PREC_CMP,
		lexer.GREATER_EQUAL:     PREC_CMP,
		lexer.LESS:              PREC_CMP,
		lexer.LESS_EQUAL:        PREC_CMP,
		lexer.PLUS:              PREC_SUM,
		lexer.MINUS:             PREC_SUM,
		lexer.STAR:              PREC_PRODUCT,
		lexer.SLASH:             PREC_PRODUCT,
		lexer.PERCENT:           PREC_PRODUCT,
		lexer.LEFT_PAREN:        PREC_CALL,
	}
	return p
}

// =====
// utils
// =====

// consume consumes one token
func (p *Parser) consume() lexer.Token {
	if !p.isAtEnd() {
		p.curr++
	}
	return p.previous()
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if p.curr == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.curr-1]
}

// peek returns the token to be consumed
func (p *Parser) peek() lexer.Token { return p.tokens[p.curr] }

// peekAt returns the token n places after the one to be consumed.
func (p *Parser) peekAt(n int) lexer.Token {
	if p.curr+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.curr+n]
}

// isAtEnd returns true if the current token is an EOF token
func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.EOF }

// check returns if the peek token matches the given type
func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

// match consumes the token if it matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.consume()
			return true
		}
	}
	return false
}

// ===========
// entry point
// ===========

// program → declaration*

func (p *Parser) Parse() *Sequence {
	program := &Sequence{Statements: []Component{}}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

// =================
// statement parsing
// =================
//
//   declaration → const | let | function | statement
//   statement   → return | if | block | exprStmt
//   const    → "const" IDENT "=" expression ";"
//   let      → "let" IDENT "=" expression ";"
//   function → "function" IDENT "(" params ")" block
//   return   → "return" expression? ";"
//   if       → "if" "(" expression ")" block ( "else" ( if | block ) )?
//   block    → "{" declaration* "}"
//   exprStmt → expression ";"

func (p *Parser) declaration() (stmt Component) {
	defer func() {
		// This will be called repeatedly as we parse statements, so
		// this is a good place to synchronize(). We have to make
		// sure that all top-level calls to parse statements/expressions
		// have a recover.
		if rv := recover(); rv != nil {
			if _, ok := rv.(ParserError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(rv)
		}
	}()
	switch {
	case p.check(lexer.CONST), p.check(lexer.LET):
		stmt = p.letStmt()
	case p.check(lexer.FUNCTION):
		stmt = p.functionStmt()
	default:
		stmt = p.statement()
	}
	return
}

func (p *Parser) statement() Component {
	switch {
	case p.check(lexer.RETURN):
		return p.returnStmt()
	case p.check(lexer.IF):
		return p.ifStmt()
	case p.check(lexer.LEFT_BRACE):
		return p.blockStmt()
	}
	return p.exprStmt()
}

func (p *Parser) letStmt() Component {
	kind := CONSTANT
	if p.consume().Type == lexer.LET {
		kind = VARIABLE
	}
	ident := p.expect(lexer.IDENTIFIER, "expected an identifier")
	p.expect(lexer.EQUAL, "expected = after %s", ident.Lexeme)
	expr := p.expression()
	p.expect(lexer.SEMICOLON, "expected ; after declaration")
	return &Declaration{Kind: kind, Name: NewName(ident.Lexeme), Value: expr}
}

func (p *Parser) functionStmt() Component {
	p.consume()
	ident := p.expect(lexer.IDENTIFIER, "expected a function name")
	p.expect(lexer.LEFT_PAREN, "expected ( after %s", ident.Lexeme)
	params := p.params()
	body := p.blockStmt()
	return &FunctionDeclaration{Name: NewName(ident.Lexeme), Params: params, Body: body}
}

// params parses a parameter list up to and including the closing ).
func (p *Parser) params() []*Name {
	params := []*Name{}
	if p.match(lexer.RIGHT_PAREN) {
		return params
	}
	for {
		ident := p.expect(lexer.IDENTIFIER, "expected a parameter name")
		params = append(params, NewName(ident.Lexeme))
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	return params
}

func (p *Parser) returnStmt() Component {
	p.consume()
	var expr Component = NewName("undefined")
	if !p.check(lexer.SEMICOLON) {
		expr = p.expression()
	}
	p.expect(lexer.SEMICOLON, "expected ; after return")
	return &Return{Expr: expr}
}

func (p *Parser) ifStmt() Component {
	p.consume()
	p.expect(lexer.LEFT_PAREN, "expected ( after if")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	then := p.blockStmt()
	var alt Component = &Block{Body: &Sequence{Statements: []Component{}}}
	if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			alt = p.ifStmt()
		} else {
			alt = p.blockStmt()
		}
	}
	return &Conditional{Predicate: cond, Consequent: then, Alternative: alt, Statement: true}
}

func (p *Parser) blockStmt() Component {
	p.expect(lexer.LEFT_BRACE, "expected {")
	stmts := []Component{}
	for !p.isAtEnd() && !p.check(lexer.RIGHT_BRACE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(lexer.RIGHT_BRACE, "unmatched {")
	return &Block{Body: &Sequence{Statements: stmts}}
}

func (p *Parser) exprStmt() Component {
	expr := p.expression()
	p.expect(lexer.SEMICOLON, "expected ; after expression statement")
	return expr
}

// ==================
// expression parsing
// ==================

// expression matches a single expression.
func (p *Parser) expression() Component { return p.precedence(PREC_LOWEST) }
func (p *Parser) precedence(prec int) Component {
	unary, ok := p.unaryParsers[p.peek().Type]
	if !ok {
		p.error(p.peek(), "expected an expression, got %s", p.peek().Type)
	}
	expr := unary()
	for prec < p.peekPrecedence() {
		expr = p.binaryParsers[p.peek().Type](expr)
	}
	return expr
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := p.precedences[p.peek().Type]; ok {
		return prec
	}
	return PREC_LOWEST
}

func (p *Parser) unary() Component {
	tok := p.consume()
	op := tok.Lexeme
	if tok.Type == lexer.MINUS {
		op = "-unary"
	}
	return &OperatorCombination{Operator: op, Operands: []Component{p.precedence(PREC_UNARY - 1)}}
}

// grouping parses either a parenthesised expression or the parameter
// list of a lambda.
func (p *Parser) grouping() Component {
	if p.lambdaAhead() {
		p.consume()
		return p.lambda(p.params())
	}
	p.consume()
	expr := p.expression()
	p.expect(lexer.RIGHT_PAREN, "unmatched (")
	return expr
}

// lambdaAhead reports whether the tokens starting at the current ( form
// a parameter list followed by =>.
func (p *Parser) lambdaAhead() bool {
	i := 1
	if p.peekAt(i).Type != lexer.RIGHT_PAREN {
		for {
			if p.peekAt(i).Type != lexer.IDENTIFIER {
				return false
			}
			i++
			if p.peekAt(i).Type != lexer.COMMA {
				break
			}
			i++
		}
		if p.peekAt(i).Type != lexer.RIGHT_PAREN {
			return false
		}
	}
	return p.peekAt(i+1).Type == lexer.ARROW
}

func (p *Parser) lambda(params []*Name) Component {
	p.expect(lexer.ARROW, "expected =>")
	if p.check(lexer.LEFT_BRACE) {
		return NewLambda(params, p.blockStmt())
	}
	return NewLambda(params, &Return{Expr: p.expression()})
}

func (p *Parser) assign(left Component) Component {
	tok := p.consume()
	right := p.precedence(PREC_ASSIGN - 1)
	name, ok := left.(*Name)
	if !ok {
		p.error(tok, "invalid assignment target")
	}
	return &Assignment{Name: name, Value: right}
}

func (p *Parser) conditional(pred Component) Component {
	p.consume()
	cons := p.expression()
	p.expect(lexer.COLON, "expected : in conditional expression")
	alt := p.precedence(PREC_COND - 1)
	return NewConditional(pred, cons, alt)
}

func (p *Parser) binary(left Component) Component {
	tok := p.consume()
	right := p.precedence(p.precedences[tok.Type])
	return &OperatorCombination{Operator: tok.Lexeme, Operands: []Component{left, right}}
}

func (p *Parser) logical(left Component) Component {
	tok := p.consume()
	right := p.precedence(p.precedences[tok.Type])
	return &LogicalComposition{Operator: tok.Lexeme, Left: left, Right: right}
}

func (p *Parser) call(callee Component) Component {
	tok := p.consume()
	args := []Component{}
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			args = append(args, p.expression())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	if name, ok := callee.(*Name); ok {
		switch name.Symbol {
		case "amb":
			return &Amb{Choices: args}
		case "require":
			if len(args) != 1 {
				p.error(tok, "require expects exactly one argument, got %d", len(args))
			}
			return &Require{Predicate: args[0]}
		}
	}
	return NewApplication(callee, args)
}

func (p *Parser) identifier() Component {
	tok := p.consume()
	name := NewName(tok.Lexeme)
	if p.check(lexer.ARROW) {
		return p.lambda([]*Name{name})
	}
	return name
}

func (p *Parser) literal() Component {
	tok := p.consume()
	switch tok.Type {
	case lexer.TRUE:
		return NewLiteral(true)
	case lexer.FALSE:
		return NewLiteral(false)
	case lexer.NULL:
		return NewLiteral(nil)
	}
	return NewLiteral(tok.Literal)
}

// ParseString lexes and parses a complete program, returning every lexer
// or parser error found.
func ParseString(filename, input string) (*Sequence, []error) {
	l := lexer.New(filename, input)
	l.ScanTokens()
	if len(l.Errors) != 0 {
		errs := make([]error, len(l.Errors))
		for i, err := range l.Errors {
			errs[i] = err
		}
		return nil, errs
	}
	p := New(filename, l.Tokens)
	program := p.Parse()
	if len(p.Errors) != 0 {
		errs := make([]error, len(p.Errors))
		for i, err := range p.Errors {
			errs[i] = err
		}
		return nil, errs
	}
	return program, nil
}
