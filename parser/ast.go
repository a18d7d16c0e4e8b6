package parser

// Component is a node of the syntax tree. The set of components is closed:
// only the types in this file implement it, and the analyzer switches over
// exactly these. Components are never mutated once built.
type Component interface {
	String() string
	component()
}

type DeclarationKind uint8

const (
	_ = DeclarationKind(iota)
	CONSTANT
	VARIABLE
)

func (k DeclarationKind) String() string {
	if k == VARIABLE {
		return "let"
	}
	return "const"
}

type (
	// Literal holds a float64, string, bool, or nil for null.
	Literal struct {
		Value interface{}
	}

	Name struct {
		Symbol string
	}

	Application struct {
		Function Component
		Args     []Component
	}

	// Conditional is either `p ? c : a` or `if (p) {...} else {...}`.
	Conditional struct {
		Predicate   Component
		Consequent  Component
		Alternative Component
		Statement   bool
	}

	Lambda struct {
		Params []*Name
		Body   Component
	}

	Block struct {
		Body Component
	}

	Sequence struct {
		Statements []Component
	}

	Declaration struct {
		Kind  DeclarationKind
		Name  *Name
		Value Component
	}

	FunctionDeclaration struct {
		Name   *Name
		Params []*Name
		Body   Component
	}

	Assignment struct {
		Name  *Name
		Value Component
	}

	Return struct {
		Expr Component
	}

	// OperatorCombination is a unary (one operand) or binary (two operands)
	// use of an operator. Unary minus is named "-unary".
	OperatorCombination struct {
		Operator string
		Operands []Component
	}

	// LogicalComposition is `&&` or `||`; the right operand is only
	// evaluated when needed.
	LogicalComposition struct {
		Operator string
		Left     Component
		Right    Component
	}

	Amb struct {
		Choices []Component
	}

	Require struct {
		Predicate Component
	}
)

func (*Literal) component()             {}
func (*Name) component()                {}
func (*Application) component()         {}
func (*Conditional) component()         {}
func (*Lambda) component()              {}
func (*Block) component()               {}
func (*Sequence) component()            {}
func (*Declaration) component()         {}
func (*FunctionDeclaration) component() {}
func (*Assignment) component()          {}
func (*Return) component()              {}
func (*OperatorCombination) component() {}
func (*LogicalComposition) component()  {}
func (*Amb) component()                 {}
func (*Require) component()             {}

// Unary reports whether the combination has a single operand.
func (c *OperatorCombination) Unary() bool { return len(c.Operands) == 1 }

// ============
// Constructors
// ============
//
// These only exist for components the analyzer synthesizes itself.

func NewName(symbol string) *Name { return &Name{Symbol: symbol} }

func NewLiteral(value interface{}) *Literal { return &Literal{Value: value} }

func NewApplication(fn Component, args []Component) *Application {
	return &Application{Function: fn, Args: args}
}

func NewLambda(params []*Name, body Component) *Lambda {
	return &Lambda{Params: params, Body: body}
}

func NewConstantDeclaration(name *Name, value Component) *Declaration {
	return &Declaration{Kind: CONSTANT, Name: name, Value: value}
}

func NewConditional(pred, cons, alt Component) *Conditional {
	return &Conditional{Predicate: pred, Consequent: cons, Alternative: alt}
}

// FunctionDeclarationToConstant rewrites `function f(x) {...}` into
// `const f = x => {...}`.
func FunctionDeclarationToConstant(decl *FunctionDeclaration) *Declaration {
	return NewConstantDeclaration(decl.Name, NewLambda(decl.Params, decl.Body))
}

// OperatorCombinationToApplication turns `a + b` into `+(a, b)`.
func OperatorCombinationToApplication(c *OperatorCombination) *Application {
	return NewApplication(NewName(c.Operator), c.Operands)
}

// LogicalCompositionToConditional turns `a && b` into `a ? b : false` and
// `a || b` into `a ? true : b`.
func LogicalCompositionToConditional(c *LogicalComposition) *Conditional {
	if c.Operator == "&&" {
		return NewConditional(c.Left, c.Right, NewLiteral(false))
	}
	return NewConditional(c.Left, NewLiteral(true), c.Right)
}

// Symbols returns the symbols of a parameter list.
func Symbols(names []*Name) []string {
	symbols := make([]string, len(names))
	for i, name := range names {
		symbols[i] = name.Symbol
	}
	return symbols
}

// DeclaredSymbol returns the name a declaration introduces, and false if
// the component does not declare anything.
func DeclaredSymbol(c Component) (string, bool) {
	switch c := c.(type) {
	case *Declaration:
		return c.Name.Symbol, true
	case *FunctionDeclaration:
		return c.Name.Symbol, true
	}
	return "", false
}

// ScanOutDeclarations lists the names declared directly in a block body,
// looking through nested sequences but not into nested blocks or lambdas.
// Each name appears once, in order of first declaration.
func ScanOutDeclarations(body Component) []string {
	seen := map[string]bool{}
	symbols := []string{}
	var scan func(c Component)
	scan = func(c Component) {
		if seq, ok := c.(*Sequence); ok {
			for _, stmt := range seq.Statements {
				scan(stmt)
			}
			return
		}
		if symbol, ok := DeclaredSymbol(c); ok && !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}
	scan(body)
	return symbols
}
