// Package resolver implements the static checks run on a program before it
// is analyzed: returns outside of a function body, assignments to constants,
// names declared twice in one block and duplicate parameter names. Names
// themselves are not resolved here; an unbound name is a run-time error.
package resolver

import (
	"amb/parser"
	"errors"
	"fmt"
)

var TooManyErrors = errors.New("too many errors")

type ResolverError struct {
	Filename string
	Message  string
}

func (re ResolverError) Error() string { return re.String() }
func (re ResolverError) String() string {
	return fmt.Sprintf("%s: %s", re.Filename, re.Message)
}

type binding uint8

const (
	constant binding = iota + 1
	variable
)

// Scope maps each name declared in one block to how it was declared.
type Scope map[string]binding

// Control flags -- whether we are in a function.
const (
	FUNC = 1 << iota
)

// Indexes into Resolver.scopes.
const (
	hostScope = iota // names bound by the host
	userScope        // top-level declarations of earlier programs
	programScope
)

type Resolver struct {
	filename string
	// scopes[hostScope] and scopes[userScope] outlive a single program, so
	// interactive inputs see earlier ones.
	scopes []Scope
	Errors []error
	ctrl   uint8
}

func New(filename string) *Resolver {
	r := &Resolver{
		filename: filename,
		scopes:   []Scope{},
		Errors:   []error{},
		ctrl:     0,
	}
	r.push() // host scope.
	r.push() // user scope.
	return r
}

// AddGlobals records names bound by the host. They are constants; a program
// may shadow them with a declaration of its own.
func (r *Resolver) AddGlobals(globals []string) {
	for _, x := range globals {
		r.scopes[hostScope][x] = constant
	}
}

func (r *Resolver) curr() Scope { return r.scopes[len(r.scopes)-1] }
func (r *Resolver) push()       { r.scopes = append(r.scopes, Scope{}) }
func (r *Resolver) pop()        { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) err(format string, args ...interface{}) {
	if len(r.Errors) == 10 {
		r.Errors = append(r.Errors, TooManyErrors)
	}
	if len(r.Errors) > 10 {
		return
	}
	r.Errors = append(r.Errors, ResolverError{
		Filename: r.filename,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Resolve checks one program. Its top-level declarations are kept for later
// programs only when no error was found. The errors are returned and the
// resolver is ready for the next program.
func (r *Resolver) Resolve(program *parser.Sequence) []error {
	r.push()
	r.declare(program)
	r.resolve(program)
	top := r.curr()
	r.pop()
	if len(r.scopes) != programScope || r.ctrl != 0 {
		panic("something gone wrong!")
	}
	errs := r.Errors
	r.Errors = []error{}
	if len(errs) != 0 {
		return errs
	}
	for name, b := range top {
		r.scopes[userScope][name] = b
	}
	return nil
}

// declare hoists the declarations of a block body into the current scope.
func (r *Resolver) declare(body parser.Component) {
	switch node := body.(type) {
	case *parser.Sequence:
		for _, stmt := range node.Statements {
			r.declare(stmt)
		}
	case *parser.Declaration:
		b := constant
		if node.Kind == parser.VARIABLE {
			b = variable
		}
		r.bind(node.Name.Symbol, b)
	case *parser.FunctionDeclaration:
		r.bind(node.Name.Symbol, constant)
	}
}

func (r *Resolver) bind(name string, b binding) {
	scope := r.curr()
	_, declared := scope[name]
	if len(r.scopes) == programScope+1 {
		_, earlier := r.scopes[userScope][name]
		declared = declared || earlier
	}
	if declared {
		r.err("%s has already been declared", name)
		return
	}
	scope[name] = b
}

func (r *Resolver) lookup(name string) (binding, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name]; ok {
			return b, true
		}
	}
	return 0, false
}

func (r *Resolver) resolve(node parser.Component) {
	switch node := node.(type) {
	case *parser.Literal, *parser.Name:
	case *parser.Sequence:
		for _, stmt := range node.Statements {
			r.resolve(stmt)
		}
	case *parser.Block:
		r.push()
		r.declare(node.Body)
		r.resolve(node.Body)
		r.pop()
	case *parser.Declaration:
		r.resolve(node.Value)
	case *parser.FunctionDeclaration:
		r.resolveFunction(node.Params, node.Body)
	case *parser.Lambda:
		r.resolveFunction(node.Params, node.Body)
	case *parser.Assignment:
		if b, ok := r.lookup(node.Name.Symbol); ok && b == constant {
			r.err("cannot assign to constant %s", node.Name.Symbol)
		}
		r.resolve(node.Value)
	case *parser.Return:
		if r.ctrl&FUNC == 0 {
			r.err("return not in a function body")
		}
		r.resolve(node.Expr)
	case *parser.Conditional:
		r.resolve(node.Predicate)
		r.resolve(node.Consequent)
		r.resolve(node.Alternative)
	case *parser.Application:
		r.resolve(node.Function)
		for _, arg := range node.Args {
			r.resolve(arg)
		}
	case *parser.OperatorCombination:
		for _, operand := range node.Operands {
			r.resolve(operand)
		}
	case *parser.LogicalComposition:
		r.resolve(node.Left)
		r.resolve(node.Right)
	case *parser.Amb:
		for _, choice := range node.Choices {
			r.resolve(choice)
		}
	case *parser.Require:
		r.resolve(node.Predicate)
	default:
		r.err("unknown syntax %v", node)
	}
}

func (r *Resolver) resolveFunction(params []*parser.Name, body parser.Component) {
	prev := r.ctrl
	r.ctrl |= FUNC
	r.push()
	for _, param := range params {
		if _, ok := r.curr()[param.Symbol]; ok {
			r.err("duplicate parameter %s", param.Symbol)
			continue
		}
		r.curr()[param.Symbol] = variable
	}
	r.resolve(body)
	r.pop()
	r.ctrl = prev
}
