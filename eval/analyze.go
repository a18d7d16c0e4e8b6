package eval

// Implements the analyzer: every syntax component is compiled once into an
// Executable, which is then run any number of times. Executables never
// return a result; they call succeed with a value, or fail to backtrack.

import (
	"amb/parser"
	"log"
)

// Fail abandons the current path and resumes the most recent choice point
// that still has alternatives.
type Fail func()

// Succeed receives a value together with the resumption that asks for the
// next solution.
type Succeed func(value Value, fail Fail)

// Executable is the analyzed form of a component.
type Executable func(env *Environment, succeed Succeed, fail Fail)

// Analyzer compiles components. The zero value is ready to use; Trace, when
// set, logs choice points, failed requirements and undone assignments.
type Analyzer struct {
	Trace *log.Logger
}

func (a *Analyzer) tracef(format string, args ...interface{}) {
	if a.Trace != nil {
		a.Trace.Printf(format, args...)
	}
}

// Analyze compiles a component, reporting malformed syntax as an error.
func (a *Analyzer) Analyze(c parser.Component) (exec Executable, err error) {
	defer catch(&err)
	return a.analyze(c), nil
}

// Evaluate analyzes c and runs it in env. Fatal errors raised during the
// run are returned; search failures go to fail. The top-level declarations
// of a program must already be bound in env (see DeclareProgram).
func (a *Analyzer) Evaluate(c parser.Component, env *Environment, succeed Succeed, fail Fail) (err error) {
	defer catch(&err)
	a.analyze(c)(env, succeed, fail)
	return nil
}

// Analyze compiles a component with the default analyzer.
func Analyze(c parser.Component) (Executable, error) {
	return (&Analyzer{}).Analyze(c)
}

// Evaluate is Analyze(c) run in env with the given continuations. As with
// Analyzer.Evaluate, declare the program's names in env first.
func Evaluate(c parser.Component, env *Environment, succeed Succeed, fail Fail) error {
	return (&Analyzer{}).Evaluate(c, env, succeed, fail)
}

// Resume invokes a resumption handed to a success continuation, with the
// same fatal error boundary as Evaluate.
func Resume(fail Fail) (err error) {
	defer catch(&err)
	fail()
	return nil
}

func (a *Analyzer) analyze(c parser.Component) Executable {
	switch c := c.(type) {
	case *parser.Literal:
		return a.analyzeLiteral(c)
	case *parser.Name:
		return a.analyzeName(c)
	case *parser.Amb:
		return a.analyzeAmb(c)
	case *parser.Require:
		return a.analyzeRequire(c)
	case *parser.Application:
		return a.analyzeApplication(c)
	case *parser.OperatorCombination:
		return a.analyze(parser.OperatorCombinationToApplication(c))
	case *parser.LogicalComposition:
		return a.analyze(parser.LogicalCompositionToConditional(c))
	case *parser.Conditional:
		return a.analyzeConditional(c)
	case *parser.Lambda:
		return a.analyzeLambda(c)
	case *parser.Sequence:
		return a.analyzeSequence(c)
	case *parser.Block:
		return a.analyzeBlock(c)
	case *parser.Return:
		return a.analyzeReturn(c)
	case *parser.FunctionDeclaration:
		return a.analyze(parser.FunctionDeclarationToConstant(c))
	case *parser.Declaration:
		return a.analyzeDeclaration(c)
	case *parser.Assignment:
		return a.analyzeAssignment(c)
	case nil:
		raise(newError(ErrUnknownSyntax, "missing component"))
	}
	raise(newError(ErrUnknownSyntax, "%s -- analyze", c))
	return nil
}

func (a *Analyzer) analyzeLiteral(c *parser.Literal) Executable {
	var value Value
	switch v := c.Value.(type) {
	case nil:
		value = NULL
	case bool:
		value = newBool(v)
	case float64:
		value = Number(v)
	case string:
		value = String(v)
	default:
		raise(newError(ErrUnknownSyntax, "literal %#v", c.Value))
	}
	return func(env *Environment, succeed Succeed, fail Fail) {
		succeed(value, fail)
	}
}

func (a *Analyzer) analyzeName(c *parser.Name) Executable {
	symbol := c.Symbol
	return func(env *Environment, succeed Succeed, fail Fail) {
		succeed(mustLookup(symbol, env), fail)
	}
}

func (a *Analyzer) analyzeLambda(c *parser.Lambda) Executable {
	params := parser.Symbols(c.Params)
	body := a.analyze(c.Body)
	return func(env *Environment, succeed Succeed, fail Fail) {
		succeed(&Function{params: params, body: body, env: env}, fail)
	}
}

func (a *Analyzer) analyzeSequence(c *parser.Sequence) Executable {
	if len(c.Statements) == 0 {
		return func(env *Environment, succeed Succeed, fail Fail) {
			succeed(UNDEFINED, fail)
		}
	}
	exec := a.analyze(c.Statements[0])
	for _, stmt := range c.Statements[1:] {
		exec = sequentially(exec, a.analyze(stmt))
	}
	return exec
}

func sequentially(first, second Executable) Executable {
	return func(env *Environment, succeed Succeed, fail Fail) {
		first(env, func(value Value, fail2 Fail) {
			if isReturn(value) {
				succeed(value, fail2)
				return
			}
			second(env, succeed, fail2)
		}, fail)
	}
}

func (a *Analyzer) analyzeBlock(c *parser.Block) Executable {
	locals := parser.ScanOutDeclarations(c.Body)
	body := a.analyze(c.Body)
	return func(env *Environment, succeed Succeed, fail Fail) {
		values := make([]Value, len(locals))
		for i := range values {
			values[i] = UNASSIGNED
		}
		blockEnv, err := Extend(locals, values, env)
		if err != nil {
			raise(err)
		}
		body(blockEnv, succeed, fail)
	}
}

func (a *Analyzer) analyzeDeclaration(c *parser.Declaration) Executable {
	symbol := c.Name.Symbol
	value := a.analyze(c.Value)
	return func(env *Environment, succeed Succeed, fail Fail) {
		value(env, func(v Value, fail2 Fail) {
			mustAssign(symbol, v, env)
			succeed(UNDEFINED, fail2)
		}, fail)
	}
}

func (a *Analyzer) analyzeConditional(c *parser.Conditional) Executable {
	pred := a.analyze(c.Predicate)
	cons := a.analyze(c.Consequent)
	alt := a.analyze(c.Alternative)
	return func(env *Environment, succeed Succeed, fail Fail) {
		pred(env, func(v Value, fail2 Fail) {
			if isTruthy(v) {
				cons(env, succeed, fail2)
			} else {
				alt(env, succeed, fail2)
			}
		}, fail)
	}
}

func (a *Analyzer) analyzeReturn(c *parser.Return) Executable {
	expr := a.analyze(c.Expr)
	return func(env *Environment, succeed Succeed, fail Fail) {
		expr(env, func(v Value, fail2 Fail) {
			succeed(returnValue{v}, fail2)
		}, fail)
	}
}

// ===========
// Application
// ===========

func (a *Analyzer) analyzeApplication(c *parser.Application) Executable {
	fn := a.analyze(c.Function)
	args := make([]Executable, len(c.Args))
	for i, arg := range c.Args {
		args[i] = a.analyze(arg)
	}
	return func(env *Environment, succeed Succeed, fail Fail) {
		fn(env, func(f Value, fail2 Fail) {
			getArgs(args, env, func(values []Value, fail3 Fail) {
				executeApplication(f, values, succeed, fail3)
			}, fail2)
		}, fail)
	}
}

// getArgs evaluates the arguments left to right. Each argument's value is
// consed onto a fresh slice so that a retried argument never overwrites
// values another branch still holds.
func getArgs(args []Executable, env *Environment, succeed func([]Value, Fail), fail Fail) {
	if len(args) == 0 {
		succeed(nil, fail)
		return
	}
	args[0](env, func(arg Value, fail2 Fail) {
		getArgs(args[1:], env, func(rest []Value, fail3 Fail) {
			succeed(append([]Value{arg}, rest...), fail3)
		}, fail2)
	}, fail)
}

func executeApplication(f Value, args []Value, succeed Succeed, fail Fail) {
	switch f := f.(type) {
	case *Primitive:
		succeed(applyPrimitive(f, args), fail)
	case *Function:
		env, err := Extend(f.params, args, f.env)
		if err != nil {
			raise(err)
		}
		f.body(env, func(result Value, fail2 Fail) {
			if r, ok := result.(returnValue); ok {
				succeed(r.value, fail2)
				return
			}
			succeed(UNDEFINED, fail2)
		}, fail)
	default:
		raise(newError(ErrType, "unknown function type -- %s", Inspect(f)))
	}
}

func applyPrimitive(f *Primitive, args []Value) Value {
	if f.arity >= 0 && len(args) != f.arity {
		raise(newError(ErrArityMismatch, "%s expects %d arguments, got %d: %s",
			f.name, f.arity, len(args), valueList(args)))
	}
	rv, err := f.call(args)
	if err != nil {
		raise(err)
	}
	return rv
}

// =====
// Utils
// =====

func isTruthy(v Value) bool {
	b, ok := v.(Boolean)
	if !ok {
		raise(newError(ErrType, "boolean expected, received %s", Inspect(v)))
	}
	return bool(b)
}

func mustLookup(symbol string, env *Environment) Value {
	v, err := env.Lookup(symbol)
	if err != nil {
		raise(err)
	}
	return v
}

func mustAssign(symbol string, v Value, env *Environment) {
	if err := env.Assign(symbol, v); err != nil {
		raise(err)
	}
}
