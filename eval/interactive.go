package eval

import (
	"amb/parser"
	"amb/resolver"
	"io"
	"log"
	"strings"
)

// RetryCommand is the input that asks for another solution of the current
// problem instead of starting a new one.
const RetryCommand = "retry"

type Status uint8

const (
	_ = Status(iota)
	Solution  // Value holds the next solution
	Exhausted // the current problem has no more solutions
	NoProblem // retry was asked for with no current problem
)

type Outcome struct {
	Status  Status
	Value   Value
	Problem string
}

type Config struct {
	Filename  string
	Out       io.Writer // where display() writes
	Trace     *log.Logger
	NoPrelude bool
}

// InteractiveContext runs one problem at a time against environments that
// outlive the problems. Top-level declarations of a problem are bound in a
// user frame extending the global one, so later problems can use them while
// primitives and the prelude stay untouched.
type InteractiveContext struct {
	Filename string
	global   *Environment
	env      *Environment // user frame
	res      *resolver.Resolver
	analyzer *Analyzer
	problem  string
	retry    Fail
	outcome  *Outcome
}

func NewInteractiveContext(cfg Config) (*InteractiveContext, error) {
	if cfg.Filename == "" {
		cfg.Filename = "<stdin>"
	}
	env := SetupEnvironment(cfg.Out)
	if !cfg.NoPrelude {
		if err := LoadPrelude(env); err != nil {
			return nil, err
		}
	}
	res := resolver.New(cfg.Filename)
	res.AddGlobals(env.Symbols())
	user, err := Extend(nil, nil, env)
	if err != nil {
		return nil, err
	}
	return &InteractiveContext{
		Filename: cfg.Filename,
		global:   env,
		env:      user,
		res:      res,
		analyzer: &Analyzer{Trace: cfg.Trace},
	}, nil
}

// Environment returns the user frame problems are evaluated in.
func (ic *InteractiveContext) Environment() *Environment { return ic.env }

// Globals lists the names visible to a problem: user declarations first,
// then primitives and prelude functions not shadowed by them.
func (ic *InteractiveContext) Globals() []string {
	names := ic.env.Symbols()
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for _, name := range ic.global.Symbols() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

func (ic *InteractiveContext) Inspect(v Value) string { return Inspect(v) }

// Run evaluates input as a new problem, or asks for the next solution of
// the current one when input is "retry". Lexer, parser and resolver errors,
// as well as fatal evaluation errors, are returned as errors; a fatal error
// drops the current problem.
func (ic *InteractiveContext) Run(input string) (*Outcome, []error) {
	if strings.TrimSpace(input) == RetryCommand {
		return ic.Retry()
	}
	program, errs := parser.ParseString(ic.Filename, input)
	if len(errs) != 0 {
		return nil, errs
	}
	if errs := ic.res.Resolve(program); len(errs) != 0 {
		return nil, errs
	}
	ic.env.DeclareProgram(program)
	ic.problem = input
	ic.retry = nil
	ic.outcome = nil
	if err := ic.analyzer.Evaluate(program, ic.env, ic.succeed, ic.fail); err != nil {
		ic.retry = nil
		return nil, []error{err}
	}
	return ic.result(), nil
}

// Retry resumes the current problem to find its next solution.
func (ic *InteractiveContext) Retry() (*Outcome, []error) {
	if ic.retry == nil {
		return &Outcome{Status: NoProblem}, nil
	}
	ic.outcome = nil
	if err := Resume(ic.retry); err != nil {
		ic.retry = nil
		return nil, []error{err}
	}
	return ic.result(), nil
}

func (ic *InteractiveContext) succeed(v Value, next Fail) {
	ic.retry = next
	ic.outcome = &Outcome{Status: Solution, Value: Unwrap(v), Problem: ic.problem}
}

func (ic *InteractiveContext) fail() {
	ic.retry = nil
	ic.outcome = &Outcome{Status: Exhausted, Problem: ic.problem}
}

func (ic *InteractiveContext) result() *Outcome {
	if ic.outcome == nil {
		ic.retry = nil
		return &Outcome{Status: Exhausted, Problem: ic.problem}
	}
	return ic.outcome
}
