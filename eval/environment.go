package eval

import (
	"amb/parser"
	"strings"
)

// cell is a mutable binding slot. Frames hand out cells, not values, so
// that an assignment is seen by every closure holding the frame.
type cell struct {
	value Value
}

// Environment is one frame of bindings plus the environment it extends.
// The nil *Environment is the empty environment: lookups and assignments
// that reach it fail with ErrUnboundName.
type Environment struct {
	symbols []string
	store   map[string]*cell
	outer   *Environment
}

func newEnvironment(outer *Environment) *Environment {
	return &Environment{
		store: map[string]*cell{},
		outer: outer,
	}
}

// Extend returns a new frame binding symbols to values, linked to base.
// base itself is not modified. When a symbol occurs twice the first binding
// wins.
func Extend(symbols []string, values []Value, base *Environment) (*Environment, error) {
	if len(symbols) != len(values) {
		which := "few"
		if len(symbols) < len(values) {
			which = "many"
		}
		return nil, newError(ErrArityMismatch, "too %s arguments supplied: %s, %s",
			which, symbolList(symbols), valueList(values))
	}
	env := newEnvironment(base)
	for i, symbol := range symbols {
		env.Define(symbol, values[i])
	}
	return env, nil
}

// Enclosing returns the environment this frame extends.
func (e *Environment) Enclosing() *Environment { return e.outer }

// Symbols returns the names bound in this frame, in binding order.
func (e *Environment) Symbols() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.symbols...)
}

// Define binds name in this frame. A name already bound in the frame keeps
// its cell.
func (e *Environment) Define(name string, value Value) {
	if _, ok := e.store[name]; ok {
		return
	}
	e.symbols = append(e.symbols, name)
	e.store[name] = &cell{value: value}
}

// DeclareProgram binds the names declared at the top level of program in
// this frame, unassigned until their declarations run. Blocks do this for
// their own bodies; a program evaluated directly in an environment needs it
// first.
func (e *Environment) DeclareProgram(program *parser.Sequence) {
	for _, symbol := range parser.ScanOutDeclarations(program) {
		e.Define(symbol, UNASSIGNED)
	}
}

// resolve finds the cell bound to name, walking outward.
func (e *Environment) resolve(name string) (*cell, bool) {
	for env := e; env != nil; env = env.outer {
		if c, ok := env.store[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Lookup returns the value bound to name in the nearest frame binding it.
func (e *Environment) Lookup(name string) (Value, error) {
	c, ok := e.resolve(name)
	if !ok {
		return nil, newError(ErrUnboundName, "%s", name)
	}
	return c.value, nil
}

// Assign changes the value in the nearest cell bound to name.
func (e *Environment) Assign(name string, value Value) error {
	c, ok := e.resolve(name)
	if !ok {
		return newError(ErrUnboundName, "%s -- assignment", name)
	}
	c.value = value
	return nil
}

func symbolList(symbols []string) string {
	return "[" + strings.Join(symbols, ", ") + "]"
}

func valueList(values []Value) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = Inspect(v)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}
