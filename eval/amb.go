package eval

import "amb/parser"

// The nondeterministic parts of the analyzer. amb is the only source of
// alternatives; require and exhausted ambs fail. Assignments are undone when
// a failure backtracks past them: the resumption an assignment hands on
// restores the old value before continuing, so the chain of resumptions is
// the undo log.

func (a *Analyzer) analyzeAmb(c *parser.Amb) Executable {
	choices := make([]Executable, len(c.Choices))
	for i, choice := range c.Choices {
		choices[i] = a.analyze(choice)
	}
	return func(env *Environment, succeed Succeed, fail Fail) {
		var tryNext func(i int)
		tryNext = func(i int) {
			if i == len(choices) {
				if len(choices) > 0 {
					a.tracef("amb: no more choices in %s", c)
				}
				fail()
				return
			}
			a.tracef("amb: trying choice %d of %d in %s", i+1, len(choices), c)
			choices[i](env, succeed, func() {
				tryNext(i + 1)
			})
		}
		tryNext(0)
	}
}

func (a *Analyzer) analyzeRequire(c *parser.Require) Executable {
	pred := a.analyze(c.Predicate)
	return func(env *Environment, succeed Succeed, fail Fail) {
		pred(env, func(v Value, fail2 Fail) {
			if isTruthy(v) {
				succeed(OK, fail2)
				return
			}
			a.tracef("require: %s is false", c.Predicate)
			fail2()
		}, fail)
	}
}

func (a *Analyzer) analyzeAssignment(c *parser.Assignment) Executable {
	symbol := c.Name.Symbol
	value := a.analyze(c.Value)
	return func(env *Environment, succeed Succeed, fail Fail) {
		value(env, func(v Value, fail2 Fail) {
			old, err := env.Lookup(symbol)
			if err != nil {
				raise(newError(ErrUnboundName, "%s -- assignment", symbol))
			}
			mustAssign(symbol, v, env)
			succeed(v, func() {
				a.tracef("undo: %s = %s", symbol, Inspect(old))
				mustAssign(symbol, old, env)
				fail2()
			})
		}, fail)
	}
}
