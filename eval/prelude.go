package eval

import (
	"amb/parser"
	"fmt"
)

// preludeSource holds the list and search helpers amb programs are
// usually written with.
const preludeSource = `
function an_element_of(items) {
    require(!is_null(items));
    return amb(head(items), an_element_of(tail(items)));
}
function an_integer_between(low, high) {
    require(low <= high);
    return amb(low, an_integer_between(low + 1, high));
}
function an_integer_starting_from(n) {
    return amb(n, an_integer_starting_from(n + 1));
}
function member(item, items) {
    return is_null(items)
        ? null
        : item === head(items)
        ? items
        : member(item, tail(items));
}
function distinct(items) {
    return is_null(items)
        ? true
        : is_null(tail(items))
        ? true
        : is_null(member(head(items), tail(items)))
        ? distinct(tail(items))
        : false;
}
function length(items) {
    return is_null(items) ? 0 : 1 + length(tail(items));
}
function list_ref(items, n) {
    return n === 0 ? head(items) : list_ref(tail(items), n - 1);
}
function map(f, items) {
    return is_null(items) ? null : pair(f(head(items)), map(f, tail(items)));
}
function append(xs, ys) {
    return is_null(xs) ? ys : pair(head(xs), append(tail(xs), ys));
}
`

// LoadPrelude defines the prelude functions in env.
func LoadPrelude(env *Environment) error {
	program, errs := parser.ParseString("<prelude>", preludeSource)
	if len(errs) != 0 {
		return errs[0]
	}
	env.DeclareProgram(program)
	ok := false
	err := Evaluate(program, env, func(Value, Fail) { ok = true }, func() {})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("prelude failed to load")
	}
	return nil
}
