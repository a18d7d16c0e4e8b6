package eval

import (
	"fmt"
	"io"
	"math"
)

// SetupEnvironment builds the global environment: one frame, extending the
// empty environment, holding every primitive function and constant.
// display writes to out.
func SetupEnvironment(out io.Writer) *Environment {
	primitives := primitiveFunctions(out)
	symbols := make([]string, 0, len(primitives)+len(primitiveConstants))
	values := make([]Value, 0, cap(symbols))
	for _, p := range primitives {
		symbols = append(symbols, p.name)
		values = append(values, p)
	}
	for _, c := range primitiveConstants {
		symbols = append(symbols, c.name)
		values = append(values, c.value)
	}
	env, err := Extend(symbols, values, nil)
	if err != nil {
		panic(err)
	}
	return env
}

var primitiveConstants = []struct {
	name  string
	value Value
}{
	{"undefined", UNDEFINED},
	{"Infinity", Number(math.Inf(1))},
	{"math_PI", Number(math.Pi)},
	{"math_E", Number(math.E)},
	{"NaN", Number(math.NaN())},
}

func primitiveFunctions(out io.Writer) []*Primitive {
	return []*Primitive{
		{"head", 1, bi_head},
		{"tail", 1, bi_tail},
		{"pair", 2, bi_pair},
		{"list", -1, bi_list},
		{"set_head", 2, bi_set_head},
		{"set_tail", 2, bi_set_tail},
		{"is_null", 1, isType(VT_NULL)},
		{"is_pair", 1, isType(VT_PAIR)},
		{"is_number", 1, isType(VT_NUMBER)},
		{"is_string", 1, isType(VT_STRING)},
		{"is_boolean", 1, isType(VT_BOOLEAN)},
		{"is_undefined", 1, isType(VT_UNDEFINED)},
		{"is_function", 1, bi_is_function},
		{"display", -1, displayTo(out)},
		{"error", -1, bi_error},
		{"stringify", 1, bi_stringify},
		{"math_abs", 1, mathFunc("math_abs", math.Abs)},
		{"math_floor", 1, mathFunc("math_floor", math.Floor)},
		{"math_sqrt", 1, mathFunc("math_sqrt", math.Sqrt)},
		{"+", 2, bi_plus},
		{"-", 2, arithmetic("-", func(x, y float64) float64 { return x - y })},
		{"*", 2, arithmetic("*", func(x, y float64) float64 { return x * y })},
		{"/", 2, arithmetic("/", func(x, y float64) float64 { return x / y })},
		{"%", 2, arithmetic("%", math.Mod)},
		{"-unary", 1, mathFunc("-", func(x float64) float64 { return -x })},
		{"===", 2, bi_equal},
		{"!==", 2, bi_not_equal},
		{"<", 2, comparison("<", func(c int) bool { return c < 0 })},
		{"<=", 2, comparison("<=", func(c int) bool { return c <= 0 })},
		{">", 2, comparison(">", func(c int) bool { return c > 0 })},
		{">=", 2, comparison(">=", func(c int) bool { return c >= 0 })},
		{"!", 1, bi_not},
	}
}

// =====
// Lists
// =====

func expectPair(name string, v Value) (*Pair, error) {
	p, ok := v.(*Pair)
	if !ok {
		return nil, newError(ErrType, "%s expects a pair, got %s", name, Inspect(v))
	}
	return p, nil
}

func bi_head(args []Value) (Value, error) {
	p, err := expectPair("head", args[0])
	if err != nil {
		return nil, err
	}
	return p.Head, nil
}

func bi_tail(args []Value) (Value, error) {
	p, err := expectPair("tail", args[0])
	if err != nil {
		return nil, err
	}
	return p.Tail, nil
}

func bi_pair(args []Value) (Value, error) {
	return &Pair{Head: args[0], Tail: args[1]}, nil
}

func bi_list(args []Value) (Value, error) {
	return list(args...), nil
}

func bi_set_head(args []Value) (Value, error) {
	p, err := expectPair("set_head", args[0])
	if err != nil {
		return nil, err
	}
	p.Head = args[1]
	return UNDEFINED, nil
}

func bi_set_tail(args []Value) (Value, error) {
	p, err := expectPair("set_tail", args[0])
	if err != nil {
		return nil, err
	}
	p.Tail = args[1]
	return UNDEFINED, nil
}

// ==========
// Predicates
// ==========

func isType(t ValueType) primitiveFunc {
	return func(args []Value) (Value, error) {
		return newBool(args[0].Type() == t), nil
	}
}

func bi_is_function(args []Value) (Value, error) {
	t := args[0].Type()
	return newBool(t == VT_FUNCTION || t == VT_PRIMITIVE), nil
}

// ======
// Output
// ======

// displayTo prints its first argument, preceded by the second when given,
// and returns the first.
func displayTo(out io.Writer) primitiveFunc {
	return func(args []Value) (Value, error) {
		switch len(args) {
		case 1:
			fmt.Fprintln(out, display(args[0]))
		case 2:
			fmt.Fprintln(out, display(args[1]), display(args[0]))
		default:
			return nil, newError(ErrArityMismatch, "display expects 1 or 2 arguments, got %d", len(args))
		}
		return args[0], nil
	}
}

func bi_error(args []Value) (Value, error) {
	switch len(args) {
	case 1:
		return nil, newError(ErrHost, "%s", display(args[0]))
	case 2:
		return nil, newError(ErrHost, "%s %s", display(args[1]), Inspect(args[0]))
	}
	return nil, newError(ErrArityMismatch, "error expects 1 or 2 arguments, got %d", len(args))
}

func bi_stringify(args []Value) (Value, error) {
	return String(Inspect(args[0])), nil
}

// ==========
// Arithmetic
// ==========

func expectNumber(op string, v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, newError(ErrType, "%s expects a number, got %s", op, Inspect(v))
	}
	return float64(n), nil
}

func mathFunc(name string, f func(float64) float64) primitiveFunc {
	return func(args []Value) (Value, error) {
		x, err := expectNumber(name, args[0])
		if err != nil {
			return nil, err
		}
		return Number(f(x)), nil
	}
}

func arithmetic(op string, f func(x, y float64) float64) primitiveFunc {
	return func(args []Value) (Value, error) {
		x, err := expectNumber(op, args[0])
		if err != nil {
			return nil, err
		}
		y, err := expectNumber(op, args[1])
		if err != nil {
			return nil, err
		}
		return Number(f(x, y)), nil
	}
}

// bi_plus adds numbers and concatenates when either operand is a string.
func bi_plus(args []Value) (Value, error) {
	_, lstr := args[0].(String)
	_, rstr := args[1].(String)
	if lstr || rstr {
		return String(display(args[0]) + display(args[1])), nil
	}
	return arithmetic("+", func(x, y float64) float64 { return x + y })(args)
}

// ===========
// Comparisons
// ===========

func bi_equal(args []Value) (Value, error) {
	return newBool(strictEqual(args[0], args[1])), nil
}

func bi_not_equal(args []Value) (Value, error) {
	return newBool(!strictEqual(args[0], args[1])), nil
}

// strictEqual is ===: same type and same value for primitives, identity
// for pairs and functions.
func strictEqual(left, right Value) bool {
	if left.Type() != right.Type() {
		return false
	}
	switch l := left.(type) {
	case Number:
		return float64(l) == float64(right.(Number))
	case *Pair:
		return l == right.(*Pair)
	case *Primitive:
		return l == right.(*Primitive)
	case *Function:
		return l == right.(*Function)
	}
	return left == right
}

// comparison orders two numbers or two strings.
func comparison(op string, test func(int) bool) primitiveFunc {
	return func(args []Value) (Value, error) {
		switch l := args[0].(type) {
		case Number:
			if r, ok := args[1].(Number); ok {
				if math.IsNaN(float64(l)) || math.IsNaN(float64(r)) {
					return FALSE, nil
				}
				return newBool(test(compareFloats(float64(l), float64(r)))), nil
			}
		case String:
			if r, ok := args[1].(String); ok {
				return newBool(test(compareStrings(string(l), string(r)))), nil
			}
		}
		return nil, newError(ErrType, "%s expects two numbers or two strings, got %s and %s",
			op, Inspect(args[0]), Inspect(args[1]))
	}
}

func compareFloats(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareStrings(x, y string) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func bi_not(args []Value) (Value, error) {
	b, ok := args[0].(Boolean)
	if !ok {
		return nil, newError(ErrType, "! expects a boolean, got %s", Inspect(args[0]))
	}
	return newBool(!bool(b)), nil
}
