package eval

import "fmt"

type ValueType uint8

const (
	_ = ValueType(iota)
	// Real values
	VT_UNDEFINED
	VT_NULL
	VT_BOOLEAN
	VT_NUMBER
	VT_STRING
	VT_PAIR
	VT_PRIMITIVE
	VT_FUNCTION
	// Runtime control
	VT_RETURN
	VT_UNASSIGNED
)

var valueTypeNames = [...]string{
	VT_UNDEFINED:  "undefined",
	VT_NULL:       "null",
	VT_BOOLEAN:    "boolean",
	VT_NUMBER:     "number",
	VT_STRING:     "string",
	VT_PAIR:       "pair",
	VT_PRIMITIVE:  "primitive function",
	VT_FUNCTION:   "compound function",
	VT_RETURN:     "return value",
	VT_UNASSIGNED: "unassigned",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) && valueTypeNames[t] != "" {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", t)
}

type Value interface {
	Type() ValueType
}

type Undefined struct{}
type Null struct{}
type Boolean bool
type Number float64
type String string

// Pair is the mutable cons cell lists are built from.
type Pair struct {
	Head Value
	Tail Value
}

type primitiveFunc func(args []Value) (Value, error)

// Primitive is a function implemented by the host.
type Primitive struct {
	name  string
	arity int // -1 for any number of arguments
	call  primitiveFunc
}

// Function is a compound function: a lambda closed over the environment it
// was created in. The body is analyzed once, when the lambda is analyzed.
type Function struct {
	params []string
	body   Executable
	env    *Environment
}

func (v Undefined) Type() ValueType  { return VT_UNDEFINED }
func (v Null) Type() ValueType       { return VT_NULL }
func (v Boolean) Type() ValueType    { return VT_BOOLEAN }
func (v Number) Type() ValueType     { return VT_NUMBER }
func (v String) Type() ValueType     { return VT_STRING }
func (v *Pair) Type() ValueType      { return VT_PAIR }
func (v *Primitive) Type() ValueType { return VT_PRIMITIVE }
func (v *Function) Type() ValueType  { return VT_FUNCTION }

// Name returns the name the primitive is installed under.
func (v *Primitive) Name() string { return v.name }

// Params returns the parameter symbols of the function.
func (v *Function) Params() []string { return v.params }

// ==========
// Singletons
// ==========

var (
	UNDEFINED  = Undefined{}
	NULL       = Null{}
	TRUE       = Boolean(true)
	FALSE      = Boolean(false)
	OK         = String("ok")
	UNASSIGNED = Value(unassigned{})
)

// ===============
// Runtime control
// ===============

// returnValue marks a value produced by a return statement, so sequences
// stop and function application can unwrap it.
type returnValue struct{ value Value }

// unassigned is bound to block locals until their declaration runs.
type unassigned struct{}

func (v returnValue) Type() ValueType { return VT_RETURN }
func (v unassigned) Type() ValueType  { return VT_UNASSIGNED }

func isReturn(v Value) bool {
	_, ok := v.(returnValue)
	return ok
}

// Unwrap returns the content of a return marker, or v itself.
func Unwrap(v Value) Value {
	if r, ok := v.(returnValue); ok {
		return r.value
	}
	return v
}

func newBool(b bool) Value {
	if b {
		return TRUE
	}
	return FALSE
}

// list builds a null-terminated list of pairs.
func list(values ...Value) Value {
	rv := Value(NULL)
	for i := len(values) - 1; i >= 0; i-- {
		rv = &Pair{Head: values[i], Tail: rv}
	}
	return rv
}
