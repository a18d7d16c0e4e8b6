package eval

import (
	"bytes"
	"math"
	"strconv"
)

// This file implements the printed form of values. Pairs are shown as
// [head, tail]; set_tail can make a list contain itself, so pairs already
// being printed are shown as (...).

type valueInspector func(v Value) string

// Inspect returns the printed form of a value.
func Inspect(v Value) string {
	seen := map[*Pair]bool{}
	var visit valueInspector
	visit = func(v Value) string {
		p, ok := v.(*Pair)
		if !ok {
			return stringify(v)
		}
		if seen[p] {
			return "(...)"
		}
		seen[p] = true
		defer delete(seen, p)
		return p.inspect(visit)
	}
	return visit(v)
}

func (v *Pair) inspect(f valueInspector) string {
	var buf bytes.Buffer
	buf.WriteString("[")
	buf.WriteString(f(v.Head))
	buf.WriteString(", ")
	buf.WriteString(f(v.Tail))
	buf.WriteString("]")
	return buf.String()
}

func stringify(v Value) string {
	switch v := v.(type) {
	case String:
		return strconv.Quote(string(v))
	case *Pair:
		return Inspect(v)
	case Stringer:
		return v.String()
	}
	return "<unknown>"
}

// =========
// Stringify
// =========

type Stringer interface {
	String() string
}

func (v Undefined) String() string { return "undefined" }
func (v Null) String() string      { return "null" }
func (v Boolean) String() string {
	if v {
		return "true"
	}
	return "false"
}
func (v String) String() string { return string(v) }

func (v Number) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v *Primitive) String() string  { return "<primitive-function>" }
func (v *Function) String() string   { return "<compound-function>" }
func (v returnValue) String() string { return "return " + Inspect(v.value) }
func (v unassigned) String() string  { return "*unassigned*" }
func (v *Pair) String() string       { return Inspect(v) }

// display renders a value the way display() prints it: strings without
// quotes, everything else in printed form.
func display(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return Inspect(v)
}
