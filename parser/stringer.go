package parser

import (
	"bytes"
	"strconv"
	"strings"
)

// String methods print components back in surface syntax. Expressions are
// fully parenthesised so that the printed form parses back to the same tree.

func joinComponents(cs []Component, sep string) string {
	strs := make([]string, len(cs))
	for i, c := range cs {
		strs[i] = c.String()
	}
	return strings.Join(strs, sep)
}

func joinNames(names []*Name) string {
	return strings.Join(Symbols(names), ", ")
}

// statementString renders a component in statement position, adding the
// terminating ; to bare expressions.
func statementString(c Component) string {
	switch c := c.(type) {
	case *Declaration, *FunctionDeclaration, *Return, *Block, *Sequence:
		return c.String()
	case *Conditional:
		if c.Statement {
			return c.String()
		}
	}
	return c.String() + ";"
}

// Statements

func (node *Sequence) String() string {
	stmts := make([]string, len(node.Statements))
	for i, stmt := range node.Statements {
		stmts[i] = statementString(stmt)
	}
	return strings.Join(stmts, " ")
}

func (node *Block) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	buf.WriteString(statementString(node.Body))
	buf.WriteString("}")
	return buf.String()
}

func (node *Declaration) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Kind.String())
	buf.WriteString(" ")
	buf.WriteString(node.Name.String())
	buf.WriteString(" = ")
	buf.WriteString(node.Value.String())
	buf.WriteString(";")
	return buf.String()
}

func (node *FunctionDeclaration) String() string {
	var buf bytes.Buffer
	buf.WriteString("function ")
	buf.WriteString(node.Name.String())
	buf.WriteString("(")
	buf.WriteString(joinNames(node.Params))
	buf.WriteString(") ")
	buf.WriteString(node.Body.String())
	return buf.String()
}

func (node *Return) String() string {
	return "return " + node.Expr.String() + ";"
}

// Expressions

func (node *Conditional) String() string {
	var buf bytes.Buffer
	if node.Statement {
		buf.WriteString("if (")
		buf.WriteString(node.Predicate.String())
		buf.WriteString(") ")
		buf.WriteString(node.Consequent.String())
		buf.WriteString(" else ")
		buf.WriteString(node.Alternative.String())
		return buf.String()
	}
	buf.WriteString("(")
	buf.WriteString(node.Predicate.String())
	buf.WriteString(" ? ")
	buf.WriteString(node.Consequent.String())
	buf.WriteString(" : ")
	buf.WriteString(node.Alternative.String())
	buf.WriteString(")")
	return buf.String()
}

func (node *Lambda) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	buf.WriteString(joinNames(node.Params))
	buf.WriteString(") => ")
	if ret, ok := node.Body.(*Return); ok {
		buf.WriteString(ret.Expr.String())
	} else {
		buf.WriteString(node.Body.String())
	}
	return buf.String()
}

func (node *Assignment) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	buf.WriteString(node.Name.String())
	buf.WriteString(" = ")
	buf.WriteString(node.Value.String())
	buf.WriteString(")")
	return buf.String()
}

func (node *OperatorCombination) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	if node.Unary() {
		buf.WriteString(strings.TrimSuffix(node.Operator, "unary"))
		buf.WriteString(node.Operands[0].String())
	} else {
		buf.WriteString(node.Operands[0].String())
		buf.WriteString(" ")
		buf.WriteString(node.Operator)
		buf.WriteString(" ")
		buf.WriteString(node.Operands[1].String())
	}
	buf.WriteString(")")
	return buf.String()
}

func (node *LogicalComposition) String() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	buf.WriteString(node.Left.String())
	buf.WriteString(" ")
	buf.WriteString(node.Operator)
	buf.WriteString(" ")
	buf.WriteString(node.Right.String())
	buf.WriteString(")")
	return buf.String()
}

func (node *Application) String() string {
	var buf bytes.Buffer
	if _, ok := node.Function.(*Name); ok {
		buf.WriteString(node.Function.String())
	} else {
		buf.WriteString("(")
		buf.WriteString(node.Function.String())
		buf.WriteString(")")
	}
	buf.WriteString("(")
	buf.WriteString(joinComponents(node.Args, ", "))
	buf.WriteString(")")
	return buf.String()
}

func (node *Amb) String() string {
	return "amb(" + joinComponents(node.Choices, ", ") + ")"
}

func (node *Require) String() string {
	return "require(" + node.Predicate.String() + ")"
}

func (node *Name) String() string { return node.Symbol }

func (node *Literal) String() string {
	switch v := node.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	}
	return "<invalid literal>"
}
