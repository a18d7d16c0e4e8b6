package parser_test

import (
	"amb/lexer"
	"amb/parser"
	"testing"
)

func TestParserValid(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abcdef = 2;", "(abcdef = 2);"},
		{"a + b + c;", "((a + b) + c);"},
		{"a + b + (c = 7);", "((a + b) + (c = 7));"},
		{"a + b * c;", "(a + (b * c));"},
		{"a + b >= c === true;", "(((a + b) >= c) === true);"},
		{"a + !b || x;", "((a + (!b)) || x);"},
		{"a && b || c;", "((a && b) || c);"},
		{"a + -b * c / d;", "(a + (((-b) * c) / d));"},
		{"a / (c - f) % d + e;", "(((a / (c - f)) % d) + e);"},
		{"a = b = c;", "(a = (b = c));"},
		{"a !== b;", "(a !== b);"},
		{"p ? 1 : q ? 2 : 3;", "(p ? 1 : (q ? 2 : 3));"},
		{"x => x + 1;", "(x) => (x + 1);"},
		{"(a, b) => { return a; };", "(a, b) => {return a;};"},
		{"() => null;", "() => null;"},
		{"(x => x)(3);", "((x) => x)(3);"},
		{"f(1)(2);", "(f(1))(2);"},
		{"f(g(1, 2), 'x');", "f(g(1, 2), \"x\");"},
		{"const x = amb(1, 2, 3);", "const x = amb(1, 2, 3);"},
		{"let y = amb();", "let y = amb();"},
		{"require(x > 1);", "require((x > 1));"},
		{"function f(n) { return n + 1; }", "function f(n) {return (n + 1);}"},
		{"function g() { return; }", "function g() {return undefined;}"},
		{"if (x) { 1; } else { 2; }", "if (x) {1;} else {2;}"},
		{"if (x) { 1; }", "if (x) {1;} else {}"},
		{"if (a) { 1; } else if (b) { 2; } else { 3; }", "if (a) {1;} else if (b) {2;} else {3;}"},
		{"{ let x = amb(1, 2, 3); require(x > 1); x; }", "{let x = amb(1, 2, 3); require((x > 1)); x;}"},
		{"{ function f(n) { return n + 1; } f(f(2)); }", "{function f(n) {return (n + 1);} f(f(2));}"},
		{"{}", "{}"},
		{"true; false; null; 2.5;", "true; false; null; 2.5;"},
	}
	for i, test := range tests {
		var tokens []lexer.Token
		if !checkLexerErrors(t, test.input, &tokens) {
			t.Errorf("tests[%d] (%q) failed", i, test.input)
			continue
		}
		p := parser.New("", tokens)
		program := p.Parse()
		if len(p.Errors) != 0 {
			t.Errorf("tests[%d] (%q)", i, test.input)
			t.Error("parser errors:")
			for _, err := range p.Errors {
				t.Error(err.String())
			}
			continue
		}
		if program.String() != test.expected {
			t.Errorf("tests[%d] (%q)", i, test.input)
			t.Errorf("expected=%q, got=%q", test.expected, program.String())
			continue
		}
		// the printed form must parse back to the same tree.
		again, errs := parser.ParseString("", program.String())
		if len(errs) != 0 {
			t.Errorf("tests[%d] (%q) reparse failed: %v", i, test.input, errs)
			continue
		}
		if again.String() != program.String() {
			t.Errorf("tests[%d] (%q) reparse: expected=%q, got=%q", i, test.input, program.String(), again.String())
		}
	}
}

func TestParserComponents(t *testing.T) {
	program, errs := parser.ParseString("", "const f = x => -x; amb(a, b); require(p);")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	decl, ok := program.Statements[0].(*parser.Declaration)
	if !ok || decl.Kind != parser.CONSTANT || decl.Name.Symbol != "f" {
		t.Fatalf("expected const declaration of f, got=%#v", program.Statements[0])
	}
	lambda, ok := decl.Value.(*parser.Lambda)
	if !ok {
		t.Fatalf("expected lambda, got=%#v", decl.Value)
	}
	ret, ok := lambda.Body.(*parser.Return)
	if !ok {
		t.Fatalf("expected expression body to become a return, got=%#v", lambda.Body)
	}
	neg, ok := ret.Expr.(*parser.OperatorCombination)
	if !ok || neg.Operator != "-unary" || !neg.Unary() {
		t.Errorf("expected unary minus, got=%#v", ret.Expr)
	}
	if amb, ok := program.Statements[1].(*parser.Amb); !ok || len(amb.Choices) != 2 {
		t.Errorf("expected amb with 2 choices, got=%#v", program.Statements[1])
	}
	if _, ok := program.Statements[2].(*parser.Require); !ok {
		t.Errorf("expected require, got=%#v", program.Statements[2])
	}
}

func TestParserInvalid(t *testing.T) {
	tests := []struct {
		input   string
		numErrs int
	}{
		{"1 = 2; x;", 1}, // should continue parsing
		{"require(1, 2);", 1},
		{"const = 1;", 1},
		{"f(1; g(2);", 1},
		{"x + ;", 1},
		{"const x = 1", 1},
		{"1 = 2; 3 = 4;", 2},
	}
	for i, test := range tests {
		var tokens []lexer.Token
		if !checkLexerErrors(t, test.input, &tokens) {
			t.Errorf("tests[%d] (%q) failed", i, test.input)
			continue
		}
		p := parser.New("", tokens)
		p.Parse()
		if len(p.Errors) != test.numErrs {
			t.Errorf("tests[%d] (%q)", i, test.input)
			t.Errorf("expected=%d errors, got=%d", test.numErrs, len(p.Errors))
			t.Errorf("%+v\n", p.Errors)
		}
	}
}

func TestScanOutDeclarations(t *testing.T) {
	program, errs := parser.ParseString("", `
const a = 1;
function b() { const hidden = 2; }
let a = 3;
{ const inner = 4; }
c = 5;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := parser.ScanOutDeclarations(program)
	expected := []string{"a", "b"}
	if len(got) != len(expected) {
		t.Fatalf("expected=%v, got=%v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("expected=%v, got=%v", expected, got)
		}
	}
}

func TestDesugaring(t *testing.T) {
	tests := []struct {
		component parser.Component
		expected  string
	}{
		{
			parser.OperatorCombinationToApplication(&parser.OperatorCombination{
				Operator: "+",
				Operands: []parser.Component{parser.NewName("a"), parser.NewLiteral(1.0)},
			}),
			"+(a, 1)",
		},
		{
			parser.LogicalCompositionToConditional(&parser.LogicalComposition{
				Operator: "&&", Left: parser.NewName("a"), Right: parser.NewName("b"),
			}),
			"(a ? b : false)",
		},
		{
			parser.LogicalCompositionToConditional(&parser.LogicalComposition{
				Operator: "||", Left: parser.NewName("a"), Right: parser.NewName("b"),
			}),
			"(a ? true : b)",
		},
		{
			parser.FunctionDeclarationToConstant(&parser.FunctionDeclaration{
				Name:   parser.NewName("f"),
				Params: []*parser.Name{parser.NewName("x")},
				Body:   &parser.Block{Body: &parser.Sequence{Statements: []parser.Component{&parser.Return{Expr: parser.NewName("x")}}}},
			}),
			"const f = (x) => {return x;};",
		},
	}
	for i, test := range tests {
		if test.component.String() != test.expected {
			t.Errorf("tests[%d]: expected=%q, got=%q", i, test.expected, test.component.String())
		}
	}
}

func checkLexerErrors(t *testing.T, input string, out *[]lexer.Token) bool {
	l := lexer.New("", input)
	l.ScanTokens()
	if len(l.Errors) != 0 {
		t.Error("lexer errors:")
		for _, err := range l.Errors {
			t.Error(err.String())
		}
		return false
	}
	*out = l.Tokens
	return true
}
