package eval

import (
	"amb/parser"
	"bytes"
	"errors"
	"io/ioutil"
	"log"
	"strings"
	"testing"
)

const failed = "<fail>"

func mustParse(t *testing.T, src string) *parser.Sequence {
	t.Helper()
	program, errs := parser.ParseString("test", src)
	if len(errs) != 0 {
		t.Fatalf("cannot parse %q: %v", src, errs)
	}
	return program
}

// collect evaluates src in env, failing back into the search after every
// solution, and returns the printed solutions followed by "<fail>" once the
// search is exhausted.
func collect(t *testing.T, src string, env *Environment) ([]string, error) {
	t.Helper()
	program := mustParse(t, src)
	got := []string{}
	err := Evaluate(program, env, func(v Value, fail Fail) {
		got = append(got, Inspect(Unwrap(v)))
		fail()
	}, func() {
		got = append(got, failed)
	})
	return got, err
}

func expectSolutions(t *testing.T, i int, src string, got []string, expected []string) {
	t.Helper()
	if strings.Join(got, " | ") != strings.Join(expected, " | ") {
		t.Errorf("tests[%d] (%q): expected %q, got %q", i, src, expected, got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"", "undefined"},
		{"{ }", "undefined"},
		{"1 + 2;", "3"},
		{"'a' + 'b';", `"ab"`},
		{"7 / 2;", "3.5"},
		{"{ const x = 5; x * 2; }", "10"},
		{"{ function f(n) { return n + 1; } f(f(2)); }", "4"},
		{"{ function fact(n) { return n === 0 ? 1 : n * fact(n - 1); } fact(5); }", "120"},
		{"{ function f() { } f(); }", "undefined"},
		{"{ function f() { 1; } f(); }", "undefined"},
		{"{ function f(x) { if (x > 0) { return 'pos'; } else { return 'neg'; } } f(-1); }", `"neg"`},
		{"{ function f(x) { if (x > 0) { return 'pos'; } return 'neg'; } f(1); }", `"pos"`},
		{"((x, y) => x - y)(10, 4);", "6"},
		{"(x => { return x; })(1);", "1"},
		{"list(1, 2, 3);", "[1, [2, [3, null]]]"},
		{"{ let x = 1; x = x + 1; x; }", "2"},
		{"{ let x = 1; x = 5; }", "5"},
		{"true && false;", "false"},
		{"false || true;", "true"},
		{"false && undefined_name;", "false"},
		{"true || undefined_name;", "true"},
		{"{ const p = pair(1, 2); set_tail(p, p); p; }", "[1, (...)]"},
		{"{ const y = x; let x = 1; y; }", "*unassigned*"},
		{"{ const make = n => () => n; const f = make(3); f(); }", "3"},
		{"{ let n = 0; function inc() { n = n + 1; return n; } inc(); inc(); }", "2"},
	}
	for i, test := range tests {
		got, err := collect(t, test.src, SetupEnvironment(ioutil.Discard))
		if err != nil {
			t.Errorf("tests[%d] (%q): unexpected error %s", i, test.src, err)
			continue
		}
		expectSolutions(t, i, test.src, got, []string{test.expected, failed})
	}
}

func TestAmbOrder(t *testing.T) {
	tests := []struct {
		src      string
		expected []string
	}{
		{"amb();", []string{failed}},
		{"amb(1, 2, 3);", []string{"1", "2", "3", failed}},
		{"amb('c', 'b', 'a');", []string{`"c"`, `"b"`, `"a"`, failed}},
		{"amb(1, amb(2, 3), 4);", []string{"1", "2", "3", "4", failed}},
		{"list(amb(1, 2), amb('a', 'b'));", []string{
			`[1, ["a", null]]`,
			`[1, ["b", null]]`,
			`[2, ["a", null]]`,
			`[2, ["b", null]]`,
			failed,
		}},
		{"amb(1, 2) + amb(10, 20);", []string{"11", "21", "12", "22", failed}},
		{"{ function f() { return amb(1, 2); } f() * 10; }", []string{"10", "20", failed}},
	}
	for i, test := range tests {
		got, err := collect(t, test.src, SetupEnvironment(ioutil.Discard))
		if err != nil {
			t.Errorf("tests[%d] (%q): unexpected error %s", i, test.src, err)
			continue
		}
		expectSolutions(t, i, test.src, got, test.expected)
	}
}

func TestRequire(t *testing.T) {
	tests := []struct {
		src      string
		expected []string
	}{
		{"require(true);", []string{`"ok"`, failed}},
		{"require(false);", []string{failed}},
		{"{ let x = amb(1, 2, 3); require(x > 1); x; }", []string{"2", "3", failed}},
		{"{ const x = amb(1, 2, 3, 4, 5, 6); require(x % 2 === 0); x; }", []string{"2", "4", "6", failed}},
		{"{ const x = amb(1, 2); const y = amb(1, 2); require(x !== y); list(x, y); }", []string{
			"[1, [2, null]]",
			"[2, [1, null]]",
			failed,
		}},
	}
	for i, test := range tests {
		got, err := collect(t, test.src, SetupEnvironment(ioutil.Discard))
		if err != nil {
			t.Errorf("tests[%d] (%q): unexpected error %s", i, test.src, err)
			continue
		}
		expectSolutions(t, i, test.src, got, test.expected)
	}
}

func TestRequireSkipsRest(t *testing.T) {
	var out bytes.Buffer
	got, err := collect(t, "{ require(false); display('reached'); }", SetupEnvironment(&out))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	expectSolutions(t, 0, "require(false)", got, []string{failed})
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}

	out.Reset()
	got, err = collect(t, "{ require(true); display('reached'); }", SetupEnvironment(&out))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	expectSolutions(t, 1, "require(true)", got, []string{`"reached"`, failed})
	if out.String() != "reached\n" {
		t.Errorf("expected output, got %q", out.String())
	}
}

func TestAssignmentUndo(t *testing.T) {
	tests := []struct {
		src  string
		seen []string // value of x at each solution
	}{
		{"{ const y = amb(1, 2); x = y * 10; x; }", []string{"10", "20"}},
		{"{ x = 5; const y = amb(1, 2); y; }", []string{"5", "5"}},
		{"{ x = amb(1, 2); x = x + 100; require(x > 101); x; }", []string{"102"}},
	}
	for i, test := range tests {
		env := SetupEnvironment(ioutil.Discard)
		env.Define("x", Number(0))
		program := mustParse(t, test.src)
		seen := []string{}
		exhausted := false
		err := Evaluate(program, env, func(v Value, fail Fail) {
			x, _ := env.Lookup("x")
			seen = append(seen, Inspect(x))
			fail()
		}, func() {
			exhausted = true
		})
		if err != nil {
			t.Errorf("tests[%d] (%q): unexpected error %s", i, test.src, err)
			continue
		}
		expectSolutions(t, i, test.src, seen, test.seen)
		if !exhausted {
			t.Errorf("tests[%d] (%q): search not exhausted", i, test.src)
		}
		if x, _ := env.Lookup("x"); x != Number(0) {
			t.Errorf("tests[%d] (%q): expected x restored to 0, got %s", i, test.src, Inspect(x))
		}
	}
}

func TestArityMismatch(t *testing.T) {
	tests := []struct {
		src      string
		contains []string
	}{
		{"{ function f(x, y) { return x; } f(1); }", []string{"too few", "[x, y]", "[1]"}},
		{"{ function f(x, y) { return x; } f(1, 2, 3); }", []string{"too many", "[x, y]", "[1, 2, 3]"}},
		{"((x) => x)();", []string{"too few", "[x]", "[]"}},
		{"head(1, 2);", []string{"head", "[1, 2]"}},
	}
	for i, test := range tests {
		_, err := collect(t, test.src, SetupEnvironment(ioutil.Discard))
		if !errors.Is(err, ErrArityMismatch) {
			t.Errorf("tests[%d] (%q): expected arity mismatch, got %v", i, test.src, err)
			continue
		}
		for _, s := range test.contains {
			if !strings.Contains(err.Error(), s) {
				t.Errorf("tests[%d] (%q): expected %q in %q", i, test.src, s, err.Error())
			}
		}
	}
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind error
	}{
		{"y;", ErrUnboundName},
		{"y = 1;", ErrUnboundName},
		{"amb;", ErrUnboundName},
		{"1(2);", ErrType},
		{"'f'();", ErrType},
		{"if (1) { 2; } else { 3; }", ErrType},
		{"1 ? 2 : 3;", ErrType},
		{"require(1);", ErrType},
		{"1 && true;", ErrType},
		{"!1;", ErrType},
		{"head(null);", ErrType},
		{"1 + true;", ErrType},
		{"1 < 'a';", ErrType},
		{"math_abs(1, 2);", ErrArityMismatch},
		{"error('boom');", ErrHost},
		{"{ const x = amb(1, 2); require(x > 1); error(x); }", ErrHost},
	}
	for i, test := range tests {
		_, err := collect(t, test.src, SetupEnvironment(ioutil.Discard))
		if !errors.Is(err, test.kind) {
			t.Errorf("tests[%d] (%q): expected %v, got %v", i, test.src, test.kind, err)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"y;", "unbound name: y"},
		{"y = 1;", "unbound name: y -- assignment"},
		{"error('boom');", "error: boom"},
		{"error(list(1), 'bad list:');", "error: bad list: [1, null]"},
		{"require(1);", "type error: boolean expected, received 1"},
	}
	for i, test := range tests {
		_, err := collect(t, test.src, SetupEnvironment(ioutil.Discard))
		if err == nil || err.Error() != test.expected {
			t.Errorf("tests[%d] (%q): expected %q, got %v", i, test.src, test.expected, err)
		}
	}
}

func TestAnalyzeUnknownSyntax(t *testing.T) {
	tests := []parser.Component{
		nil,
		&parser.Literal{Value: 1},
		parser.NewApplication(parser.NewName("f"), []parser.Component{nil}),
	}
	for i, c := range tests {
		_, err := Analyze(c)
		if !errors.Is(err, ErrUnknownSyntax) {
			t.Errorf("tests[%d]: expected unknown syntax, got %v", i, err)
		}
	}
}

func TestAnalyzeTwice(t *testing.T) {
	src := "{ function sq(n) { return n * n; } list(sq(3), amb(1, 2)); }"
	program := mustParse(t, src)
	run := func() []string {
		exec, err := Analyze(program)
		if err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		got := []string{}
		err = Resume(func() {
			exec(SetupEnvironment(ioutil.Discard), func(v Value, fail Fail) {
				got = append(got, Inspect(v))
				fail()
			}, func() {
				got = append(got, failed)
			})
		})
		if err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		return got
	}
	first := run()
	second := run()
	expectSolutions(t, 0, src, first, []string{"[9, [1, null]]", "[9, [2, null]]", failed})
	expectSolutions(t, 1, src, second, first)
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	a := &Analyzer{Trace: log.New(&buf, "", 0)}
	program := mustParse(t, "{ let x = 0; x = amb(1, 2); require(x > 5); }")
	err := a.Evaluate(program, SetupEnvironment(ioutil.Discard), func(Value, Fail) {
		t.Errorf("unexpected solution")
	}, func() {})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	for _, s := range []string{
		"amb: trying choice 1 of 2",
		"amb: trying choice 2 of 2",
		"amb: no more choices",
		"require: (x > 5) is false",
		"undo: x = 0",
	} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("expected %q in trace:\n%s", s, buf.String())
		}
	}
}
