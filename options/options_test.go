package options

import (
	"strings"
	"testing"
)

func withTerminal(t *testing.T, terminal bool) {
	saved := stdinIsTerminal
	stdinIsTerminal = func() bool { return terminal }
	t.Cleanup(func() { stdinIsTerminal = saved })
}

func TestParse(t *testing.T) {
	tests := []struct {
		argv     []string
		terminal bool
		expected Options
	}{
		{nil, true, Options{Interactive: true}},
		{nil, false, Options{}},
		{[]string{"-i"}, true, Options{}},
		{[]string{"-i"}, false, Options{Interactive: true}},
		{[]string{"-a", "-t"}, true, Options{All: true, Trace: true, Interactive: true}},
		{[]string{"--no-prelude", "--history=/tmp/amb_history"}, true,
			Options{NoPrelude: true, History: "/tmp/amb_history", Interactive: true}},
		{[]string{"puzzle.amb"}, true, Options{Script: "puzzle.amb"}},
		{[]string{"-a", "puzzle.amb"}, true, Options{All: true, Script: "puzzle.amb"}},
		{[]string{"-e", "amb(1, 2);"}, true, Options{Program: "amb(1, 2);"}},
		{[]string{"-a", "--eval=amb(1, 2);"}, false, Options{All: true, Program: "amb(1, 2);"}},
	}
	for i, test := range tests {
		withTerminal(t, test.terminal)
		opts, err := Parse(test.argv, "1.0.0")
		if err != nil {
			t.Fatalf("tests[%d] (%q): unexpected error %s", i, test.argv, err)
		}
		if *opts != test.expected {
			t.Errorf("tests[%d] (%q): expected %+v, got %+v", i, test.argv, test.expected, *opts)
		}
	}
}

func TestParseMessages(t *testing.T) {
	opts, err := Parse([]string{"-h"}, "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !strings.Contains(opts.Message, "Usage:") {
		t.Errorf("expected usage, got %q", opts.Message)
	}

	opts, err = Parse([]string{"--version"}, "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if opts.Message != "1.0.0" {
		t.Errorf("expected version, got %q", opts.Message)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := [][]string{
		{"--bogus"},
		{"-e"},
		{"one.amb", "two.amb"},
		{"-i", "-e", "1;"},
	}
	for i, argv := range tests {
		if _, err := Parse(argv, "1.0.0"); err == nil {
			t.Errorf("tests[%d] (%q): expected an error", i, argv)
		}
	}
}
