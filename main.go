package main

// implements the amb repl and script runner

import (
	"amb/eval"
	"amb/lexer"
	"amb/options"
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
)

var VERSION = "devel"
var LOGO = `
   __ _ _ __ ___ | |__   | amb evaluator
  / _' | '_ ' _ \| '_ \  | version: $VERSION
 | (_| | | | | | | |_) | | enter "retry" for another solution
  \__,_|_| |_| |_|_.__/  |
`

func sliceVersion(v string) string {
	m := 10
	if len(v) < 10 {
		m = len(v)
	}
	return v[0:m]
}

func reportErrors(errors []error) bool {
	if len(errors) == 0 {
		return false
	}
	for _, err := range errors {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}
	return true
}

func main() {
	opts, err := options.Parse(os.Args[1:], VERSION)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.Message != "" {
		fmt.Println(opts.Message)
		return
	}

	cfg := eval.Config{Out: os.Stdout, NoPrelude: opts.NoPrelude}
	if opts.Trace {
		cfg.Trace = log.New(os.Stderr, "amb: ", 0)
	}

	switch {
	case opts.Program != "":
		cfg.Filename = "<eval>"
		os.Exit(runProgram(cfg, opts.Program, opts.All))
	case opts.Script != "":
		src, err := ioutil.ReadFile(opts.Script)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg.Filename = opts.Script
		os.Exit(runProgram(cfg, string(src), opts.All))
	case opts.Interactive:
		repl(cfg, opts.History)
	default:
		runLines(cfg, os.Stdin)
	}
}

func newContext(cfg eval.Config) *eval.InteractiveContext {
	ctx, err := eval.NewInteractiveContext(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return ctx
}

// runProgram evaluates src as one problem and prints its first solution, or
// every solution when all is set.
func runProgram(cfg eval.Config, src string, all bool) int {
	ctx := newContext(cfg)
	found := 0
	out, errs := ctx.Run(src)
	for {
		if reportErrors(errs) {
			return 1
		}
		if out.Status != eval.Solution {
			break
		}
		found++
		fmt.Println(ctx.Inspect(out.Value))
		if !all {
			break
		}
		out, errs = ctx.Retry()
	}
	if found == 0 {
		fmt.Fprintln(os.Stderr, "no solutions")
		return 1
	}
	return 0
}

func printOutcome(ctx *eval.InteractiveContext, out *eval.Outcome) {
	switch out.Status {
	case eval.Solution:
		fmt.Println(ctx.Inspect(out.Value))
	case eval.Exhausted:
		fmt.Printf("no more values of:\n%s\n", out.Problem)
	case eval.NoProblem:
		fmt.Println("---  no current problem  ---")
	}
}

func runLine(ctx *eval.InteractiveContext, line string, verbose bool) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if verbose && strings.TrimSpace(line) != eval.RetryCommand {
		fmt.Println("--- starting new problem ---")
	}
	out, errs := ctx.Run(line)
	if reportErrors(errs) {
		return
	}
	printOutcome(ctx, out)
}

// runLines treats every line of r as a REPL input.
func runLines(cfg eval.Config, r io.Reader) {
	ctx := newContext(cfg)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		runLine(ctx, scanner.Text(), false)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func repl(cfg eval.Config, history string) {
	fmt.Println(strings.Replace(LOGO, "$VERSION", sliceVersion(VERSION), 1))
	ctx := newContext(cfg)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "amb> ",
		HistoryFile:     history,
		AutoComplete:    &completer{ctx: ctx},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				break
			}
			continue
		}
		if err != nil {
			break
		}
		runLine(ctx, line, true)
	}
}

// completer completes the word before the cursor with a global name, a
// keyword or "retry".
type completer struct {
	ctx *eval.InteractiveContext
}

func (c *completer) candidates() []string {
	names := c.ctx.Globals()
	names = append(names, lexer.Keywords()...)
	names = append(names, eval.RetryCommand)
	sort.Strings(names)
	return names
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	var matches [][]rune
	for _, name := range c.candidates() {
		if strings.HasPrefix(name, prefix) && name != prefix {
			matches = append(matches, []rune(name[len(prefix):]))
		}
	}
	return matches, len([]rune(prefix))
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}
