package options

import (
	"errors"
	"os"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

const usage = `amb

Usage:
  amb [-a] [-i] [-t] [--no-prelude] [--history=FILE] [SCRIPT]
  amb [-a] [-t] [--no-prelude] -e PROGRAM
  amb -h
  amb -v

Arguments:
  SCRIPT  Path to a program, evaluated as a single problem.

Options:
  -e, --eval=PROGRAM  Evaluate PROGRAM as a single problem.
  -a, --all           Print every solution, not only the first.
  -i, --interactive   Invert interactive mode.
  -t, --trace         Log choice points, failed requirements and undone
                      assignments to stderr.
  --no-prelude        Do not define the prelude functions.
  --history=FILE      Keep the line editing history in FILE.
  -h, --help          Display this help.
  -v, --version       Print amb version.

If amb's stdin is a TTY and neither SCRIPT nor PROGRAM is given, amb starts
an interactive session. Enter "retry" to ask for another solution of the
current problem.
`

// Options is the parsed command line.
type Options struct {
	All         bool
	Interactive bool
	Trace       bool
	NoPrelude   bool
	History     string
	Program     string
	Script      string

	// Message is set when the command line asked for help or the version;
	// it should be printed instead of running anything.
	Message string
}

var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Parse parses argv (without the program name).
func Parse(argv []string, version string) (*Options, error) {
	if argv == nil {
		// docopt reads os.Args for a nil slice.
		argv = []string{}
	}
	var message string
	parser := &docopt.Parser{
		HelpHandler: func(err error, output string) {
			message = strings.TrimSpace(output)
		},
	}
	opts, err := parser.ParseArgs(usage, argv, version)
	if err != nil {
		if message == "" {
			return nil, err
		}
		return nil, errors.New(message)
	}
	if message != "" {
		return &Options{Message: message}, nil
	}

	o := &Options{}
	o.All, _ = opts.Bool("--all")
	o.Trace, _ = opts.Bool("--trace")
	o.NoPrelude, _ = opts.Bool("--no-prelude")
	o.History, _ = opts.String("--history")
	o.Program, _ = opts.String("--eval")
	o.Script, _ = opts.String("SCRIPT")

	if o.Script == "" && o.Program == "" && stdinIsTerminal() {
		o.Interactive = true
	}
	invert, _ := opts.Bool("--interactive")
	o.Interactive = o.Interactive != invert
	return o, nil
}

// Usage returns the usage document.
func Usage() string {
	return usage
}
