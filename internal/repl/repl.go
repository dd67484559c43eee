package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os/signal"

	"github.com/angelay1006/shell/internal/builtins"
	"github.com/angelay1006/shell/internal/executor"
	"github.com/angelay1006/shell/internal/parser"
)

// IgnoreJobSignals makes the shell immune to the keyboard interrupt and
// stop keys and to SIGTTOU while it hands the terminal around. It is meant
// to be called once, before the first Run.
func IgnoreJobSignals() {
	signal.Ignore(executor.ShellSignals...)
}

// Shell is the read-dispatch loop of one session.
type Shell struct {
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	prompt   string
	log      *log.Logger
	exec     *executor.Executor
	builtins *builtins.Handler
}

type Options struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Prompt string
	Log    *log.Logger

	Executor *executor.Executor
}

func New(opts Options) *Shell {
	return &Shell{
		in:       bufio.NewReader(opts.In),
		out:      opts.Out,
		errOut:   opts.Err,
		prompt:   opts.Prompt,
		log:      opts.Log,
		exec:     opts.Executor,
		builtins: builtins.New(opts.Executor, opts.Out, opts.Err),
	}
}

// Run reads and executes lines until exit or end of input. It returns the
// shell's exit status.
func (s *Shell) Run() int {
	for {
		s.exec.Reap()

		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}

		input, err := s.in.ReadString('\n')
		if err != nil && input == "" {
			if !errors.Is(err, io.EOF) {
				s.log.Printf("read: %v", err)
			}
			if s.prompt != "" {
				fmt.Fprintln(s.out)
			}
			s.exec.Close()
			return 0
		}

		if s.dispatch(input) {
			return 0
		}
	}
}

// dispatch runs one input line and reports whether the shell should exit.
func (s *Shell) dispatch(input string) bool {
	cmd, err := parser.Parse(input)
	if err != nil {
		fmt.Fprintf(s.errOut, "jsh: %v\n", err)
		return false
	}

	switch c := cmd.(type) {
	case nil:
	case parser.Builtin:
		return s.builtins.Handle(c.Name, c.Args)
	case parser.External:
		s.exec.Run(c.Request)
	}
	return false
}
