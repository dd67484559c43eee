package builtins

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/angelay1006/shell/internal/executor"
	"github.com/angelay1006/shell/internal/jobs"
)

// JobControl is the part of the executor the builtins drive.
type JobControl interface {
	Foreground(jid int) error
	Background(jid int) error
	Jobs() []jobs.Job
	Close()
}

// Handler runs builtin commands inside the shell process.
type Handler struct {
	jobs   JobControl
	stdout io.Writer
	stderr io.Writer
}

func New(jc JobControl, stdout, stderr io.Writer) *Handler {
	return &Handler{jobs: jc, stdout: stdout, stderr: stderr}
}

// Handle runs builtin name and reports whether the shell should exit.
func (h *Handler) Handle(name string, args []string) (exit bool) {
	switch name {
	case "cd":
		h.cd(args)
	case "ln":
		h.ln(args)
	case "rm":
		h.rm(args)
	case "jobs":
		h.list()
	case "fg":
		h.resume("fg", args, h.jobs.Foreground)
	case "bg":
		h.resume("bg", args, h.jobs.Background)
	case "exit":
		h.jobs.Close()
		return true
	default:
		fmt.Fprintf(h.stderr, "%s: not a builtin\n", name)
	}
	return false
}

func (h *Handler) cd(args []string) {
	switch {
	case len(args) == 0:
		fmt.Fprintln(h.stderr, "cd: missing argument")
	case len(args) > 1:
		fmt.Fprintln(h.stderr, "cd: syntax error")
	default:
		if err := os.Chdir(args[0]); err != nil {
			fmt.Fprintf(h.stderr, "cd: %v\n", err)
		}
	}
}

func (h *Handler) ln(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(h.stderr, "ln: missing arguments")
		return
	}
	if err := unix.Link(args[0], args[1]); err != nil {
		fmt.Fprintf(h.stderr, "ln: %s: %v\n", args[1], err)
	}
}

func (h *Handler) rm(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(h.stderr, "rm: missing argument")
		return
	}
	if err := unix.Unlink(args[0]); err != nil {
		fmt.Fprintf(h.stderr, "rm: %s: %v\n", args[0], err)
	}
}

func (h *Handler) list() {
	for _, job := range h.jobs.Jobs() {
		fmt.Fprintf(h.stdout, "[%d] (%d) %-7s %s\n", job.ID, job.PGID, job.State, job.Cmd)
	}
}

func (h *Handler) resume(name string, args []string, fn func(int) error) {
	jid, ok := parseJobID(args)
	if !ok {
		fmt.Fprintf(h.stderr, "%s: syntax error\n", name)
		return
	}

	err := fn(jid)
	switch {
	case err == nil:
	case errors.Is(err, executor.ErrNoSuchJob):
		fmt.Fprintf(h.stderr, "%s: no such job\n", name)
	default:
		fmt.Fprintf(h.stderr, "%s: %v\n", name, err)
	}
}

// parseJobID reads a "%N" job reference.
func parseJobID(args []string) (int, bool) {
	if len(args) == 0 || !strings.HasPrefix(args[0], "%") {
		return 0, false
	}
	jid, err := strconv.Atoi(args[0][1:])
	if err != nil {
		return 0, false
	}
	return jid, true
}
