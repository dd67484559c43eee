package executor

import (
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/sys/unix"

	"github.com/angelay1006/shell/internal/jobs"
	"github.com/angelay1006/shell/internal/parser"
)

// ErrNoSuchJob is returned by Foreground and Background for an unknown
// job id.
var ErrNoSuchJob = errors.New("no such job")

// Executor launches external commands and runs job control for one shell
// session. It owns the session's job table.
type Executor struct {
	sys   System
	term  *Terminal
	table *jobs.Table
	out   io.Writer
	log   *log.Logger
	debug bool
}

// Options configures an Executor.
type Options struct {
	System   System
	Terminal *Terminal
	Table    *jobs.Table
	// Out receives job status reports.
	Out io.Writer
	// Log receives diagnostics for failed OS calls.
	Log   *log.Logger
	Debug bool
}

func New(opts Options) *Executor {
	return &Executor{
		sys:   opts.System,
		term:  opts.Terminal,
		table: opts.Table,
		out:   opts.Out,
		log:   opts.Log,
		debug: opts.Debug,
	}
}

// Run launches req. A foreground command is waited for; a background one
// is added to the job table and reported.
func (e *Executor) Run(req parser.Request) {
	if req.Path == "" {
		return
	}

	pid, err := e.sys.Start(req, req.Foreground)
	if err != nil {
		e.log.Printf("%v", err)
		return
	}
	e.debugf("started %d (%q, foreground=%t)", pid, req.Line, req.Foreground)

	if !req.Foreground {
		jid := e.table.NextID()
		if err := e.table.Add(jid, pid, jobs.Running, req.Line); err != nil {
			e.log.Printf("jobs: %v: (%d) is running untracked", err, pid)
			return
		}
		e.printf("[%d] (%d)\n", jid, pid)
		return
	}

	e.waitForeground(pid, req.Line)
}

// waitForeground waits for a freshly started foreground job to stop or
// finish. A job that stops is added to the table. If the table is full it
// is resumed in the foreground instead, since a stopped job nobody tracks
// could never be continued.
func (e *Executor) waitForeground(pid int, line string) {
	for {
		e.term.Grant(pid)
		_, status, err := e.sys.Wait(pid, unix.WUNTRACED)
		e.term.Reclaim()
		if err != nil {
			e.log.Printf("wait(%d): %v", pid, err)
			return
		}

		ev := decode(pid, status)
		switch ev.Change {
		case ChangeStopped:
			jid := e.table.NextID()
			if err := e.table.Add(jid, pid, jobs.Stopped, line); err != nil {
				e.log.Printf("jobs: %v: resuming (%d)", err, pid)
				if err := e.sys.Kill(-pid, unix.SIGCONT); err != nil {
					e.log.Printf("kill(SIGCONT): %v", err)
					return
				}
				continue
			}
			e.printf("%s\n", jobMessage(jid, ev))
		case ChangeSignaled:
			e.printf("%s\n", foregroundKilledMessage(ev))
		}
		return
	}
}

// Reap collects every pending status change without blocking and applies
// it to the job table.
func (e *Executor) Reap() {
	for {
		pid, status, err := e.sys.Wait(-1, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED)
		if err != nil {
			if !errors.Is(err, unix.ECHILD) {
				e.log.Printf("wait: %v", err)
			}
			return
		}
		if pid <= 0 {
			return
		}
		e.apply(decode(pid, status))
	}
}

func (e *Executor) apply(ev Event) {
	jid, err := e.table.JID(ev.PID)
	if err != nil {
		// Already handled by a synchronous wait, or never tracked.
		e.debugf("untracked child %d %s", ev.PID, ev.Change)
		return
	}

	switch ev.Change {
	case ChangeExited, ChangeSignaled:
		err = e.table.RemoveByPID(ev.PID)
	case ChangeStopped:
		err = e.table.SetStateByPID(ev.PID, jobs.Stopped)
	case ChangeContinued:
		err = e.table.SetStateByPID(ev.PID, jobs.Running)
	default:
		return
	}
	e.printf("%s\n", jobMessage(jid, ev))
	if err != nil {
		e.log.Printf("jobs: %v", err)
	}
}

// Foreground continues job jid with the terminal and waits until it stops
// or finishes.
func (e *Executor) Foreground(jid int) error {
	pid, err := e.table.PID(jid)
	if err != nil {
		return ErrNoSuchJob
	}

	if err := e.sys.Kill(-pid, unix.SIGCONT); err != nil {
		return fmt.Errorf("kill(SIGCONT): %w", err)
	}
	e.term.Grant(pid)
	if err := e.table.SetStateByJID(jid, jobs.Running); err != nil {
		e.log.Printf("jobs: %v", err)
	}

	_, status, err := e.sys.Wait(-pid, unix.WUNTRACED)
	e.term.Reclaim()
	if err != nil {
		return fmt.Errorf("wait: %w", err)
	}

	ev := decode(pid, status)
	switch ev.Change {
	case ChangeStopped:
		if err := e.table.SetStateByJID(jid, jobs.Stopped); err != nil {
			return fmt.Errorf("update job %d: %w", jid, err)
		}
		e.printf("%s\n", jobMessage(jid, ev))
	case ChangeSignaled:
		e.printf("%s\n", foregroundKilledMessage(ev))
		if err := e.table.RemoveByJID(jid); err != nil {
			return fmt.Errorf("remove job %d: %w", jid, err)
		}
	case ChangeExited:
		if err := e.table.RemoveByJID(jid); err != nil {
			return fmt.Errorf("remove job %d: %w", jid, err)
		}
	}
	return nil
}

// Background continues job jid without giving it the terminal.
func (e *Executor) Background(jid int) error {
	pid, err := e.table.PID(jid)
	if err != nil {
		return ErrNoSuchJob
	}

	if err := e.sys.Kill(-pid, unix.SIGCONT); err != nil {
		return fmt.Errorf("kill(SIGCONT): %w", err)
	}
	if err := e.table.SetStateByJID(jid, jobs.Running); err != nil {
		return fmt.Errorf("update job %d: %w", jid, err)
	}
	return nil
}

// Jobs returns the tracked jobs in job id order.
func (e *Executor) Jobs() []jobs.Job {
	return e.table.List()
}

// Close drops the job table. The Executor must not be used afterwards.
func (e *Executor) Close() {
	e.table.Clear()
}

func (e *Executor) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *Executor) debugf(format string, args ...any) {
	if e.debug {
		e.log.Printf("debug: "+format, args...)
	}
}
