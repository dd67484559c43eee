package executor

import (
	"bytes"
	"fmt"
	"log"

	"golang.org/x/sys/unix"

	"github.com/angelay1006/shell/internal/jobs"
	"github.com/angelay1006/shell/internal/parser"
)

type waitResult struct {
	pid    int
	status unix.WaitStatus
	err    error
}

// fakeSystem records every call crossing the OS boundary.
type fakeSystem struct {
	calls []string

	startPID int
	startErr error
	killErr  error
	fgErr    error

	// waits is consumed in order; an empty queue reports ECHILD.
	waits []waitResult
}

func (f *fakeSystem) Start(req parser.Request, foreground bool) (int, error) {
	f.calls = append(f.calls, fmt.Sprintf("start %s fg=%t", req.Path, foreground))
	if f.startErr != nil {
		return 0, f.startErr
	}
	return f.startPID, nil
}

func (f *fakeSystem) Kill(pid int, sig unix.Signal) error {
	f.calls = append(f.calls, fmt.Sprintf("kill %d %d", pid, int(sig)))
	return f.killErr
}

func (f *fakeSystem) Wait(pid int, options int) (int, unix.WaitStatus, error) {
	f.calls = append(f.calls, fmt.Sprintf("wait %d %#x", pid, options))
	if len(f.waits) == 0 {
		return 0, 0, unix.ECHILD
	}
	w := f.waits[0]
	f.waits = f.waits[1:]
	return w.pid, w.status, w.err
}

func (f *fakeSystem) SetForeground(pgid int) error {
	f.calls = append(f.calls, fmt.Sprintf("tcsetpgrp %d", pgid))
	return f.fgErr
}

func exited(code int) unix.WaitStatus { return unix.WaitStatus(code << 8) }

func signaled(sig unix.Signal) unix.WaitStatus { return unix.WaitStatus(sig) }

func stopped(sig unix.Signal) unix.WaitStatus { return unix.WaitStatus(int(sig)<<8 | 0x7f) }

func continued() unix.WaitStatus { return unix.WaitStatus(0xffff) }

const shellPGID = 42

type harness struct {
	sys   *fakeSystem
	table *jobs.Table
	out   *bytes.Buffer
	logs  *bytes.Buffer
	exec  *Executor
}

func newHarness(capacity int) *harness {
	h := &harness{
		sys:   &fakeSystem{},
		table: jobs.NewTable(capacity),
		out:   &bytes.Buffer{},
		logs:  &bytes.Buffer{},
	}
	logger := log.New(h.logs, "", 0)
	h.exec = New(Options{
		System:   h.sys,
		Terminal: NewTerminal(h.sys, shellPGID, true, logger),
		Table:    h.table,
		Out:      h.out,
		Log:      logger,
	})
	return h
}
