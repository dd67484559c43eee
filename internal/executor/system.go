package executor

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/angelay1006/shell/internal/parser"
)

// System is the shell's view of the operating system. Everything that
// creates, signals, waits on or hands the terminal to a process group goes
// through it.
type System interface {
	// Start launches req in a new process group led by the returned pid.
	Start(req parser.Request, foreground bool) (int, error)
	Kill(pid int, sig unix.Signal) error
	// Wait is wait4(2). A negative pid waits on that process group.
	Wait(pid int, options int) (int, unix.WaitStatus, error)
	// SetForeground makes pgid the terminal's foreground process group.
	SetForeground(pgid int) error
}

var ErrNoTerminal = errors.New("no controlling terminal")

// OS is the System backed by real syscalls. It uses the Spawner's TTY
// for terminal ownership.
type OS struct {
	*Spawner
}

func NewOS(spawner *Spawner) *OS {
	return &OS{Spawner: spawner}
}

func (o *OS) Kill(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

func (o *OS) Wait(pid int, options int) (int, unix.WaitStatus, error) {
	var status unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &status, options, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return wpid, status, err
	}
}

func (o *OS) SetForeground(pgid int) error {
	if o.TTY < 0 {
		return ErrNoTerminal
	}
	return unix.IoctlSetPointerInt(o.TTY, unix.TIOCSPGRP, pgid)
}

// StdinTTY returns the descriptor of f for use as OS.TTY when it refers
// to a terminal, and -1 otherwise.
func StdinTTY(f *os.File, isTerminal func(int) bool) int {
	fd := int(f.Fd())
	if isTerminal(fd) {
		return fd
	}
	return -1
}
