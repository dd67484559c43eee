package executor

import "log"

// Terminal hands the controlling terminal to a job's process group and
// takes it back for the shell. Failures are logged and returned but never
// fatal.
type Terminal struct {
	sys       System
	shellPGID int
	enabled   bool
	log       *log.Logger
}

// NewTerminal returns a controller for the shell whose process group is
// shellPGID. A disabled controller (no terminal) does nothing.
func NewTerminal(sys System, shellPGID int, enabled bool, logger *log.Logger) *Terminal {
	return &Terminal{
		sys:       sys,
		shellPGID: shellPGID,
		enabled:   enabled,
		log:       logger,
	}
}

func (t *Terminal) Grant(pgid int) error {
	return t.set(pgid)
}

func (t *Terminal) Reclaim() error {
	return t.set(t.shellPGID)
}

func (t *Terminal) set(pgid int) error {
	if !t.enabled {
		return nil
	}
	if err := t.sys.SetForeground(pgid); err != nil {
		t.log.Printf("tcsetpgrp(%d): %v", pgid, err)
		return err
	}
	return nil
}
