package executor

import (
	"os"

	"golang.org/x/sys/unix"
)

// ShellSignals are ignored by the shell for its whole lifetime so that
// keyboard interrupts and terminal-ownership changes only affect jobs.
var ShellSignals = []os.Signal{unix.SIGINT, unix.SIGTSTP, unix.SIGTTOU}

// ChildSignals are put back to their default action in every spawned job.
var ChildSignals = []os.Signal{unix.SIGINT, unix.SIGTSTP, unix.SIGTTOU, unix.SIGQUIT}
