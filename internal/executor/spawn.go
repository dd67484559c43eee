package executor

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/angelay1006/shell/internal/parser"
)

// Spawner launches programs by re-executing the shell binary as the spawn
// helper (see RunChild). The helper is started in its own process group,
// already holding the terminal when it runs in the foreground, and then
// replaces itself with the requested program, so the pid the shell gets
// back is the job's pid and pgid.
type Spawner struct {
	// Self is the path of an executable whose main calls RunChild when
	// IsChild reports true. Usually os.Executable().
	Self string

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// TTY is the terminal claimed by foreground children, or -1.
	TTY int

	// PathLookup resolves slash-less commands through $PATH in the child.
	PathLookup bool

	Log *log.Logger
}

func (s *Spawner) Start(req parser.Request, foreground bool) (int, error) {
	if req.Path == "" {
		return 0, errors.New("empty command")
	}

	cmd := exec.Command(s.Self, childArgs(req, s.PathLookup)...)
	cmd.Args[0] = ChildName
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	cmd.SysProcAttr = &unix.SysProcAttr{
		Setpgid: true,
	}
	if foreground && s.TTY >= 0 {
		cmd.SysProcAttr.Foreground = true
		cmd.SysProcAttr.Ctty = s.TTY
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", req.Path, err)
	}
	pid := cmd.Process.Pid

	// Status is collected with wait4 on the group, never through cmd.Wait.
	_ = cmd.Process.Release()

	if err := setGroup(pid); err != nil && s.Log != nil {
		s.Log.Printf("setpgid(%d): %v", pid, err)
	}
	return pid, nil
}

// setGroup repeats the child's own setpgid from the parent side. EACCES
// (the child has already exec'd) and ESRCH (it already exited) mean the
// child got there first.
func setGroup(pid int) error {
	err := unix.Setpgid(pid, pid)
	if err == nil || errors.Is(err, unix.EACCES) || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func childArgs(req parser.Request, pathLookup bool) []string {
	var args []string
	if req.Stdin != "" {
		args = append(args, "-in", req.Stdin)
	}
	if req.Stdout != "" {
		args = append(args, "-out", req.Stdout)
		if req.Append {
			args = append(args, "-append")
		}
	}
	if pathLookup {
		args = append(args, "-path-lookup")
	}
	args = append(args, "--", req.Path)

	argv := req.Argv
	if len(argv) == 0 {
		argv = []string{req.Path}
	}
	return append(args, argv...)
}
