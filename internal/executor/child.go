package executor

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"golang.org/x/sys/unix"
)

// ChildName is the argv[0] under which the shell binary acts as the spawn
// helper.
const ChildName = "jsh-exec"

const (
	stdinFD  = 0
	stdoutFD = 1
)

// IsChild reports whether this process was started by a Spawner.
func IsChild() bool {
	return len(os.Args) > 0 && os.Args[0] == ChildName
}

// RunChild is the spawn helper's main. By the time it runs the process
// already leads its own group and, in the foreground, owns the terminal.
// It restores default job-control signals, applies redirections and execs
// the target. It only returns on failure, with the exit status to use.
func RunChild(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet(ChildName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "redirect standard input from `file`")
	out := fs.String("out", "", "redirect standard output to `file`")
	appendOut := fs.Bool("append", false, "append to the -out file instead of truncating")
	pathLookup := fs.Bool("path-lookup", false, "resolve a slash-less command through $PATH")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(stderr, "jsh: no command")
		return 1
	}
	path, argv := rest[0], rest[1:]

	// The shell ignores these; a handled signal is reset to default by
	// exec, an ignored one is not.
	signal.Notify(make(chan os.Signal, 1), ChildSignals...)

	if err := redirect(*in, *out, *appendOut); err != nil {
		fmt.Fprintf(stderr, "jsh: %v\n", err)
		return 1
	}

	if *pathLookup && !strings.Contains(path, "/") {
		if resolved, err := exec.LookPath(path); err == nil {
			path = resolved
		}
	}

	err := unix.Exec(path, argv, os.Environ())
	fmt.Fprintf(stderr, "jsh: %s: %v\n", path, err)
	return 1
}

func redirect(in, out string, appendOut bool) error {
	if in != "" {
		if err := replaceFD(in, unix.O_RDONLY, 0, stdinFD); err != nil {
			return fmt.Errorf("input file %s: %w", in, err)
		}
	}
	if out != "" {
		flags := unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC
		if appendOut {
			flags = unix.O_WRONLY | unix.O_CREAT | unix.O_APPEND
		}
		if err := replaceFD(out, flags, 0o666, stdoutFD); err != nil {
			return fmt.Errorf("output file %s: %w", out, err)
		}
	}
	return nil
}

// replaceFD opens path and installs it as descriptor target. The opened
// descriptor is closed so only target survives the exec.
func replaceFD(path string, flags int, mode uint32, target int) error {
	fd, err := unix.Open(path, flags|unix.O_CLOEXEC, mode)
	if err != nil {
		return err
	}
	if fd == target {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, 0)
		return err
	}
	defer unix.Close(fd)
	return unix.Dup3(fd, target, 0)
}
