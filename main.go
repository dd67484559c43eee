// Command jsh is an interactive shell with POSIX job control.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/angelay1006/shell/internal/config"
	"github.com/angelay1006/shell/internal/executor"
	"github.com/angelay1006/shell/internal/jobs"
	"github.com/angelay1006/shell/internal/repl"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	configPath string
	logFile    string
	debug      bool
}

func main() {
	if executor.IsChild() {
		os.Exit(executor.RunChild(os.Args[1:], os.Stderr))
	}
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsh: %v\n", err)
		return 1
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if opts.debug {
		cfg.Debug = true
	}

	logger, closeLog := initLogging(cfg.LogFile)
	defer closeLog()

	self, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsh: locate executable: %v\n", err)
		return 1
	}

	tty := executor.StdinTTY(os.Stdin, term.IsTerminal)
	interactive := tty >= 0

	sys := executor.NewOS(&executor.Spawner{
		Self:       self,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		TTY:        tty,
		PathLookup: cfg.PathLookup,
		Log:        logger,
	})

	// Captured once; the shell never changes its own process group.
	shellPGID := unix.Getpgrp()

	exec := executor.New(executor.Options{
		System:   sys,
		Terminal: executor.NewTerminal(sys, shellPGID, interactive, logger),
		Table:    jobs.NewTable(cfg.MaxJobs),
		Out:      os.Stdout,
		Log:      logger,
		Debug:    cfg.Debug,
	})

	prompt := ""
	if interactive || cfg.AlwaysPrompt {
		prompt = cfg.Prompt
	}

	repl.IgnoreJobSignals()

	shell := repl.New(repl.Options{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Prompt:   prompt,
		Log:      logger,
		Executor: exec,
	})
	return shell.Run()
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.logFile, "log-file", "", "Write diagnostics to this file instead of stderr")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "jsh - a shell with job control\n\n")
		fmt.Fprintf(os.Stderr, "Usage: jsh [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("jsh %s\n", version)
		os.Exit(0)
	}

	return opts
}

// initLogging returns the diagnostics logger, writing to path when set and
// to stderr otherwise.
func initLogging(path string) (*log.Logger, func()) {
	var out io.Writer = os.Stderr
	closeFn := func() {}

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jsh: failed to open log file: %v, using stderr\n", err)
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	return log.New(out, "jsh: ", 0), closeFn
}
