// Package parser turns an input line into a builtin or external command.
package parser

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrDuplicateInput  = errors.New("can't have two input redirects on one line")
	ErrDuplicateOutput = errors.New("can't have two output redirects on one line")
	ErrMissingTarget   = errors.New("no redirection file specified")
	ErrNoCommand       = errors.New("no command")
)

// Command is either a Builtin or an External.
type Command interface {
	command()
}

// Builtin is a command run inside the shell process.
type Builtin struct {
	Name string
	Args []string
}

// External is a program to spawn.
type External struct {
	Request Request
}

func (Builtin) command()  {}
func (External) command() {}

// Request describes one program launch.
type Request struct {
	// Path is the executable as typed. Empty means nothing to run.
	Path string
	// Argv[0] is the base name of Path.
	Argv []string

	Stdin  string
	Stdout string
	Append bool

	Foreground bool

	// Line is the display form of the command, without the background &.
	Line string
}

var builtinNames = map[string]bool{
	"cd":   true,
	"ln":   true,
	"rm":   true,
	"exit": true,
	"jobs": true,
	"fg":   true,
	"bg":   true,
}

// IsBuiltin reports whether path names a builtin. Anything containing a
// path separator is always external.
func IsBuiltin(path string) bool {
	if strings.Contains(path, "/") {
		return false
	}
	return builtinNames[path]
}

// Parse turns one input line into a Command. A blank line yields a nil
// Command and nil error.
func Parse(input string) (Command, error) {
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return nil, nil
	}

	var req Request
	var haveIn, haveOut bool
	lastArg := -1

	for i := 0; i < len(tokens); i++ {
		switch tokens[i].text {
		case "<":
			if haveIn {
				return nil, ErrDuplicateInput
			}
			if i+1 >= len(tokens) {
				return nil, ErrMissingTarget
			}
			req.Stdin = tokens[i+1].text
			haveIn = true
			i++
		case ">", ">>":
			if haveOut {
				return nil, ErrDuplicateOutput
			}
			if i+1 >= len(tokens) {
				return nil, ErrMissingTarget
			}
			req.Stdout = tokens[i+1].text
			req.Append = tokens[i].text == ">>"
			haveOut = true
			i++
		default:
			if req.Path == "" {
				req.Path = tokens[i].text
				req.Argv = append(req.Argv, filepath.Base(tokens[i].text))
			} else {
				req.Argv = append(req.Argv, tokens[i].text)
			}
			lastArg = i
		}
	}

	if req.Path == "" {
		return nil, ErrNoCommand
	}

	req.Foreground = true
	req.Line = strings.TrimSpace(input)
	if n := len(req.Argv); req.Argv[n-1] == "&" {
		if n == 1 {
			return nil, ErrNoCommand
		}
		req.Argv = req.Argv[:n-1]
		req.Foreground = false
		req.Line = cut(input, tokens[lastArg])
	}

	if IsBuiltin(req.Path) {
		return Builtin{Name: req.Path, Args: req.Argv[1:]}, nil
	}
	return External{Request: req}, nil
}

type token struct {
	text       string
	start, end int
}

// tokenize splits input on separators, keeping each field's byte offsets.
func tokenize(input string) []token {
	var tokens []token
	start := -1
	for i, r := range input {
		switch {
		case isSeparator(r) && start >= 0:
			tokens = append(tokens, token{text: input[start:i], start: start, end: i})
			start = -1
		case !isSeparator(r) && start < 0:
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: input[start:], start: start, end: len(input)})
	}
	return tokens
}

// cut removes tok from input, leaving one separator where it stood.
func cut(input string, tok token) string {
	before := strings.TrimRightFunc(input[:tok.start], isSeparator)
	return strings.TrimSpace(before + input[tok.end:])
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
