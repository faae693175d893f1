// Package p4 is a structured interface to the Perforce command-line client.
//
// Each command builds an argument vector, runs p4 through a Runner and
// parses the captured output with a grammar dedicated to that command,
// returning typed records. Record-oriented commands (change, client, label,
// branch) read and write p4's form format through ParseForm and MakeForm.
package p4

import (
	"context"
	"runtime"
	"strings"
)

// DefaultExecutable is the p4 client used by New.
var DefaultExecutable = "p4"

// DefaultBatchSize is the number of file arguments passed per invocation
// by batched commands.
const DefaultBatchSize = 10

// P4 is a proxy to the p4 client app.
type P4 struct {
	Executable string     // p4 binary to run
	Conn       Connection // global options prepended to every command
	Runner     Runner     // process collaborator
	BatchSize  int        // files per invocation for batched commands
	Windows    bool       // local paths use drive-letter syntax (affects Where)
}

// New creates a P4 that runs DefaultExecutable through an ExecRunner.
func New(conn Connection) *P4 {
	return &P4{
		Executable: DefaultExecutable,
		Conn:       conn,
		Runner:     &ExecRunner{},
		BatchSize:  DefaultBatchSize,
		Windows:    runtime.GOOS == "windows",
	}
}

// With returns a copy of p whose connection options are overridden by the
// non-empty fields of override.
func (p *P4) With(override Connection) *P4 {
	cp := *p
	cp.Conn = p.Conn.Merge(override)
	return &cp
}

func (p *P4) argv(args []string) []string {
	exe := p.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	argv := append([]string{exe}, p.Conn.Args()...)
	return append(argv, args...)
}

func (p *P4) batchSize() int {
	if p.BatchSize > 0 {
		return p.BatchSize
	}
	return DefaultBatchSize
}

// Run executes a p4 subcommand and returns its unprocessed output. A
// non-zero exit code is returned as a *CommandError.
func (p *P4) Run(ctx context.Context, args ...string) (*Result, error) {
	return p.exec(ctx, p.argv(args))
}

func (p *P4) exec(ctx context.Context, argv []string) (*Result, error) {
	res, err := p.Runner.Run(ctx, argv)
	if err != nil {
		return nil, err
	}
	return checkExit(argv, res)
}

func checkExit(argv []string, res *Result) (*Result, error) {
	if res.ExitCode != 0 {
		return nil, &CommandError{
			Command:  JoinArgv(argv),
			Stderr:   res.Stderr,
			ExitCode: res.ExitCode,
		}
	}
	return res, nil
}

// output runs a subcommand and returns stdout.
func (p *P4) output(ctx context.Context, args ...string) (string, error) {
	res, err := p.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// splitLines splits text after each newline, keeping the terminators, the
// way diff bodies must be preserved.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// chomp removes one trailing line terminator.
func chomp(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// outputLines splits text into lines without terminators.
func outputLines(text string) []string {
	lines := splitLines(text)
	for i, l := range lines {
		lines[i] = chomp(l)
	}
	return lines
}

// noteText extracts the note carried by a "... " continuation line: the
// part after the last " - " if there is one, otherwise the line without
// its marker.
func noteText(line string) string {
	if i := strings.LastIndex(line, " - "); i >= 0 {
		return strings.TrimSpace(line[i+3:])
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "..."))
}
