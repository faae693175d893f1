package p4

//go:generate mockgen -source=runner.go -destination=runner_mock_test.go -package=p4

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
)

// Result is the captured outcome of one p4 invocation.
type Result struct {
	Stdout   string `json:"stdout" yaml:"stdout"`
	Stderr   string `json:"stderr" yaml:"stderr"`
	ExitCode int    `json:"exitCode" yaml:"exitCode"`
}

// Runner executes an argument vector synchronously and returns its whole
// output. A non-zero exit code is not an error at this level; the error
// return is reserved for failing to run the process at all.
type Runner interface {
	Run(ctx context.Context, argv []string) (*Result, error)
}

// ExecRunner runs commands through the platform shell. A shell is needed
// because form write-back passes the form file with '<' redirection.
type ExecRunner struct {
	Dir string // working directory; empty means the current one
	Env []string
}

// Run joins argv with JoinArgv and executes it with "sh -c" (or "cmd /C"
// on Windows).
func (r *ExecRunner) Run(ctx context.Context, argv []string) (*Result, error) {
	line := JoinArgv(argv)
	logCommand(argv).Debug("running")

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", line)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	}
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	logger.WithField("stdout", res.Stdout).Trace("output")
	return res, nil
}
