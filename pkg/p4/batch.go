package p4

import (
	"context"
	"strings"
)

// runBatched runs base once per group of BatchSize files, appending each
// group to base, and returns the concatenated output as if it came from a
// single invocation. Exit codes are summed and checked once at the end.
func (p *P4) runBatched(ctx context.Context, base []string, files []string) (*Result, error) {
	argv := p.argv(base)
	if len(files) == 0 {
		return p.exec(ctx, argv)
	}

	var stdout, stderr strings.Builder
	total := &Result{}
	size := p.batchSize()
	for i := 0; i < len(files); i += size {
		end := i + size
		if end > len(files) {
			end = len(files)
		}
		setArgv := append(append([]string{}, argv...), files[i:end]...)
		res, err := p.Runner.Run(ctx, setArgv)
		if err != nil {
			return nil, err
		}
		stdout.WriteString(res.Stdout)
		stderr.WriteString(res.Stderr)
		total.ExitCode += res.ExitCode
	}
	total.Stdout = stdout.String()
	total.Stderr = stderr.String()
	return checkExit(append(argv, files...), total)
}
