package p4

import (
	"context"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"
)

// SubmitOpts selects what to submit: either a pending changelist by
// number, or files (all opened files when empty) with a description.
type SubmitOpts struct {
	Change      int
	Files       []string
	Description string
}

// SubmittedFile is one file revision created by a submit.
type SubmittedFile struct {
	Action    string `json:"action" yaml:"action"`
	DepotFile string `json:"depotFile" yaml:"depotFile"`
	Rev       int    `json:"rev" yaml:"rev"`
}

// SubmitResult is the outcome of a submit. Change and Action are only set
// when p4 reported the change as submitted.
type SubmitResult struct {
	Change int             `json:"change,omitempty" yaml:"change,omitempty"`
	Action string          `json:"action,omitempty" yaml:"action,omitempty"`
	Files  []SubmittedFile `json:"files" yaml:"files"`
}

// Output shape:
//
//	Change 1 created with 1 open file(s).
//	Submitting change 1.
//	Locking 1 files ...
//	add //depot/test_simple_submit.txt#1
//	Change 1 submitted.
//	//depot/test_simple_submit.txt#1 - refreshing
var (
	submitFileRe   = regexp.MustCompile(`^(\w+) (//.+?)#(\d+)$`)
	submitResultRe = regexp.MustCompile(`^Change (\d+) (?:renamed change (\d+) and )?(submitted)\.`)
	submitSkipRes  = []*regexp.Regexp{
		regexp.MustCompile(`^Change \d+ created with \d+ open file\(s\)\.$`),
		regexp.MustCompile(`^Submitting change \d+\.$`),
		regexp.MustCompile(`^Locking \d+ files \.\.\.$`),
		regexp.MustCompile(`^(//.+?)#\d+ - refreshing$`),
	}
)

// Submit submits a pending changelist, or the given (or all opened) files
// under a new changelist with the given description.
func (p *P4) Submit(ctx context.Context, opts SubmitOpts) (*SubmitResult, error) {
	if opts.Change != 0 {
		if len(opts.Files) > 0 || opts.Description != "" {
			return nil, incomplete("submit", "a change number cannot be combined with files or a description")
		}
		out, err := p.output(ctx, "submit", "-c", strconv.Itoa(opts.Change))
		if err != nil {
			return nil, err
		}
		return parseSubmit(out), nil
	}
	if opts.Description == "" {
		return nil, incomplete("submit", "a description is required unless a change number is given")
	}

	files, err := p.formFiles(ctx, opts.Files, false, true)
	if err != nil {
		return nil, err
	}
	f := NewForm()
	f.SetChange(0)
	f.Set("description", opts.Description)
	f.SetFiles(files)
	out, err := p.writeForm(ctx, "submit", f)
	if err != nil {
		return nil, err
	}
	return parseSubmit(out), nil
}

// parseSubmit picks the file and result lines out of submit output.
// Known progress lines are skipped and anything else is logged, so it never
// fails.
func parseSubmit(output string) *SubmitResult {
	res := &SubmitResult{Files: []SubmittedFile{}}
	for _, line := range outputLines(output) {
		entry := logger.WithField("line", line)
		if m := submitFileRe.FindStringSubmatch(line); m != nil {
			rev, err := strconv.Atoi(m[3])
			if err != nil {
				entry.WithError(err).Warn("bad revision in submit file line")
			}
			res.Files = append(res.Files, SubmittedFile{Action: m[1], DepotFile: m[2], Rev: rev})
			entry.Info("parsed submit file line")
			continue
		}
		if m := submitResultRe.FindStringSubmatch(line); m != nil {
			number := m[1]
			if m[2] != "" {
				number = m[2]
			}
			change, err := strconv.Atoi(number)
			if err != nil {
				entry.WithError(err).Warn("bad change number in submit result line")
			}
			res.Change = change
			res.Action = m[3]
			entry.Info("parsed submit result line")
			continue
		}
		if skipped(line) {
			entry.Info("parsed submit skip line")
			continue
		}
		entry.WithFields(logrus.Fields{"command": "submit"}).Warn("unrecognized output line")
	}
	return res
}

func skipped(line string) bool {
	for _, re := range submitSkipRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
