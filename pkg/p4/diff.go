package p4

import (
	"context"
	"regexp"
)

// DiffHit is the diff of one file. Text holds the body verbatim, including
// line terminators, so a missing final newline can be detected.
type DiffHit struct {
	DepotFile string   `json:"depotFile,omitempty" yaml:"depotFile,omitempty"`
	Rev       int      `json:"rev,omitempty" yaml:"rev,omitempty"`
	Type      string   `json:"type,omitempty" yaml:"type,omitempty"`
	LocalFile string   `json:"localFile,omitempty" yaml:"localFile,omitempty"`
	Binary    bool     `json:"binary" yaml:"binary"`
	Text      string   `json:"text,omitempty" yaml:"text,omitempty"`
	HasText   bool     `json:"hasText" yaml:"hasText"`
	Notes     []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// DiffOpts configures a diff of client files against the depot.
type DiffOpts struct {
	Files      []string
	Format     string // -d<flag>: "", "n", "c", "s" or "u"
	Force      bool   // -f: diff every file, opened or not
	Satisfying string // -s<flag>: "", "a", "d", "e" or "r"; lists names only
	Text       bool   // -t: diff non-text files too
}

// Diff2Opts configures a diff of two depot files.
type Diff2Opts struct {
	Format string // -d<flag>
	// Verbose reports identical files too. Unless it is set, -q is passed
	// and p4 says nothing about identical files.
	Verbose bool
	Text    bool // -t
}

// Diff2Result is the comparison of two depot file revisions.
type Diff2Result struct {
	DepotFile1 string   `json:"depotFile1,omitempty" yaml:"depotFile1,omitempty"`
	Rev1       int      `json:"rev1,omitempty" yaml:"rev1,omitempty"`
	Type1      string   `json:"type1,omitempty" yaml:"type1,omitempty"`
	DepotFile2 string   `json:"depotFile2,omitempty" yaml:"depotFile2,omitempty"`
	Rev2       int      `json:"rev2,omitempty" yaml:"rev2,omitempty"`
	Type2      string   `json:"type2,omitempty" yaml:"type2,omitempty"`
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Notes      []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Text       string   `json:"text,omitempty" yaml:"text,omitempty"`
}

const filesDiffer = "(... files differ ...)"

var (
	diffFormats    = map[string]bool{"": true, "n": true, "c": true, "s": true, "u": true}
	diffSatisfying = map[string]bool{"": true, "a": true, "d": true, "e": true, "r": true}

	// describe: ==== //depot/apps/px/ReadMe.txt#5 (text) ====
	diffRevHeaderRe = regexp.MustCompile(`^==== (//.*?)#(\d+) \(([\w+]+)\) ====$`)
	// diff: ==== //depot/foo.doc#42 - c:\trentm\foo.doc ==== (binary)
	diffLocalHeaderRe = regexp.MustCompile(`^==== (//.*?)#(\d+) - (.+?) ====( \(binary\))?$`)
	diffUnifiedOldRe  = regexp.MustCompile(`^--- (//.*?)\s+.*$`)
	diffUnifiedNewRe  = regexp.MustCompile(`^\+\+\+ (//.*?)\s+.*$`)

	diff2HeaderRe = regexp.MustCompile(`^==== (.+?)#(\d+) \(([\w+]+)\) - (.+?)#(\d+) \(([\w+]+)\) ==== (\w+)$`)
)

func checkDiffFormat(format string) error {
	if !diffFormats[format] {
		return invalidValue("diff format", format)
	}
	return nil
}

// Diff compares opened client files with their depot revisions.
func (p *P4) Diff(ctx context.Context, opts DiffOpts) ([]DiffHit, error) {
	if err := checkDiffFormat(opts.Format); err != nil {
		return nil, err
	}
	if !diffSatisfying[opts.Satisfying] {
		return nil, invalidValue("diff satisfying flag", opts.Satisfying)
	}
	args := append([]string{"diff"}, BuildArgs(
		Value("-d%s", opts.Format),
		Value("-s%s", opts.Satisfying),
		Flag("-f", opts.Force),
		Flag("-t", opts.Text),
	)...)
	out, err := p.output(ctx, append(args, opts.Files...)...)
	if err != nil {
		return nil, err
	}
	if opts.Satisfying != "" {
		var hits []DiffHit
		for _, line := range outputLines(out) {
			hits = append(hits, DiffHit{LocalFile: line})
		}
		return hits, nil
	}
	return parseDiff(out)
}

// Diff2 compares two depot file revisions.
func (p *P4) Diff2(ctx context.Context, opts Diff2Opts, file1, file2 string) (*Diff2Result, error) {
	if err := checkDiffFormat(opts.Format); err != nil {
		return nil, err
	}
	if file1 == "" || file2 == "" {
		return nil, incomplete("diff2", "two files are required")
	}
	args := append([]string{"diff2"}, BuildArgs(
		Value("-d%s", opts.Format),
		Flag("-q", !opts.Verbose),
		Flag("-t", opts.Text),
	)...)
	out, err := p.output(ctx, append(args, file1, file2)...)
	if err != nil {
		return nil, err
	}
	return parseDiff2(out)
}

func parseDiff(output string) ([]DiffHit, error) {
	return parseDiffLines("diff", splitLines(output))
}

// parseDiffLines parses diff output given as lines that keep their
// terminators. Each header starts a hit; following lines are its body.
func parseDiffLines(command string, lines []string) ([]DiffHit, error) {
	var hits []DiffHit
	for _, raw := range lines {
		line := chomp(raw)
		if m := diffRevHeaderRe.FindStringSubmatch(line); m != nil {
			rev, err := atoi(command, line, m[2])
			if err != nil {
				return nil, err
			}
			hits = append(hits, DiffHit{DepotFile: m[1], Rev: rev, Type: m[3]})
			continue
		}
		if m := diffLocalHeaderRe.FindStringSubmatch(line); m != nil {
			rev, err := atoi(command, line, m[2])
			if err != nil {
				return nil, err
			}
			hits = append(hits, DiffHit{DepotFile: m[1], Rev: rev, LocalFile: m[3], Binary: m[4] != ""})
			continue
		}
		if m := diffUnifiedOldRe.FindStringSubmatch(line); m != nil {
			hits = append(hits, DiffHit{DepotFile: m[1]})
			continue
		}
		if len(hits) == 0 {
			return nil, unparseable(command, line)
		}
		last := &hits[len(hits)-1]
		if m := diffUnifiedNewRe.FindStringSubmatch(line); m != nil {
			last.LocalFile = m[1]
			continue
		}
		if !last.HasText && raw == filesDiffer+"\n" {
			last.Notes = []string{filesDiffer}
			continue
		}
		last.Text += raw
		last.HasText = true
	}
	return hits, nil
}

// parseDiff2 reads the header, the "files differ" note and the diff body
// of 'p4 diff2' output into a single result.
func parseDiff2(output string) (*Diff2Result, error) {
	res := &Diff2Result{}
	for _, raw := range splitLines(output) {
		line := chomp(raw)
		if line == filesDiffer {
			res.Notes = append(res.Notes, line)
			continue
		}
		m := diff2HeaderRe.FindStringSubmatch(line)
		if m == nil {
			res.Text += raw
			continue
		}
		rev1, err := atoi("diff2", line, m[2])
		if err != nil {
			return nil, err
		}
		rev2, err := atoi("diff2", line, m[5])
		if err != nil {
			return nil, err
		}
		res.DepotFile1, res.Rev1, res.Type1 = m[1], rev1, m[3]
		res.DepotFile2, res.Rev2, res.Type2 = m[4], rev2, m[6]
		res.Summary = m[7]
	}
	return res, nil
}
