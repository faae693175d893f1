package p4

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Description is a changelist as reported by 'p4 describe'.
type Description struct {
	Change      int            `json:"change" yaml:"change"`
	User        string         `json:"user" yaml:"user"`
	Client      string         `json:"client" yaml:"client"`
	Date        string         `json:"date" yaml:"date"`
	Pending     bool           `json:"pending,omitempty" yaml:"pending,omitempty"`
	Description string         `json:"description" yaml:"description"`
	Files       []AffectedFile `json:"files" yaml:"files"`
	Diff        []DiffHit      `json:"diff,omitempty" yaml:"diff,omitempty"` // nil in short form
}

// AffectedFile is a file revision touched by a changelist.
type AffectedFile struct {
	DepotFile string `json:"depotFile" yaml:"depotFile"`
	Rev       int    `json:"rev" yaml:"rev"`
	Action    string `json:"action" yaml:"action"`
}

// DescribeOpts configures a describe.
type DescribeOpts struct {
	Format    string // -d<flag>: "", "n", "c", "s" or "u"
	ShortForm bool   // -s: omit the diffs
}

const (
	affectedFilesLine = "Affected files ..."
	differencesLine   = "Differences ..."
)

var (
	describeHeaderRe = regexp.MustCompile(`^Change (\d+) by ([^\s@]+)@([^\s@]+) on ([\d/ :]+?)( \*pending\*)?$`)
	affectedFileRe   = regexp.MustCompile(`^\.\.\. (.+?)#(\d+) (\w+)$`)
)

// Describe returns the description of a changelist, with its diffs unless
// ShortForm is set.
func (p *P4) Describe(ctx context.Context, change int, opts DescribeOpts) (*Description, error) {
	if err := checkDiffFormat(opts.Format); err != nil {
		return nil, err
	}
	if change <= 0 {
		return nil, incomplete("describe", "no change number given")
	}
	args := append([]string{"describe"}, BuildArgs(
		Value("-d%s", opts.Format),
		Flag("-s", opts.ShortForm),
	)...)
	out, err := p.output(ctx, append(args, strconv.Itoa(change))...)
	if err != nil {
		return nil, err
	}
	return parseDescribe(out, opts.ShortForm)
}

// parseDescribe splits the output at its landmark lines:
//
//	Change 1234 by trentm@trentm-ra on 2002/07/01 10:00:00
//
//		description lines
//
//	Affected files ...
//
//	... //depot/foo.txt#3 edit
//
//	Differences ...
//
//	==== //depot/foo.txt#3 (text) ====
func parseDescribe(output string, short bool) (*Description, error) {
	raw := splitLines(output)
	if len(raw) == 0 {
		return nil, unparseable("describe", "")
	}
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = chomp(l)
	}

	m := describeHeaderRe.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, unparseable("describe", lines[0])
	}
	change, err := atoi("describe", lines[0], m[1])
	if err != nil {
		return nil, err
	}
	desc := &Description{
		Change:  change,
		User:    m[2],
		Client:  m[3],
		Date:    m[4],
		Pending: m[5] != "",
		Files:   []AffectedFile{},
	}

	filesIdx := indexLine(lines, affectedFilesLine)
	if filesIdx < 0 {
		return nil, unparseable("describe", lines[len(lines)-1])
	}
	if filesIdx > 2 {
		desc.Description = descriptionText(lines[2 : filesIdx-1])
	}

	diffsIdx := len(lines)
	if !short {
		diffsIdx = indexLine(lines[filesIdx:], differencesLine)
		if diffsIdx < 0 {
			return nil, unparseable("describe", lines[len(lines)-1])
		}
		diffsIdx += filesIdx
	}

	for _, line := range lines[filesIdx+1 : diffsIdx] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fm := affectedFileRe.FindStringSubmatch(line)
		if fm == nil {
			return nil, unparseable("describe", line)
		}
		rev, err := atoi("describe", line, fm[2])
		if err != nil {
			return nil, err
		}
		desc.Files = append(desc.Files, AffectedFile{DepotFile: fm[1], Rev: rev, Action: fm[3]})
	}

	if !short {
		start := diffsIdx + 2
		if start > len(raw) {
			start = len(raw)
		}
		desc.Diff, err = parseDiffLines("describe", raw[start:])
		if err != nil {
			return nil, err
		}
		if desc.Diff == nil {
			desc.Diff = []DiffHit{}
		}
	}
	return desc, nil
}

// indexLine returns the index of the first line equal to want, or -1.
func indexLine(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}

// descriptionText de-tabs and trims each description line and joins them
// with newlines.
func descriptionText(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(l, "\t") {
			l = l[1:]
		}
		parts = append(parts, strings.TrimSpace(l))
	}
	return strings.Join(parts, "\n")
}
