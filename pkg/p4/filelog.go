package p4

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// FileLog is the revision history of one depot file.
type FileLog struct {
	DepotFile string     `json:"depotFile" yaml:"depotFile"`
	Revs      []Revision `json:"revs" yaml:"revs"`
}

// Revision is one submitted revision of a file.
type Revision struct {
	Rev         int      `json:"rev" yaml:"rev"`
	Change      int      `json:"change" yaml:"change"`
	Action      string   `json:"action" yaml:"action"`
	Date        string   `json:"date" yaml:"date"`
	User        string   `json:"user" yaml:"user"`
	Client      string   `json:"client" yaml:"client"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Notes       []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// FilelogOpts configures a filelog query.
type FilelogOpts struct {
	FollowIntegrations bool // -i: follow branches
	LongOutput         bool // -l: full changelist descriptions
	MaxRevs            int  // -m: most recent revisions only; 0 means all
}

// ... #3 change 1234 edit on 2002/07/01 by trentm@trentm-ra (text) 'fix the thing'
var revisionRe = regexp.MustCompile(`^\.\.\. #(\d+) change (\d+) (\w+) on ([\d/]+) by ([^\s@]+)@([^\s@]+) \(([\w+]+)\)(?: '(.*?)')?$`)

// Filelog lists the revision histories of files.
func (p *P4) Filelog(ctx context.Context, opts FilelogOpts, files ...string) ([]FileLog, error) {
	if opts.MaxRevs < 0 {
		return nil, invalidValue("filelog max revisions", strconv.Itoa(opts.MaxRevs))
	}
	if len(files) == 0 {
		return nil, incomplete("filelog", "no files given")
	}
	args := append([]string{"filelog"}, BuildArgs(
		Flag("-i", opts.FollowIntegrations),
		Flag("-l", opts.LongOutput),
		Number("-m", optNum(opts.MaxRevs)),
	)...)
	out, err := p.output(ctx, append(args, files...)...)
	if err != nil {
		return nil, err
	}
	return parseFilelog(out, opts.LongOutput)
}

func parseFilelog(output string, long bool) ([]FileLog, error) {
	var logs []FileLog
	lastRev := func(line string) (*Revision, error) {
		if len(logs) == 0 || len(logs[len(logs)-1].Revs) == 0 {
			return nil, unparseable("filelog", line)
		}
		revs := logs[len(logs)-1].Revs
		return &revs[len(revs)-1], nil
	}

	for _, line := range outputLines(output) {
		switch {
		case long && strings.TrimSpace(line) == "":
			continue
		case strings.HasPrefix(line, "//"):
			logs = append(logs, FileLog{DepotFile: strings.TrimSpace(line)})
		case strings.HasPrefix(line, "... ... "):
			rev, err := lastRev(line)
			if err != nil {
				return nil, err
			}
			rev.Notes = append(rev.Notes, strings.TrimSpace(line[len("... ... "):]))
		case strings.HasPrefix(line, "... "):
			if len(logs) == 0 {
				return nil, unparseable("filelog", line)
			}
			rev, err := parseRevision(line)
			if err != nil {
				return nil, err
			}
			last := &logs[len(logs)-1]
			last.Revs = append(last.Revs, rev)
		case long && strings.HasPrefix(line, "\t"):
			rev, err := lastRev(line)
			if err != nil {
				return nil, err
			}
			rev.Description += line[1:] + "\n"
		default:
			return nil, unparseable("filelog", line)
		}
	}

	for i := range logs {
		for j := range logs[i].Revs {
			logs[i].Revs[j].Description = strings.TrimSuffix(logs[i].Revs[j].Description, "\n")
		}
	}
	return logs, nil
}

func parseRevision(line string) (Revision, error) {
	m := revisionRe.FindStringSubmatch(line)
	if m == nil {
		return Revision{}, unparseable("filelog", line)
	}
	rev, err := atoi("filelog", line, m[1])
	if err != nil {
		return Revision{}, err
	}
	change, err := atoi("filelog", line, m[2])
	if err != nil {
		return Revision{}, err
	}
	return Revision{
		Rev:         rev,
		Change:      change,
		Action:      m[3],
		Date:        m[4],
		User:        m[5],
		Client:      m[6],
		Type:        m[7],
		Description: m[8],
	}, nil
}
