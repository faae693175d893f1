package p4

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// ChangeSummary is one changelist listed by 'p4 changes'. Description is
// truncated by p4 unless long output was requested.
type ChangeSummary struct {
	Change      int    `json:"change" yaml:"change"`
	Date        string `json:"date" yaml:"date"`
	User        string `json:"user" yaml:"user"`
	Client      string `json:"client" yaml:"client"`
	Pending     bool   `json:"pending,omitempty" yaml:"pending,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// ChangesOpts configures a changes query.
type ChangesOpts struct {
	Files              []string // limit to changes affecting these files
	FollowIntegrations bool     // -i
	LongOutput         bool     // -l: full descriptions
	Max                int      // -m: most recent changes only; 0 means all
	Status             string   // -s: "", "pending" or "submitted"
}

var (
	//	Change 1234 on 2002/07/01 by trentm@trentm-ra 'fix the thing'
	//	Change 1235 on 2002/07/02 by trentm@trentm-ra *pending* 'wip'
	changeShortRe = regexp.MustCompile(`^Change (\d+) on ([\d/]+) by ([^\s@]+)@([^\s@]+) (\*pending\* )?'(.*?)'$`)
	changeLongRe  = regexp.MustCompile(`^Change (\d+) on ([\d/]+) by ([^\s@]+)@([^\s@]+)( \*pending\*)?$`)
)

// Changes lists pending and submitted changelists.
func (p *P4) Changes(ctx context.Context, opts ChangesOpts) ([]ChangeSummary, error) {
	if opts.Max < 0 {
		return nil, invalidValue("changes maximum", strconv.Itoa(opts.Max))
	}
	if opts.Status != "" && opts.Status != "pending" && opts.Status != "submitted" {
		return nil, invalidValue("changes status", opts.Status)
	}
	args := append([]string{"changes"}, BuildArgs(
		Flag("-i", opts.FollowIntegrations),
		Flag("-l", opts.LongOutput),
		Number("-m", optNum(opts.Max)),
		Value("-s", opts.Status),
	)...)
	out, err := p.output(ctx, append(args, opts.Files...)...)
	if err != nil {
		return nil, err
	}
	if opts.LongOutput {
		return parseChangesLong(out)
	}
	return parseChangesShort(out)
}

func parseChangesShort(output string) ([]ChangeSummary, error) {
	var changes []ChangeSummary
	for _, line := range outputLines(output) {
		m := changeShortRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("changes", line)
		}
		c, err := changeSummary(line, m)
		if err != nil {
			return nil, err
		}
		c.Description = m[6]
		changes = append(changes, c)
	}
	return changes, nil
}

// parseChangesLong reads a header per change followed by its tab-indented
// description lines. Blank lines carry nothing.
func parseChangesLong(output string) ([]ChangeSummary, error) {
	var changes []ChangeSummary
	for _, line := range outputLines(output) {
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case strings.HasPrefix(line, "\t"):
			if len(changes) == 0 {
				return nil, unparseable("changes", line)
			}
			last := &changes[len(changes)-1]
			last.Description += line[1:] + "\n"
		default:
			m := changeLongRe.FindStringSubmatch(line)
			if m == nil {
				return nil, unparseable("changes", line)
			}
			c, err := changeSummary(line, m)
			if err != nil {
				return nil, err
			}
			changes = append(changes, c)
		}
	}
	for i := range changes {
		changes[i].Description = strings.TrimSuffix(changes[i].Description, "\n")
	}
	return changes, nil
}

func changeSummary(line string, m []string) (ChangeSummary, error) {
	change, err := atoi("changes", line, m[1])
	if err != nil {
		return ChangeSummary{}, err
	}
	return ChangeSummary{
		Change:  change,
		Date:    m[2],
		User:    m[3],
		Client:  m[4],
		Pending: m[5] != "",
	}, nil
}
