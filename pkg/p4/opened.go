package p4

import (
	"context"
	"regexp"
	"strconv"
)

// Changelist is a changelist number as reported for an opened file. The
// zero value is the default changelist.
type Changelist int

func (c Changelist) String() string {
	if c == 0 {
		return "default"
	}
	return strconv.Itoa(int(c))
}

// MarshalText renders the default changelist as "default".
func (c Changelist) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// OpenedFile is one file open in a pending changelist.
type OpenedFile struct {
	DepotFile string     `json:"depotFile" yaml:"depotFile"`
	Rev       int        `json:"rev" yaml:"rev"`
	Action    string     `json:"action" yaml:"action"`
	Change    Changelist `json:"change" yaml:"change"`
	Type      string     `json:"type" yaml:"type"`
	User      string     `json:"user,omitempty" yaml:"user,omitempty"`     // only with AllClients
	Client    string     `json:"client,omitempty" yaml:"client,omitempty"` // only with AllClients
}

// OpenedOpts configures an opened query.
type OpenedOpts struct {
	Files      []string // files or wildcards; empty means the whole client view
	AllClients bool     // -a: list files opened in all clients
	Change     int      // -c: restrict to a pending changelist
}

// Output shapes:
//
//	//depot/apps/px/px.py#3 - edit default change (text)
//	//depot/foo.txt#1 - edit change 12345 (text+w) by trentm@trentm-pliers
var openedRe = regexp.MustCompile(`^(.*?)#(\d+) - (\w+) (?:default change|change (\d+)) \(([\w+]+)\)(?: by )?(?:([^\s@]+)@([^\s@]+))?`)

// Opened lists files opened in pending changelists.
func (p *P4) Opened(ctx context.Context, opts OpenedOpts) ([]OpenedFile, error) {
	args := append([]string{"opened"}, BuildArgs(
		Flag("-a", opts.AllClients),
		Number("-c", optNum(opts.Change)),
	)...)
	res, err := p.runBatched(ctx, args, opts.Files)
	if err != nil {
		return nil, err
	}
	return parseOpened(res.Stdout)
}

func parseOpened(output string) ([]OpenedFile, error) {
	var files []OpenedFile
	for _, line := range outputLines(output) {
		m := openedRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("opened", line)
		}
		rev, err := atoi("opened", line, m[2])
		if err != nil {
			return nil, err
		}
		f := OpenedFile{
			DepotFile: m[1],
			Rev:       rev,
			Action:    m[3],
			Type:      m[5],
			User:      m[6],
			Client:    m[7],
		}
		if m[4] != "" {
			change, err := atoi("opened", line, m[4])
			if err != nil {
				return nil, err
			}
			f.Change = Changelist(change)
		}
		files = append(files, f)
	}
	return files, nil
}

// atoi converts a numeric capture, reporting failure as a ParseError.
func atoi(command, line, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Command: command, Line: line, Err: err}
	}
	return n, nil
}

// optRev converts an optional revision capture. Empty and "none" are nil.
func optRev(command, line, s string) (*int, error) {
	if s == "" || s == "none" {
		return nil, nil
	}
	n, err := atoi(command, line, s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
