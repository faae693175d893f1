package p4

import (
	"context"
	"regexp"
)

// HaveFile is a file revision last synced to the client.
type HaveFile struct {
	DepotFile string `json:"depotFile" yaml:"depotFile"`
	Rev       int    `json:"rev" yaml:"rev"`
	LocalFile string `json:"localFile" yaml:"localFile"`
}

// DepotFile is one file revision listed by 'p4 files'.
type DepotFile struct {
	DepotFile string `json:"depotFile" yaml:"depotFile"`
	Rev       int    `json:"rev" yaml:"rev"`
	Action    string `json:"action" yaml:"action"`
	Change    int    `json:"change" yaml:"change"`
	Type      string `json:"type" yaml:"type"`
}

var (
	// depot-file#revision - client-file
	haveRe = regexp.MustCompile(`^(.+)#(\d+) - (.+)`)
	// //depot/foo.txt#3 - edit change 1234 (text)
	depotFileRe = regexp.MustCompile(`^(//.*?)#(\d+) - (\w+) change (\d+) \(([\w+]+)\)$`)
)

// Have lists the file revisions last synced to the client.
func (p *P4) Have(ctx context.Context, files ...string) ([]HaveFile, error) {
	out, err := p.output(ctx, append([]string{"have"}, files...)...)
	if err != nil {
		return nil, err
	}
	return parseHave(out)
}

func parseHave(output string) ([]HaveFile, error) {
	var hits []HaveFile
	for _, line := range outputLines(output) {
		m := haveRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("have", line)
		}
		rev, err := atoi("have", line, m[2])
		if err != nil {
			return nil, err
		}
		hits = append(hits, HaveFile{DepotFile: m[1], Rev: rev, LocalFile: m[3]})
	}
	return hits, nil
}

// Files lists depot files matching the given file specs.
func (p *P4) Files(ctx context.Context, files ...string) ([]DepotFile, error) {
	if len(files) == 0 {
		return nil, incomplete("files", "no files given")
	}
	out, err := p.output(ctx, append([]string{"files"}, files...)...)
	if err != nil {
		return nil, err
	}
	return parseFiles(out)
}

func parseFiles(output string) ([]DepotFile, error) {
	var hits []DepotFile
	for _, line := range outputLines(output) {
		hit, err := parseDepotFileLine("files", line)
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func parseDepotFileLine(command, line string) (DepotFile, error) {
	m := depotFileRe.FindStringSubmatch(line)
	if m == nil {
		return DepotFile{}, unparseable(command, line)
	}
	rev, err := atoi(command, line, m[2])
	if err != nil {
		return DepotFile{}, err
	}
	change, err := atoi(command, line, m[4])
	if err != nil {
		return DepotFile{}, err
	}
	return DepotFile{DepotFile: m[1], Rev: rev, Action: m[3], Change: change, Type: m[5]}, nil
}
