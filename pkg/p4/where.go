package p4

import (
	"context"
	"strings"
)

// WhereMapping is one line of client view mapping.
type WhereMapping struct {
	DepotFile  string `json:"depotFile" yaml:"depotFile"`
	ClientFile string `json:"clientFile" yaml:"clientFile"`
	LocalFile  string `json:"localFile" yaml:"localFile"`
	Minus      bool   `json:"minus" yaml:"minus"` // exclusion mapping
}

// Where shows how file names map through the client view.
func (p *P4) Where(ctx context.Context, files ...string) ([]WhereMapping, error) {
	out, err := p.output(ctx, append([]string{"where"}, files...)...)
	if err != nil {
		return nil, err
	}
	return parseWhere(out, p.Windows)
}

// parseWhere splits each line into depot, client and local paths. File
// names may contain spaces, so instead of tokenizing, the paths are found
// by their markers: "//" for the depot and client paths, and a drive colon
// (windows) or " /" for the local path.
//
//	-//depot/foo/Py-2_1/... //trentm-ra/foo/Py-2_1/... c:\trentm\foo\Py-2_1\...
//	//depot/foo/Py Exts.dsw //trentm-ra/foo/Py Exts.dsw /home/trentm/foo/Py Exts.dsw
func parseWhere(output string, windows bool) ([]WhereMapping, error) {
	var mappings []WhereMapping
	for _, line := range outputLines(output) {
		var m WhereMapping
		rest := line
		if strings.HasPrefix(rest, "-") {
			m.Minus = true
			rest = rest[1:]
		}
		depotStart := strings.Index(rest, "//")
		if depotStart < 0 {
			return nil, unparseable("where", line)
		}
		clientStart := indexFrom(rest, "//", depotStart+2)
		if clientStart < depotStart+3 {
			return nil, unparseable("where", line)
		}
		m.DepotFile = rest[depotStart : clientStart-1]

		var localStart int
		if windows {
			if strings.Contains(m.DepotFile, ":") {
				return nil, unparseable("where", line)
			}
			localStart = indexFrom(rest, ":", clientStart+2) - 1
		} else {
			if strings.Contains(m.DepotFile, " /") {
				return nil, unparseable("where", line)
			}
			localStart = indexFrom(rest, " /", clientStart+2)
			if localStart >= 0 {
				localStart++
			}
		}
		if localStart < clientStart+1 {
			return nil, unparseable("where", line)
		}
		m.ClientFile = rest[clientStart : localStart-1]
		m.LocalFile = rest[localStart:]
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// indexFrom is strings.Index starting at byte offset from; -1 if absent.
func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return i + from
}
