package p4

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// FileStat is one file record from 'p4 fstat'. Fields p4 does not report
// for a file keep their zero value; keys without a field of their own
// (otherOpen, otherLock, ...) are kept in Other.
type FileStat struct {
	ClientFile  string            `json:"clientFile" yaml:"clientFile"`
	DepotFile   string            `json:"depotFile" yaml:"depotFile"`
	Path        string            `json:"path" yaml:"path"`
	HeadAction  string            `json:"headAction" yaml:"headAction"`
	HeadChange  int               `json:"headChange" yaml:"headChange"`
	HeadRev     int               `json:"headRev" yaml:"headRev"`
	HeadType    string            `json:"headType" yaml:"headType"`
	HeadTime    int64             `json:"headTime" yaml:"headTime"`
	HaveRev     int               `json:"haveRev" yaml:"haveRev"`
	Action      string            `json:"action" yaml:"action"`
	ActionOwner string            `json:"actionOwner" yaml:"actionOwner"`
	Change      string            `json:"change" yaml:"change"`
	Unresolved  string            `json:"unresolved" yaml:"unresolved"`
	OurLock     bool              `json:"ourLock" yaml:"ourLock"`
	Other       map[string]string `json:"other,omitempty" yaml:"other,omitempty"`
}

var (
	fstatBlockSep = regexp.MustCompile(`(?:\r\n|\n){2}`)
	fstatFieldRe  = regexp.MustCompile(`^(?:\.\.\.\s)+(\S+)(?:\s(.*))?$`)
)

// Fstat reports detailed state of depot files, in client (-C) syntax with
// local paths (-P).
func (p *P4) Fstat(ctx context.Context, files ...string) ([]FileStat, error) {
	if len(files) == 0 {
		return nil, incomplete("fstat", "no files given")
	}
	out, err := p.output(ctx, append([]string{"fstat", "-C", "-P"}, files...)...)
	if err != nil {
		return nil, err
	}
	return parseFstat(out)
}

func parseFstat(output string) ([]FileStat, error) {
	var stats []FileStat
	for _, block := range fstatBlockSep.Split(output, -1) {
		var (
			stat  FileStat
			found bool
		)
		for _, line := range outputLines(block) {
			m := fstatFieldRe.FindStringSubmatch(line)
			if m == nil {
				if strings.TrimSpace(line) == "" {
					continue
				}
				return nil, unparseable("fstat", line)
			}
			found = true
			if err := stat.set(line, m[1], strings.TrimSpace(m[2])); err != nil {
				return nil, err
			}
		}
		if found {
			stats = append(stats, stat)
		}
	}
	return stats, nil
}

func (s *FileStat) set(line, key, value string) error {
	var err error
	switch key {
	case "clientFile":
		s.ClientFile = value
	case "depotFile":
		s.DepotFile = value
	case "path":
		s.Path = value
	case "headAction":
		s.HeadAction = value
	case "headType":
		s.HeadType = value
	case "action":
		s.Action = value
	case "actionOwner":
		s.ActionOwner = value
	case "change":
		s.Change = value
	case "unresolved":
		s.Unresolved = value
	case "ourLock":
		s.OurLock = true
	case "headChange":
		s.HeadChange, err = fstatInt(line, value)
	case "headRev":
		s.HeadRev, err = fstatInt(line, value)
	case "haveRev":
		s.HaveRev, err = fstatInt(line, value)
	case "headTime":
		var n int
		n, err = fstatInt(line, value)
		s.HeadTime = int64(n)
	default:
		if s.Other == nil {
			s.Other = make(map[string]string)
		}
		s.Other[key] = value
	}
	return err
}

// fstatInt is atoi, except that "none" is zero.
func fstatInt(line, value string) (int, error) {
	if value == "none" || value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ParseError{Command: "fstat", Line: line, Err: err}
	}
	return n, nil
}
