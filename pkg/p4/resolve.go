package p4

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"
)

// ResolveOpts configures a resolve. Only the non-interactive forms of
// 'p4 resolve' are supported, so an auto-resolve mode is always passed.
type ResolveOpts struct {
	Files    []string
	AutoMode string // -a<mode>: "" (merge), "f", "m", "s", "t" or "y"
	Force    bool   // -f: re-resolve already resolved files
	DryRun   bool   // -n
	Text     bool   // -t: force a textual merge
	Verbose  bool   // -v: mark all changes, not just conflicts
}

// DiffChunks counts the merge chunks reported for one resolve.
type DiffChunks struct {
	Yours       int `json:"yours" yaml:"yours"`
	Theirs      int `json:"theirs" yaml:"theirs"`
	Both        int `json:"both" yaml:"both"`
	Conflicting int `json:"conflicting" yaml:"conflicting"`
}

// ResolveHit is the outcome of resolving one file.
type ResolveHit struct {
	LocalFile  string      `json:"localFile" yaml:"localFile"`
	DepotFile  string      `json:"depotFile" yaml:"depotFile"`
	Rev        int         `json:"rev" yaml:"rev"`
	ClientFile string      `json:"clientFile,omitempty" yaml:"clientFile,omitempty"`
	Action     string      `json:"action,omitempty" yaml:"action,omitempty"`
	DiffChunks *DiffChunks `json:"diffChunks,omitempty" yaml:"diffChunks,omitempty"`
}

var resolveModes = map[string]bool{"": true, "f": true, "m": true, "s": true, "t": true, "y": true}

// Each file produces an intro line, an optional chunk count and an action:
//
//	C:\rootdir\foo.txt - merging //depot/foo.txt#2
//	Diff chunks: 0 yours + 0 theirs + 0 both + 1 conflicting
//	//client-name/foo.txt - resolve skipped.
var (
	resolveIntroRe  = regexp.MustCompile(`^(.+?) - (?:merging|vs) (//.+?)#(\d+)$`)
	resolveDiffRe   = regexp.MustCompile(`^(?:Diff chunks|Non-text diff): (\d+) yours \+ (\d+) theirs \+ (\d+) both \+ (\d+) conflicting$`)
	resolveActionRe = regexp.MustCompile(`^(//.+?) - (.+?)(?:\.)?$`)
)

// Resolve merges open files with other revisions.
func (p *P4) Resolve(ctx context.Context, opts ResolveOpts) ([]ResolveHit, error) {
	if !resolveModes[opts.AutoMode] {
		return nil, invalidValue("resolve auto mode", opts.AutoMode)
	}
	args := append([]string{"resolve", "-a" + opts.AutoMode}, BuildArgs(
		Flag("-f", opts.Force),
		Flag("-n", opts.DryRun),
		Flag("-t", opts.Text),
		Flag("-v", opts.Verbose),
	)...)
	res, err := p.runBatched(ctx, args, opts.Files)
	if err != nil {
		return nil, err
	}
	return parseResolve(res.Stdout)
}

func parseResolve(output string) ([]ResolveHit, error) {
	var hits []ResolveHit
	for _, line := range outputLines(output) {
		if m := resolveIntroRe.FindStringSubmatch(line); m != nil {
			rev, err := atoi("resolve", line, m[3])
			if err != nil {
				return nil, err
			}
			hits = append(hits, ResolveHit{LocalFile: m[1], DepotFile: m[2], Rev: rev})
			logger.WithFields(logrus.Fields{"kind": "intro", "line": line}).Info("parsed resolve line")
			continue
		}
		if len(hits) == 0 {
			return nil, unparseable("resolve", line)
		}
		last := &hits[len(hits)-1]
		if m := resolveDiffRe.FindStringSubmatch(line); m != nil {
			var counts [4]int
			for i := range counts {
				n, err := atoi("resolve", line, m[i+1])
				if err != nil {
					return nil, err
				}
				counts[i] = n
			}
			last.DiffChunks = &DiffChunks{Yours: counts[0], Theirs: counts[1], Both: counts[2], Conflicting: counts[3]}
			logger.WithFields(logrus.Fields{"kind": "diff", "line": line}).Info("parsed resolve line")
			continue
		}
		if m := resolveActionRe.FindStringSubmatch(line); m != nil {
			last.ClientFile = m[1]
			last.Action = m[2]
			logger.WithFields(logrus.Fields{"kind": "action", "line": line}).Info("parsed resolve line")
			continue
		}
		return nil, unparseable("resolve", line)
	}
	return hits, nil
}
