package p4

import (
	"context"
	"regexp"
	"strings"
)

// SyncOpts configures sync and flush.
type SyncOpts struct {
	Files  []string // files or wildcards; empty means the whole client view
	Force  bool     // -f: resync files the client already has, clobbering writable files
	DryRun bool     // -n: report without changing anything
}

// Output shapes:
//
//	//depot/foo#1 - updating C:\foo
//	//depot/foo#1 - is opened at a later revision - not changed
//	//depot/foo#1 - deleted as C:\foo
//	... //depot/foo - must resolve #2 before submitting
var syncRe = regexp.MustCompile(`^(.+?)#(\d+) - (.+?)$`)

// Sync brings the client workspace up to date with its view of the depot.
func (p *P4) Sync(ctx context.Context, opts SyncOpts) ([]FileHit, error) {
	res, err := p.runBatched(ctx, append([]string{"sync"}, syncArgs(opts)...), opts.Files)
	if err != nil {
		return nil, err
	}
	return parseSync("sync", res.Stdout)
}

// Flush updates the have list as if synced, without transferring files.
func (p *P4) Flush(ctx context.Context, opts SyncOpts) ([]FileHit, error) {
	args := append([]string{"flush"}, syncArgs(opts)...)
	out, err := p.output(ctx, append(args, opts.Files...)...)
	if err != nil {
		return nil, err
	}
	return parseSync("flush", out)
}

func syncArgs(opts SyncOpts) []string {
	return BuildArgs(
		Flag("-f", opts.Force),
		Flag("-n", opts.DryRun),
	)
}

func parseSync(command, output string) ([]FileHit, error) {
	var hits []FileHit
	for _, line := range outputLines(output) {
		if strings.HasPrefix(line, "... ") {
			if err := appendNote(hits, command, line); err != nil {
				return nil, err
			}
			continue
		}
		m := syncRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable(command, line)
		}
		rev, err := atoi(command, line, m[2])
		if err != nil {
			return nil, err
		}
		hits = append(hits, FileHit{DepotFile: m[1], Rev: &rev, Comment: m[3]})
	}
	return hits, nil
}
