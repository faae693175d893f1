package p4

import (
	"context"
	"regexp"
)

// RevertOpts configures a revert.
type RevertOpts struct {
	Files         []string // required unless UnchangedOnly
	Change        int      // -c: only files opened in this changelist
	UnchangedOnly bool     // -a: only files that do not differ from the depot
}

// //depot/hello.txt#1 - was edit, reverted
// //depot/test_g.txt#none - was add, abandoned
var revertRe = regexp.MustCompile(`^(//.+?)(?:#(\w+))? - (.*)$`)

// Revert discards changes to opened files.
func (p *P4) Revert(ctx context.Context, opts RevertOpts) ([]FileHit, error) {
	if len(opts.Files) == 0 && !opts.UnchangedOnly {
		return nil, incomplete("revert", "no files given")
	}
	args := append([]string{"revert"}, BuildArgs(
		Number("-c", optNum(opts.Change)),
		Flag("-a", opts.UnchangedOnly),
	)...)
	out, err := p.output(ctx, append(args, opts.Files...)...)
	if err != nil {
		return nil, err
	}
	return parseRevert(out)
}

func parseRevert(output string) ([]FileHit, error) {
	var hits []FileHit
	for _, line := range outputLines(output) {
		m := revertRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("revert", line)
		}
		rev, err := optRev("revert", line, m[2])
		if err != nil {
			return nil, err
		}
		hits = append(hits, FileHit{DepotFile: m[1], Rev: rev, Comment: m[3]})
	}
	return hits, nil
}
