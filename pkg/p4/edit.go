package p4

import (
	"context"
	"regexp"
	"strings"
)

// FileHit is p4's commentary on one file named to add, edit, delete, sync,
// flush or revert. Rev is nil when the command reports no revision, which
// usually means the file was not acted on.
type FileHit struct {
	DepotFile string   `json:"depotFile" yaml:"depotFile"`
	Rev       *int     `json:"rev" yaml:"rev"`
	Comment   string   `json:"comment" yaml:"comment"`
	Notes     []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// OpenOpts configures add, edit and delete.
type OpenOpts struct {
	Change   int    // -c: pending changelist to open the files in
	FileType string // -t: explicit filetype (add and edit only)
}

var (
	//	//depot/apps/px/p4.py#1 - opened for add
	//	//depot/apps/px/px.cpp - can't add existing file
	addHitRe = regexp.MustCompile(`^(//.+?)(?:#(\d+))? - (.*)$`)

	//	//depot/build.py#142 - opened for edit
	//	//depot/foo.txt - can't change from change 24940 - use 'reopen'
	editHitRe   = regexp.MustCompile(`^(.+?)#(\d+) - (.*)$`)
	editNoRevRe = regexp.MustCompile(`^(.+?) - (.*)$`)

	//	//depot/foo.txt#1 - opened for delete
	deleteHitRe = regexp.MustCompile(`^(.+?)(?:#(\d+))? - (.*)$`)
)

// Add opens new files for addition to the depot.
func (p *P4) Add(ctx context.Context, opts OpenOpts, files ...string) ([]FileHit, error) {
	if len(files) == 0 {
		return nil, incomplete("add", "no files given")
	}
	out, err := p.output(ctx, p.openArgs("add", opts, files, true)...)
	if err != nil {
		return nil, err
	}
	return parseAdd(out)
}

// Edit opens existing files for edit.
func (p *P4) Edit(ctx context.Context, opts OpenOpts, files ...string) ([]FileHit, error) {
	if len(files) == 0 {
		return nil, incomplete("edit", "no files given")
	}
	out, err := p.output(ctx, p.openArgs("edit", opts, files, true)...)
	if err != nil {
		return nil, err
	}
	return parseEdit(out)
}

// Delete opens existing files for deletion from the depot.
func (p *P4) Delete(ctx context.Context, opts OpenOpts, files ...string) ([]FileHit, error) {
	if len(files) == 0 {
		return nil, incomplete("delete", "no files given")
	}
	out, err := p.output(ctx, p.openArgs("delete", opts, files, false)...)
	if err != nil {
		return nil, err
	}
	return parseDelete(out)
}

func (p *P4) openArgs(command string, opts OpenOpts, files []string, withType bool) []string {
	args := []Arg{Number("-c", optNum(opts.Change))}
	if withType {
		args = append(args, Value("-t", opts.FileType))
	}
	argv := append([]string{command}, BuildArgs(args...)...)
	return append(argv, files...)
}

// parseAdd treats every line that is not a depot hit as a note on the
// previous hit, e.g. the local "missing, assuming text." warning.
func parseAdd(output string) ([]FileHit, error) {
	var hits []FileHit
	for _, line := range outputLines(output) {
		if m := addHitRe.FindStringSubmatch(line); m != nil {
			rev, err := optRev("add", line, m[2])
			if err != nil {
				return nil, err
			}
			hits = append(hits, FileHit{DepotFile: m[1], Rev: rev, Comment: m[3]})
			continue
		}
		if len(hits) == 0 {
			return nil, unparseable("add", line)
		}
		note := strings.TrimSpace(line)
		if strings.HasPrefix(line, "...") {
			note = noteText(line)
		}
		last := &hits[len(hits)-1]
		last.Notes = append(last.Notes, note)
	}
	return hits, nil
}

func parseEdit(output string) ([]FileHit, error) {
	var hits []FileHit
	for _, line := range outputLines(output) {
		line = strings.TrimRight(line, " \t\r")
		if strings.HasPrefix(line, "...") {
			if err := appendNote(hits, "edit", line); err != nil {
				return nil, err
			}
			continue
		}
		if m := editHitRe.FindStringSubmatch(line); m != nil {
			rev, err := optRev("edit", line, m[2])
			if err != nil {
				return nil, err
			}
			hits = append(hits, FileHit{DepotFile: m[1], Rev: rev, Comment: m[3]})
			continue
		}
		m := editNoRevRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("edit", line)
		}
		hits = append(hits, FileHit{DepotFile: m[1], Comment: m[2]})
	}
	return hits, nil
}

func parseDelete(output string) ([]FileHit, error) {
	var hits []FileHit
	for _, line := range outputLines(output) {
		m := deleteHitRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("delete", line)
		}
		rev, err := optRev("delete", line, m[2])
		if err != nil {
			return nil, err
		}
		hits = append(hits, FileHit{DepotFile: m[1], Rev: rev, Comment: m[3]})
	}
	return hits, nil
}

// appendNote adds the note carried by a continuation line to the last hit.
func appendNote(hits []FileHit, command, line string) error {
	if len(hits) == 0 {
		return unparseable(command, line)
	}
	last := &hits[len(hits)-1]
	last.Notes = append(last.Notes, noteText(line))
	return nil
}
