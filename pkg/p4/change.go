package p4

import (
	"context"
	"regexp"
	"strconv"
)

// ChangeSpec is the typed form of a changelist spec.
type ChangeSpec struct {
	Change      int        `json:"change" yaml:"change"` // 0 is a new changelist
	Description string     `json:"description" yaml:"description"`
	User        string     `json:"user,omitempty" yaml:"user,omitempty"`
	Client      string     `json:"client,omitempty" yaml:"client,omitempty"`
	Status      string     `json:"status,omitempty" yaml:"status,omitempty"`
	Date        string     `json:"date,omitempty" yaml:"date,omitempty"`
	Files       []FormFile `json:"files,omitempty" yaml:"files,omitempty"`
}

// ChangeSpecFromForm decodes a change form.
func ChangeSpecFromForm(f *Form) (*ChangeSpec, error) {
	files, err := f.Files()
	if err != nil {
		return nil, err
	}
	change, _ := f.Change()
	return &ChangeSpec{
		Change:      change,
		Description: f.Value("description"),
		User:        f.Value("user"),
		Client:      f.Value("client"),
		Status:      f.Value("status"),
		Date:        f.Value("date"),
		Files:       files,
	}, nil
}

// Form encodes c as a change form. Empty fields are left out, except the
// change number, which is written as "new" when zero.
func (c *ChangeSpec) Form() *Form {
	f := NewForm()
	f.SetChange(c.Change)
	for key, value := range map[string]string{
		"description": c.Description,
		"user":        c.User,
		"client":      c.Client,
		"status":      c.Status,
		"date":        c.Date,
	} {
		if value != "" {
			f.Set(key, value)
		}
	}
	if c.Files != nil {
		f.SetFiles(c.Files)
	}
	return f
}

// ChangeResult is the outcome of creating, updating or deleting a
// changelist. Action is empty when p4 declined, with the reason in Comment.
type ChangeResult struct {
	Change  int    `json:"change" yaml:"change"`
	Action  string `json:"action,omitempty" yaml:"action,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ChangeOpts carries the fields to write when creating or updating a
// changelist.
type ChangeOpts struct {
	Description string
	// Files to put in the changelist. Nil leaves the default: all opened
	// files on create, the current files on update.
	Files []string
	// NoFiles writes an empty Files section, overriding Files.
	NoFiles bool
}

// Tried in order against the first line of output.
var changeResultRes = []*regexp.Regexp{
	regexp.MustCompile(`^Change (\d+) (created|updated|deleted)()\.$`),
	regexp.MustCompile(`^Change (\d+) (created) (.+?)\.$`),
	regexp.MustCompile(`^Change (\d+) (updated), (.+?)\.$`),
	// Change 1 has 1 open file(s) associated with it and can't be deleted.
	regexp.MustCompile(`^Change (\d+) ()(.+?)\.$`),
}

// GetChange reads the spec of a pending or submitted changelist.
func (p *P4) GetChange(ctx context.Context, change int) (*ChangeSpec, error) {
	f, err := p.changeForm(ctx, change)
	if err != nil {
		return nil, err
	}
	return ChangeSpecFromForm(f)
}

func (p *P4) changeForm(ctx context.Context, change int) (*Form, error) {
	if change <= 0 {
		return nil, incomplete("change", "no change number given")
	}
	out, err := p.output(ctx, "change", "-o", strconv.Itoa(change))
	if err != nil {
		return nil, err
	}
	return ParseForm(out)
}

// CreateChange creates a pending changelist.
func (p *P4) CreateChange(ctx context.Context, opts ChangeOpts) (*ChangeResult, error) {
	if opts.Description == "" {
		return nil, incomplete("change", "a description is required to create a change")
	}
	files, err := p.formFiles(ctx, opts.Files, opts.NoFiles, true)
	if err != nil {
		return nil, err
	}
	f := NewForm()
	f.SetChange(0)
	f.Set("description", opts.Description)
	f.SetFiles(files)
	out, err := p.writeForm(ctx, "change", f)
	if err != nil {
		return nil, err
	}
	return parseChangeResult(out)
}

// UpdateChange rewrites the description and/or files of a pending
// changelist, keeping every other field of its current spec.
func (p *P4) UpdateChange(ctx context.Context, change int, opts ChangeOpts) (*ChangeResult, error) {
	if opts.Description == "" && opts.Files == nil && !opts.NoFiles {
		return nil, incomplete("change", "nothing to update")
	}
	f, err := p.changeForm(ctx, change)
	if err != nil {
		return nil, err
	}
	if opts.Files != nil || opts.NoFiles {
		files, err := p.formFiles(ctx, opts.Files, opts.NoFiles, false)
		if err != nil {
			return nil, err
		}
		f.SetFiles(files)
	}
	if opts.Description != "" {
		f.Set("description", opts.Description)
	}
	out, err := p.writeForm(ctx, "change", f)
	if err != nil {
		return nil, err
	}
	return parseChangeResult(out)
}

// DeleteChange deletes a pending changelist.
func (p *P4) DeleteChange(ctx context.Context, change int) (*ChangeResult, error) {
	if change <= 0 {
		return nil, incomplete("change", "no change number given")
	}
	out, err := p.output(ctx, "change", "-d", strconv.Itoa(change))
	if err != nil {
		return nil, err
	}
	return parseChangeResult(out)
}

// formFiles resolves the depot files for a change or submit form: all
// opened files when files is nil and opened is set, none when none is set,
// otherwise the depot side of each file's client mapping.
func (p *P4) formFiles(ctx context.Context, files []string, none, opened bool) ([]FormFile, error) {
	result := []FormFile{}
	switch {
	case none:
		return result, nil
	case len(files) == 0 && opened:
		hits, err := p.Opened(ctx, OpenedOpts{})
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			result = append(result, FormFile{DepotFile: h.DepotFile})
		}
	case len(files) > 0:
		mappings, err := p.Where(ctx, files...)
		if err != nil {
			return nil, err
		}
		for _, m := range mappings {
			if m.Minus {
				continue
			}
			result = append(result, FormFile{DepotFile: m.DepotFile})
		}
	}
	return result, nil
}

func parseChangeResult(output string) (*ChangeResult, error) {
	lines := outputLines(output)
	if len(lines) == 0 {
		return nil, unparseable("change", "")
	}
	for _, re := range changeResultRes {
		m := re.FindStringSubmatch(lines[0])
		if m == nil {
			continue
		}
		change, err := atoi("change", lines[0], m[1])
		if err != nil {
			return nil, err
		}
		return &ChangeResult{Change: change, Action: m[2], Comment: m[3]}, nil
	}
	return nil, unparseable("change", lines[0])
}
