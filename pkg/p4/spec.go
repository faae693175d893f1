package p4

import (
	"context"
	"regexp"
)

// SpecResult is the outcome of saving or deleting a client, label or
// branch spec.
type SpecResult struct {
	Name   string `json:"name" yaml:"name"`
	Action string `json:"action" yaml:"action"` // "saved", "deleted" or "not changed"
}

// ClientSummary is one client listed by 'p4 clients'.
type ClientSummary struct {
	Client      string `json:"client" yaml:"client"`
	Update      string `json:"update" yaml:"update"`
	Root        string `json:"root" yaml:"root"`
	Description string `json:"description" yaml:"description"`
}

// LabelSummary is one label listed by 'p4 labels'.
type LabelSummary struct {
	Label       string `json:"label" yaml:"label"`
	Update      string `json:"update" yaml:"update"`
	Description string `json:"description" yaml:"description"`
}

// BranchSummary is one branch listed by 'p4 branches'.
type BranchSummary struct {
	Branch      string `json:"branch" yaml:"branch"`
	Update      string `json:"update" yaml:"update"`
	Description string `json:"description" yaml:"description"`
}

// specKind describes one of the named spec types that share the
// get/save/delete protocol.
type specKind struct {
	command  string // subcommand and the form field holding the name
	resultRe *regexp.Regexp
}

var (
	clientSpec = specKind{"client", regexp.MustCompile(`^Client ([^\s@]+) (not changed|deleted|saved)\.$`)}
	labelSpec  = specKind{"label", regexp.MustCompile(`^Label ([^\s@]+) (not changed|deleted|saved)\.$`)}
	branchSpec = specKind{"branch", regexp.MustCompile(`^Branch ([^\s@]+) (not changed|deleted|saved)\.$`)}

	//	Client trentm-ra 2002/03/18 root c:\trentm\ 'Created by trentm. '
	clientsRe = regexp.MustCompile(`^Client ([^\s@]+) ([\d/]+) root (.*?) '(.*?)'$`)
	//	Label ActivePerl_623 2000/12/15 'ActivePerl 623 '
	labelsRe = regexp.MustCompile(`^Label ([^\s@]+) ([\d/]+) '(.*?)'$`)
	//	Branch zope-aspn 2001/10/15 'Contrib Zope into ASPN '
	branchesRe = regexp.MustCompile(`^Branch ([^\s@]+) ([\d/]+) '(.*?)'$`)
)

func (p *P4) getSpec(ctx context.Context, kind specKind, name string) (*Form, error) {
	if name == "" {
		return nil, incomplete(kind.command, "no name given")
	}
	out, err := p.output(ctx, kind.command, "-o", name)
	if err != nil {
		return nil, err
	}
	return ParseForm(out)
}

// saveSpec writes form as a spec. The name comes from the form's own name
// field if set, otherwise from name. When a name is known the existing spec
// is read first and form's sections are laid over it.
func (p *P4) saveSpec(ctx context.Context, kind specKind, name string, form *Form) (*SpecResult, error) {
	if form == nil {
		return nil, incomplete(kind.command, "no spec given")
	}
	if v, ok := form.Get(kind.command); ok && v != "" {
		name = v
	}
	spec := NewForm()
	if name != "" {
		current, err := p.getSpec(ctx, kind, name)
		if err != nil {
			return nil, err
		}
		spec = current
	}
	spec.Merge(form)
	out, err := p.writeForm(ctx, kind.command, spec)
	if err != nil {
		return nil, err
	}
	return parseSpecResult(kind, out)
}

func (p *P4) deleteSpec(ctx context.Context, kind specKind, name string) (*SpecResult, error) {
	if name == "" {
		return nil, incomplete(kind.command, "no name given")
	}
	out, err := p.output(ctx, kind.command, "-d", name)
	if err != nil {
		return nil, err
	}
	return parseSpecResult(kind, out)
}

func parseSpecResult(kind specKind, output string) (*SpecResult, error) {
	lines := outputLines(output)
	if len(lines) == 0 {
		return nil, unparseable(kind.command, "")
	}
	m := kind.resultRe.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, unparseable(kind.command, lines[0])
	}
	return &SpecResult{Name: m[1], Action: m[2]}, nil
}

// GetClient reads a client spec.
func (p *P4) GetClient(ctx context.Context, name string) (*Form, error) {
	return p.getSpec(ctx, clientSpec, name)
}

// SaveClient creates or updates a client spec.
func (p *P4) SaveClient(ctx context.Context, name string, client *Form) (*SpecResult, error) {
	return p.saveSpec(ctx, clientSpec, name, client)
}

// DeleteClient deletes a client spec.
func (p *P4) DeleteClient(ctx context.Context, name string) (*SpecResult, error) {
	return p.deleteSpec(ctx, clientSpec, name)
}

// GetLabel reads a label spec.
func (p *P4) GetLabel(ctx context.Context, name string) (*Form, error) {
	return p.getSpec(ctx, labelSpec, name)
}

// SaveLabel creates or updates a label spec.
func (p *P4) SaveLabel(ctx context.Context, name string, label *Form) (*SpecResult, error) {
	return p.saveSpec(ctx, labelSpec, name, label)
}

// DeleteLabel deletes a label spec.
func (p *P4) DeleteLabel(ctx context.Context, name string) (*SpecResult, error) {
	return p.deleteSpec(ctx, labelSpec, name)
}

// GetBranch reads a branch spec.
func (p *P4) GetBranch(ctx context.Context, name string) (*Form, error) {
	return p.getSpec(ctx, branchSpec, name)
}

// SaveBranch creates or updates a branch spec.
func (p *P4) SaveBranch(ctx context.Context, name string, branch *Form) (*SpecResult, error) {
	return p.saveSpec(ctx, branchSpec, name, branch)
}

// DeleteBranch deletes a branch spec.
func (p *P4) DeleteBranch(ctx context.Context, name string) (*SpecResult, error) {
	return p.deleteSpec(ctx, branchSpec, name)
}

// Clients lists the client workspaces known to the server.
func (p *P4) Clients(ctx context.Context) ([]ClientSummary, error) {
	out, err := p.output(ctx, "clients")
	if err != nil {
		return nil, err
	}
	var clients []ClientSummary
	for _, line := range outputLines(out) {
		m := clientsRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("clients", line)
		}
		clients = append(clients, ClientSummary{Client: m[1], Update: m[2], Root: m[3], Description: m[4]})
	}
	return clients, nil
}

// Labels lists labels.
func (p *P4) Labels(ctx context.Context) ([]LabelSummary, error) {
	out, err := p.output(ctx, "labels")
	if err != nil {
		return nil, err
	}
	var labels []LabelSummary
	for _, line := range outputLines(out) {
		m := labelsRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("labels", line)
		}
		labels = append(labels, LabelSummary{Label: m[1], Update: m[2], Description: m[3]})
	}
	return labels, nil
}

// Branches lists branch specs.
func (p *P4) Branches(ctx context.Context) ([]BranchSummary, error) {
	out, err := p.output(ctx, "branches")
	if err != nil {
		return nil, err
	}
	var branches []BranchSummary
	for _, line := range outputLines(out) {
		m := branchesRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("branches", line)
		}
		branches = append(branches, BranchSummary{Branch: m[1], Update: m[2], Description: m[3]})
	}
	return branches, nil
}
