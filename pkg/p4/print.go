package p4

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/EmundoT/p4-plumbing/pkg/p4/marshal"
)

// PrintHit is the content of one depot file revision. The metadata fields
// are empty in quiet mode; HasText is false for binary files.
type PrintHit struct {
	DepotFile string `json:"depotFile,omitempty" yaml:"depotFile,omitempty"`
	Rev       int    `json:"rev,omitempty" yaml:"rev,omitempty"`
	Action    string `json:"action,omitempty" yaml:"action,omitempty"`
	Change    int    `json:"change,omitempty" yaml:"change,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	HasText   bool   `json:"hasText" yaml:"hasText"`
}

// PrintOpts configures a print.
type PrintOpts struct {
	LocalFile string // -o: write the contents to this local file instead
	Quiet     bool   // -q: omit the per-file header
}

// NodeReader yields the tagged records of a 'p4 -G' stream, returning
// io.EOF after the last one.
type NodeReader interface {
	Next() (map[string]any, error)
}

// Print retrieves the contents of depot files. Plain output cannot be
// split reliably into files, so p4 is run in -G mode and the record stream
// is decoded instead.
func (p *P4) Print(ctx context.Context, opts PrintOpts, files ...string) ([]PrintHit, error) {
	if len(files) == 0 {
		return nil, incomplete("print", "no files given")
	}
	exe := p.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	argv := append([]string{exe, "-G"}, p.Conn.Args()...)
	argv = append(argv, "print")
	argv = append(argv, BuildArgs(
		Value("-o", opts.LocalFile),
		Flag("-q", opts.Quiet),
	)...)
	argv = append(argv, files...)

	res, err := p.exec(ctx, argv)
	if err != nil {
		return nil, err
	}
	return assemblePrint(marshal.NewReader(strings.NewReader(res.Stdout)))
}

// assemblePrint groups nodes into hits. An info node (the file header)
// always starts a hit and text nodes append to it. Without headers (quiet
// mode), a text node starts a new hit when there is none yet or when the
// previous text node was empty, which marks the end of a file.
func assemblePrint(nodes NodeReader) ([]PrintHit, error) {
	var hits []PrintHit
	startNew := true
	for {
		node, err := nodes.Next()
		if errors.Is(err, io.EOF) {
			return hits, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding print output: %w", err)
		}
		data, _ := node["data"].(string)
		switch node["code"] {
		case "info":
			f, err := parseDepotFileLine("print", data)
			if err != nil {
				return nil, err
			}
			hits = append(hits, PrintHit{
				DepotFile: f.DepotFile,
				Rev:       f.Rev,
				Action:    f.Action,
				Change:    f.Change,
				Type:      f.Type,
			})
			startNew = false
		case "text":
			if startNew || len(hits) == 0 {
				hits = append(hits, PrintHit{})
			}
			last := &hits[len(hits)-1]
			last.Text += data
			last.HasText = true
			startNew = data == ""
		default:
			logger.WithField("node", node).Warn("ignoring print record")
		}
	}
}
