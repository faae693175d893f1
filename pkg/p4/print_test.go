package p4

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeNodes replays a fixed list of -G records.
type fakeNodes struct {
	nodes []map[string]any
	err   error
}

func (f *fakeNodes) Next() (map[string]any, error) {
	if len(f.nodes) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, io.EOF
	}
	n := f.nodes[0]
	f.nodes = f.nodes[1:]
	return n, nil
}

func infoNode(data string) map[string]any { return map[string]any{"code": "info", "data": data} }
func textNode(data string) map[string]any { return map[string]any{"code": "text", "data": data} }

func TestAssemblePrint(t *testing.T) {
	nodes := &fakeNodes{nodes: []map[string]any{
		infoNode("//depot/a.txt#3 - edit change 12 (text)"),
		textNode("line one\n"),
		textNode("line two\n"),
		textNode(""),
		infoNode("//depot/logo.gif#1 - add change 4 (binary)"),
		{"code": "stat", "depotFile": "//depot/logo.gif"},
	}}
	got, err := assemblePrint(nodes)
	if err != nil {
		t.Fatalf("assemblePrint() error = %v", err)
	}
	want := []PrintHit{
		{DepotFile: "//depot/a.txt", Rev: 3, Action: "edit", Change: 12, Type: "text", Text: "line one\nline two\n", HasText: true},
		{DepotFile: "//depot/logo.gif", Rev: 1, Action: "add", Change: 4, Type: "binary"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("assemblePrint() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblePrintQuiet(t *testing.T) {
	nodes := &fakeNodes{nodes: []map[string]any{
		textNode("first\n"),
		textNode(""),
		textNode("second"),
		textNode(" file\n"),
	}}
	got, err := assemblePrint(nodes)
	if err != nil {
		t.Fatalf("assemblePrint() error = %v", err)
	}
	want := []PrintHit{
		{Text: "first\n", HasText: true},
		{Text: "second file\n", HasText: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("assemblePrint() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblePrintErrors(t *testing.T) {
	broken := errors.New("truncated record")
	if _, err := assemblePrint(&fakeNodes{err: broken}); !errors.Is(err, broken) {
		t.Errorf("decode error = %v, want %v", err, broken)
	}
	if _, err := assemblePrint(&fakeNodes{nodes: []map[string]any{infoNode("not a header")}}); !IsParseError(err) {
		t.Errorf("bad header error = %v, want ParseError", err)
	}
}

func TestPrintArgv(t *testing.T) {
	p, r := newMockP4(t)
	p.Conn = Connection{Port: "perforce:1666"}
	expectRun(r, []string{"p4", "-G", "-p", "perforce:1666", "print", "-q", "//depot/a.txt"}, "")

	got, err := p.Print(context.Background(), PrintOpts{Quiet: true}, "//depot/a.txt")
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Print() = %+v, want nothing", got)
	}

	if _, err := p.Print(context.Background(), PrintOpts{}); err == nil {
		t.Error("Print() with no files succeeded")
	}
}
