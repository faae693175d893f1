package p4

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDiffBinaryHeader(t *testing.T) {
	got, err := parseDiff("==== //depot/foo.doc#42 - c:\\x\\foo.doc ==== (binary)\n")
	if err != nil {
		t.Fatalf("parseDiff() error = %v", err)
	}
	want := []DiffHit{{DepotFile: "//depot/foo.doc", Rev: 42, LocalFile: `c:\x\foo.doc`, Binary: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseDiff() mismatch (-want +got):\n%s", diff)
	}
	if got[0].HasText {
		t.Error("binary hit without body has text")
	}
}

func TestParseDiffLocalHeaders(t *testing.T) {
	out := "==== //depot/apps/px/px.py#12 - /home/me/px/px.py ====\n" +
		"10c10\n" +
		"< a\n" +
		"---\n" +
		"> b\n" +
		"==== //depot/img.png#3 - /home/me/img.png ==== (binary)\n" +
		"(... files differ ...)\n" +
		"==== //depot/last.txt#1 - /home/me/last.txt ====\n" +
		"1a2\n" +
		"> no newline"
	got, err := parseDiff(out)
	if err != nil {
		t.Fatalf("parseDiff() error = %v", err)
	}
	want := []DiffHit{
		{DepotFile: "//depot/apps/px/px.py", Rev: 12, LocalFile: "/home/me/px/px.py", Text: "10c10\n< a\n---\n> b\n", HasText: true},
		{DepotFile: "//depot/img.png", Rev: 3, LocalFile: "/home/me/img.png", Binary: true, Notes: []string{"(... files differ ...)"}},
		{DepotFile: "//depot/last.txt", Rev: 1, LocalFile: "/home/me/last.txt", Text: "1a2\n> no newline", HasText: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseDiff() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDiffUnified(t *testing.T) {
	out := "--- //depot/a.txt\t2002/07/01 10:00:00\n" +
		"+++ //ws/a.txt\t2002/07/02 10:00:00\n" +
		"@@ -1 +1 @@\n" +
		"-old\n" +
		"+new\n"
	got, err := parseDiff(out)
	if err != nil {
		t.Fatalf("parseDiff() error = %v", err)
	}
	want := []DiffHit{{DepotFile: "//depot/a.txt", LocalFile: "//ws/a.txt", Text: "@@ -1 +1 @@\n-old\n+new\n", HasText: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseDiff() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDiffBodyBeforeHeader(t *testing.T) {
	for _, out := range []string{"< stray\n", "+++ //ws/a.txt\t2002\n"} {
		if _, err := parseDiff(out); !IsParseError(err) {
			t.Errorf("parseDiff(%q) error = %v, want ParseError", out, err)
		}
	}
}

func TestDiffArgvAndValidation(t *testing.T) {
	ctx := context.Background()
	p, r := newMockP4(t)

	expectRun(r, []string{"p4", "diff", "-dc", "-f", "-t", "a.c"}, "")
	if _, err := p.Diff(ctx, DiffOpts{Format: "c", Force: true, Text: true, Files: []string{"a.c"}}); err != nil {
		t.Errorf("Diff() error = %v", err)
	}

	expectRun(r, []string{"p4", "diff", "-se"}, "/ws/a.c\n/ws/b.c\n")
	hits, err := p.Diff(ctx, DiffOpts{Satisfying: "e"})
	if err != nil {
		t.Fatalf("Diff(-se) error = %v", err)
	}
	want := []DiffHit{{LocalFile: "/ws/a.c"}, {LocalFile: "/ws/b.c"}}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Errorf("Diff(-se) mismatch (-want +got):\n%s", diff)
	}

	for _, opts := range []DiffOpts{{Format: "q"}, {Satisfying: "z"}} {
		if _, err := p.Diff(ctx, opts); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Diff(%+v) error = %v, want ErrInvalidValue", opts, err)
		}
	}
}

func TestDiff2(t *testing.T) {
	p, r := newMockP4(t)
	out := "==== //depot/a.txt#1 (text) - //depot/a.txt#2 (text) ==== content\n" +
		"1c1\n" +
		"< one\n" +
		"---\n" +
		"> two\n"
	expectRun(r, []string{"p4", "diff2", "-du", "-q", "//depot/a.txt#1", "//depot/a.txt#2"}, out)

	got, err := p.Diff2(context.Background(), Diff2Opts{Format: "u"}, "//depot/a.txt#1", "//depot/a.txt#2")
	if err != nil {
		t.Fatalf("Diff2() error = %v", err)
	}
	want := &Diff2Result{
		DepotFile1: "//depot/a.txt", Rev1: 1, Type1: "text",
		DepotFile2: "//depot/a.txt", Rev2: 2, Type2: "text",
		Summary: "content",
		Text:    "1c1\n< one\n---\n> two\n",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff2() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff2VerboseOmitsQuiet(t *testing.T) {
	p, r := newMockP4(t)
	expectRun(r, []string{"p4", "diff2", "//depot/a.txt#1", "//depot/a.txt#2"},
		"==== //depot/a.txt#1 (text) - //depot/a.txt#2 (text) ==== identical\n")

	got, err := p.Diff2(context.Background(), Diff2Opts{Verbose: true}, "//depot/a.txt#1", "//depot/a.txt#2")
	if err != nil {
		t.Fatalf("Diff2() error = %v", err)
	}
	if got.Summary != "identical" || got.Text != "" {
		t.Errorf("Diff2() = %+v", got)
	}
}

func TestParseDiff2Binary(t *testing.T) {
	got, err := parseDiff2("==== //depot/a.gif#1 (binary) - //depot/b.gif#1 (binary) ==== types\n(... files differ ...)\n")
	if err != nil {
		t.Fatalf("parseDiff2() error = %v", err)
	}
	if diff := cmp.Diff([]string{"(... files differ ...)"}, got.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if got.Text != "" || got.Summary != "types" {
		t.Errorf("parseDiff2() = %+v", got)
	}
}
