package p4

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/EmundoT/p4-plumbing/internal/testutil"
)

func TestParseEditNotes(t *testing.T) {
	got, err := parseEdit("A#1 - opened for edit\n... note one\n... note two\n")
	if err != nil {
		t.Fatalf("parseEdit() error = %v", err)
	}
	want := []FileHit{{DepotFile: "A", Rev: testutil.IntPtr(1), Comment: "opened for edit", Notes: []string{"note one", "note two"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseEdit() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEdit(t *testing.T) {
	out := "//depot/build.py#142 - opened for edit\n" +
		"... //depot/build.py - must sync/resolve #143,#148 before submitting\n" +
		"... //depot/build.py - also opened by davida@davida-bertha\n" +
		"//depot/BuildNum.txt#3 - currently opened for edit\n" +
		"//depot/foo.txt - can't change from change 24940 - use 'reopen'\n"
	got, err := parseEdit(out)
	if err != nil {
		t.Fatalf("parseEdit() error = %v", err)
	}
	want := []FileHit{
		{
			DepotFile: "//depot/build.py",
			Rev:       testutil.IntPtr(142),
			Comment:   "opened for edit",
			Notes:     []string{"must sync/resolve #143,#148 before submitting", "also opened by davida@davida-bertha"},
		},
		{DepotFile: "//depot/BuildNum.txt", Rev: testutil.IntPtr(3), Comment: "currently opened for edit"},
		{DepotFile: "//depot/foo.txt", Comment: "can't change from change 24940 - use 'reopen'"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseEdit() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAdd(t *testing.T) {
	out := "//depot/apps/px/p4.py#1 - opened for add\n" +
		"c:\\trentm\\apps\\px\\p4.py - missing, assuming text.\n" +
		"//depot/apps/px/px.py - can't add (already opened for edit)\n" +
		"... //depot/apps/px/px.py - warning: add of existing file\n" +
		"//depot/x - can't add existing file\n"
	got, err := parseAdd(out)
	if err != nil {
		t.Fatalf("parseAdd() error = %v", err)
	}
	want := []FileHit{
		{DepotFile: "//depot/apps/px/p4.py", Rev: testutil.IntPtr(1), Comment: "opened for add", Notes: []string{`c:\trentm\apps\px\p4.py - missing, assuming text.`}},
		{DepotFile: "//depot/apps/px/px.py", Comment: "can't add (already opened for edit)", Notes: []string{"warning: add of existing file"}},
		{DepotFile: "//depot/x", Comment: "can't add existing file"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseAdd() mismatch (-want +got):\n%s", diff)
	}
	if got[2].Rev != nil {
		t.Errorf("rev = %d, want nil", *got[2].Rev)
	}
}

func TestContinuationWithoutRecord(t *testing.T) {
	for name, parse := range map[string]func(string) ([]FileHit, error){
		"add":  parseAdd,
		"edit": parseEdit,
		"sync": func(s string) ([]FileHit, error) { return parseSync("sync", s) },
	} {
		if _, err := parse("... //depot/a - orphan note\n"); !IsParseError(err) {
			t.Errorf("%s: error = %v, want ParseError", name, err)
		}
	}
}

func TestParseDelete(t *testing.T) {
	got, err := parseDelete("//depot/foo.txt#1 - opened for delete\n//depot/bar.txt - can't delete (already opened for edit)\n")
	if err != nil {
		t.Fatalf("parseDelete() error = %v", err)
	}
	want := []FileHit{
		{DepotFile: "//depot/foo.txt", Rev: testutil.IntPtr(1), Comment: "opened for delete"},
		{DepotFile: "//depot/bar.txt", Comment: "can't delete (already opened for edit)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseDelete() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSync(t *testing.T) {
	out := "//depot/foo#1 - updating C:\\foo\n" +
		"//depot/bar#2 - is opened at a later revision - not changed\n" +
		"... //depot/bar - must resolve #2 before submitting\n"
	got, err := parseSync("sync", out)
	if err != nil {
		t.Fatalf("parseSync() error = %v", err)
	}
	want := []FileHit{
		{DepotFile: "//depot/foo", Rev: testutil.IntPtr(1), Comment: `updating C:\foo`},
		{DepotFile: "//depot/bar", Rev: testutil.IntPtr(2), Comment: "is opened at a later revision - not changed", Notes: []string{"must resolve #2 before submitting"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseSync() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRevert(t *testing.T) {
	got, err := parseRevert("//depot/hello.txt#1 - was edit, reverted\n//depot/test_g.txt#none - was add, abandoned\n")
	if err != nil {
		t.Fatalf("parseRevert() error = %v", err)
	}
	want := []FileHit{
		{DepotFile: "//depot/hello.txt", Rev: testutil.IntPtr(1), Comment: "was edit, reverted"},
		{DepotFile: "//depot/test_g.txt", Comment: "was add, abandoned"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseRevert() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenCommandsArgv(t *testing.T) {
	ctx := context.Background()
	p, r := newMockP4(t)

	expectRun(r, []string{"p4", "add", "-c", "12", "-t", "binary", "a.bin"}, "//depot/a.bin#1 - opened for add\n")
	if _, err := p.Add(ctx, OpenOpts{Change: 12, FileType: "binary"}, "a.bin"); err != nil {
		t.Errorf("Add() error = %v", err)
	}

	expectRun(r, []string{"p4", "edit", "a.c", "b.c"}, "//depot/a.c#2 - opened for edit\n//depot/b.c#5 - opened for edit\n")
	hits, err := p.Edit(ctx, OpenOpts{}, "a.c", "b.c")
	if err != nil || len(hits) != 2 {
		t.Errorf("Edit() = %v, %v", hits, err)
	}

	expectRun(r, []string{"p4", "delete", "-c", "3", "a.c"}, "//depot/a.c#2 - opened for delete\n")
	if _, err := p.Delete(ctx, OpenOpts{Change: 3, FileType: "ignored"}, "a.c"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	expectRun(r, []string{"p4", "revert", "-a"}, "")
	if _, err := p.Revert(ctx, RevertOpts{UnchangedOnly: true}); err != nil {
		t.Errorf("Revert() error = %v", err)
	}

	expectRun(r, []string{"p4", "flush", "-f", "-n", "//depot/..."}, "//depot/a.c#2 - added as /ws/a.c\n")
	if _, err := p.Flush(ctx, SyncOpts{Force: true, DryRun: true, Files: []string{"//depot/..."}}); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func TestOpenCommandsRequireFiles(t *testing.T) {
	ctx := context.Background()
	p, _ := newMockP4(t)
	checks := map[string]error{}
	_, checks["add"] = p.Add(ctx, OpenOpts{})
	_, checks["edit"] = p.Edit(ctx, OpenOpts{})
	_, checks["delete"] = p.Delete(ctx, OpenOpts{})
	_, checks["revert"] = p.Revert(ctx, RevertOpts{Change: 4})
	for name, err := range checks {
		if _, ok := err.(*IncompleteArgumentsError); !ok {
			t.Errorf("%s: error = %v, want *IncompleteArgumentsError", name, err)
		}
	}
}
