package p4

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const clientForm = `# A Perforce Client Specification.
#
#  Client:      The client name.

Client:	trentm-ra

Update:	2002/03/18 22:33:18

Owner:	trentm

Description:
	Created by trentm.

Root:	c:\trentm\

View:
	//depot/... //trentm-ra/...
	-//depot/junk/... //trentm-ra/junk/...
`

func TestParseForm(t *testing.T) {
	f, err := ParseForm(clientForm)
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	want := map[string]string{
		"client":      "trentm-ra",
		"update":      "2002/03/18 22:33:18",
		"owner":       "trentm",
		"description": "Created by trentm.",
		"root":        `c:\trentm\`,
		"view":        "//depot/... //trentm-ra/...\n-//depot/junk/... //trentm-ra/junk/...",
	}
	if diff := cmp.Diff(want, f.fields); diff != "" {
		t.Errorf("ParseForm() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormBlankLinesInBlock(t *testing.T) {
	f, err := ParseForm("Description:\n\tfirst\n\n\tsecond\n\nStatus:\tpending\n")
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if got := f.Value("description"); got != "first\n\nsecond" {
		t.Errorf("description = %q", got)
	}
	if got := f.Value("Status"); got != "pending" {
		t.Errorf("status = %q", got)
	}
}

func TestParseFormFiles(t *testing.T) {
	f, err := ParseForm("Change:\t42\n\nFiles:\n\t//depot/a.txt\t# edit\n\t//depot/b c.txt\t# add\n")
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	files, err := f.Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	want := []FormFile{{"//depot/a.txt", "edit"}, {"//depot/b c.txt", "add"}}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
	if n, ok := f.Change(); !ok || n != 42 {
		t.Errorf("Change() = %d, %v", n, ok)
	}
}

func TestParseFormErrors(t *testing.T) {
	for _, text := range []string{
		"not a section line\n",
		"Files:\n\t//depot/a.txt without action\n",
	} {
		if _, err := ParseForm(text); !IsParseError(err) {
			t.Errorf("ParseForm(%q) error = %v, want ParseError", text, err)
		}
	}
}

func TestMakeForm(t *testing.T) {
	f := NewForm()
	f.SetChange(0)
	f.Set("description", "one line")
	f.SetFiles([]FormFile{{DepotFile: "//depot/a.txt", Action: "edit"}, {DepotFile: "//depot/b.txt"}})
	f.Set("differences", "--- a\n+++ b")
	f.Set("view", "//depot/... //ws/...")

	want := "Change:\tnew\n\n" +
		"Description:\n\tone line\n\n" +
		"Files:\n\t//depot/a.txt\t# edit\n\t//depot/b.txt\n\t\n\n" +
		"View:\t//depot/... //ws/...\n\n" +
		"Differences:\n\n--- a\n+++ b\n\n"
	if diff := cmp.Diff(want, MakeForm(f)); diff != "" {
		t.Errorf("MakeForm() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormKeysSpecialsLast(t *testing.T) {
	f := NewForm()
	for _, k := range []string{"view", "differences", "client", "access"} {
		f.Set(k, "x")
	}
	want := []string{"access", "client", "view", "differences"}
	if diff := cmp.Diff(want, f.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormRoundTrip(t *testing.T) {
	f := NewForm()
	f.Set("client", "ws")
	f.Set("description", "Line one.\nLine two.")
	f.Set("options", "noallwrite noclobber")
	f.Set("view", "//depot/a/... //ws/a/...\n//depot/b/... //ws/b/...")
	f.Set("root", "/home/me/ws")
	f.Set("altroots", "  /mnt/ws")
	f.Set("host", "box\t")

	got, err := ParseForm(MakeForm(f))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if diff := cmp.Diff(f.fields, got.fields); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormRoundTripIndentedBlock(t *testing.T) {
	first, err := ParseForm("View:\n\t  //depot/... //ws/...\n")
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if got := first.Value("view"); got != "  //depot/... //ws/..." {
		t.Fatalf("view = %q", got)
	}
	text := MakeForm(first)
	if want := "View:\n\t  //depot/... //ws/...\n\n"; text != want {
		t.Errorf("MakeForm() = %q, want %q", text, want)
	}
	second, err := ParseForm(text)
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if diff := cmp.Diff(first.fields, second.fields); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormMergeAndClone(t *testing.T) {
	base := NewForm()
	base.Set("client", "ws")
	base.Set("root", "/old")

	cp := base.Clone()
	over := NewForm()
	over.Set("Root", "/new")
	cp.Merge(over)

	if got := cp.Value("root"); got != "/new" {
		t.Errorf("merged root = %q", got)
	}
	if got := base.Value("root"); got != "/old" {
		t.Errorf("clone shares state with original: root = %q", got)
	}
	cp.Delete("client")
	if _, ok := cp.Get("client"); ok || cp.Len() != 1 {
		t.Errorf("Delete() left %d sections", cp.Len())
	}
}
