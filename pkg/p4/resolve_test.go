package p4

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseResolve(t *testing.T) {
	out := "C:\\rootdir\\foo.txt - merging //depot/foo.txt#2\n" +
		"Diff chunks: 0 yours + 0 theirs + 0 both + 1 conflicting\n" +
		"//client-name/foo.txt - resolve skipped.\n" +
		"/ws/bar.txt - vs //depot/bar.txt#7\n" +
		"//client-name/bar.txt - copy from //depot/bar.txt\n"
	got, err := parseResolve(out)
	if err != nil {
		t.Fatalf("parseResolve() error = %v", err)
	}
	want := []ResolveHit{
		{
			LocalFile:  `C:\rootdir\foo.txt`,
			DepotFile:  "//depot/foo.txt",
			Rev:        2,
			ClientFile: "//client-name/foo.txt",
			Action:     "resolve skipped",
			DiffChunks: &DiffChunks{Conflicting: 1},
		},
		{
			LocalFile:  "/ws/bar.txt",
			DepotFile:  "//depot/bar.txt",
			Rev:        7,
			ClientFile: "//client-name/bar.txt",
			Action:     "copy from //depot/bar.txt",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseResolve() mismatch (-want +got):\n%s", diff)
	}

	again, _ := parseResolve(out)
	if !cmp.Equal(got, again) {
		t.Error("parseResolve() is not idempotent")
	}
}

func TestParseResolveErrors(t *testing.T) {
	for _, out := range []string{
		"Diff chunks: 1 yours + 0 theirs + 0 both + 0 conflicting\n",
		"/ws/a.txt - merging //depot/a.txt#1\nsomething unexpected\n",
	} {
		if _, err := parseResolve(out); !IsParseError(err) {
			t.Errorf("parseResolve(%q) error = %v, want ParseError", out, err)
		}
	}
}

func TestResolveArgv(t *testing.T) {
	ctx := context.Background()
	p, r := newMockP4(t)

	expectRun(r, []string{"p4", "resolve", "-am", "-n", "a.c"}, "")
	if _, err := p.Resolve(ctx, ResolveOpts{AutoMode: "m", DryRun: true, Files: []string{"a.c"}}); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}

	expectRun(r, []string{"p4", "resolve", "-a"}, "")
	if _, err := p.Resolve(ctx, ResolveOpts{}); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}

	if _, err := p.Resolve(ctx, ResolveOpts{AutoMode: "x"}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("bad mode error = %v, want ErrInvalidValue", err)
	}
}
