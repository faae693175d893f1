package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"p4x", "complete"}},
		{"zsh", []string{"#compdef p4x"}},
		{"fish", []string{"complete -c p4x"}},
		{"powershell", []string{"Register-ArgumentCompleter"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			if err := GenerateCompletion(NewRootCmd(), tt.shell, &buf); err != nil {
				t.Fatalf("GenerateCompletion(%s) error = %v", tt.shell, err)
			}
			script := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(script, want) {
					t.Errorf("%s script does not contain %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletionUnknownShell(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateCompletion(NewRootCmd(), "tcsh", &buf)
	if err == nil {
		t.Fatal("GenerateCompletion(tcsh) succeeded")
	}
	if !strings.Contains(err.Error(), "bash, zsh, fish, powershell") {
		t.Errorf("error %q does not list supported shells", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "zsh"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion zsh error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "#compdef p4x") {
		t.Errorf("zsh script starts %q", firstLine(out.String()))
	}

	root = NewRootCmd()
	root.SetArgs([]string{"completion"})
	if err := root.Execute(); err == nil {
		t.Error("completion without a shell succeeded")
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
