package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/EmundoT/p4-plumbing/pkg/p4"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	styleErr  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", format, formatJSON, formatYAML)
}

// render writes v to w in the requested format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
	return checkFormat(format)
}

// isTerminal reports whether w is a terminal, so that output may be styled.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintError reports err on w: a title naming the kind of failure, then the
// detail. Styling is applied only on a terminal.
func PrintError(w io.Writer, err error) {
	title, detail := describeError(err)
	style, dim := styleErr, styleDim
	if title == "Unexpected p4 output" {
		style = styleWarn
	}
	if isTerminal(w) {
		title, detail = style.Render("✖ "+title), dim.Render(detail)
	}
	fmt.Fprintln(w, title)
	if detail != "" {
		fmt.Fprintln(w, detail)
	}
}

func describeError(err error) (string, string) {
	var (
		cmdErr        *p4.CommandError
		parseErr      *p4.ParseError
		invalidErr    *p4.InvalidArgumentError
		incompleteErr *p4.IncompleteArgumentsError
	)
	switch {
	case errors.As(err, &cmdErr):
		return "p4 failed", err.Error()
	case errors.As(err, &parseErr):
		return "Unexpected p4 output", err.Error()
	case errors.As(err, &invalidErr):
		return "Invalid argument", err.Error()
	case errors.As(err, &incompleteErr):
		return "Missing arguments", err.Error()
	}
	return "Error", err.Error()
}
