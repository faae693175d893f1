// Package version carries build metadata for p4x.
package version

import (
	"fmt"
	"runtime"
)

// Set at release build time with
// -ldflags "-X github.com/EmundoT/p4-plumbing/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata reported by 'p4x version'.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

// Get returns the metadata of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// String formats the metadata on one line, e.g.
// "v0.2.0 (commit: abc123, built: 2026-01-05T10:30:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// IsRelease reports whether the binary was built with a release version.
func (i Info) IsRelease() bool {
	return i.Version != "dev"
}
