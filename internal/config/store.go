// Package config loads and saves the p4x profile: which p4 binary to run,
// the connection options to pass it, and engine settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxYAMLFileSize caps how much of a profile file is read (1 MB). A
// profile is a handful of lines; anything near this is not one.
const maxYAMLFileSize = 1 << 20

// YAMLStore reads and writes one YAML file as a value of type T.
type YAMLStore[T any] struct {
	rootDir      string
	filename     string
	allowMissing bool // Load returns the zero value when the file is absent
}

// NewYAMLStore creates a store for rootDir/filename.
func NewYAMLStore[T any](rootDir, filename string, allowMissing bool) *YAMLStore[T] {
	return &YAMLStore[T]{
		rootDir:      rootDir,
		filename:     filename,
		allowMissing: allowMissing,
	}
}

// Path returns the full file path.
func (s *YAMLStore[T]) Path() string {
	return filepath.Join(s.rootDir, s.filename)
}

// Load reads and decodes the file. Files larger than maxYAMLFileSize are
// rejected before being read.
func (s *YAMLStore[T]) Load() (T, error) {
	var result T

	info, err := os.Stat(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && s.allowMissing {
			return result, nil
		}
		return result, err
	}
	if info.Size() > maxYAMLFileSize {
		return result, fmt.Errorf("%s exceeds maximum size (%d bytes > %d byte limit)", s.filename, info.Size(), maxYAMLFileSize)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		return result, err
	}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("invalid %s: %w", s.filename, err)
	}
	return result, nil
}

// Save encodes data and writes it to the file, creating the directory if
// needed. The file may hold a password, so it is written owner-only.
func (s *YAMLStore[T]) Save(data T) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.filename, err)
	}
	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.rootDir, err)
	}
	if err := os.WriteFile(s.Path(), out, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.filename, err)
	}
	return nil
}
