package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/EmundoT/p4-plumbing/pkg/p4"
)

// DefaultFilename is the profile file name inside the config directory.
const DefaultFilename = "p4x.yml"

// Environment variables overlaid by ApplyEnv. Connection settings
// (P4CLIENT, P4PORT, ...) are read by p4 itself and are not duplicated.
const (
	EnvExecutable = "P4X_EXECUTABLE"
	EnvLogLevel   = "P4X_LOG_LEVEL"
)

// Profile is the persisted p4x configuration.
type Profile struct {
	Executable string `yaml:"executable,omitempty"`
	Client     string `yaml:"client,omitempty"`
	Dir        string `yaml:"dir,omitempty"`
	Host       string `yaml:"host,omitempty"`
	Port       string `yaml:"port,omitempty"`
	Password   string `yaml:"password,omitempty"`
	User       string `yaml:"user,omitempty"`
	// Options is a p4 global option string, e.g. `-c ws -p ssl:host:1666`.
	// The explicit fields above take precedence over it.
	Options   string `yaml:"options,omitempty"`
	BatchSize int    `yaml:"batch_size,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
}

// DefaultPath returns the profile path in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "p4x", DefaultFilename), nil
}

// Load reads the profile at path. An empty path means DefaultPath, where
// a missing file yields an empty profile; an explicitly named file must
// exist.
func Load(path string) (*Profile, error) {
	allowMissing := false
	if path == "" {
		def, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path, allowMissing = def, true
	}
	store := NewYAMLStore[Profile](filepath.Dir(path), filepath.Base(path), allowMissing)
	profile, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if profile.BatchSize < 0 {
		return nil, fmt.Errorf("loading profile: batch_size must not be negative, got %d", profile.BatchSize)
	}
	return &profile, nil
}

// Save writes the profile to path.
func (p *Profile) Save(path string) error {
	return NewYAMLStore[Profile](filepath.Dir(path), filepath.Base(path), false).Save(*p)
}

// ApplyEnv overlays the non-empty P4X_* variables returned by getenv.
func (p *Profile) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvExecutable); v != "" {
		p.Executable = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		p.LogLevel = v
	}
}

// Connection returns the connection options: Options parsed first, then
// the explicit fields laid over it.
func (p *Profile) Connection() (p4.Connection, error) {
	var conn p4.Connection
	if p.Options != "" {
		parsed, err := p4.ParseConnectionString(p.Options)
		if err != nil {
			return p4.Connection{}, fmt.Errorf("profile options: %w", err)
		}
		conn = parsed
	}
	return conn.Merge(p4.Connection{
		Client:   p.Client,
		Dir:      p.Dir,
		Host:     p.Host,
		Port:     p.Port,
		Password: p.Password,
		User:     p.User,
	}), nil
}

// Level returns the logging threshold, Warn when unset.
func (p *Profile) Level() (logrus.Level, error) {
	if p.LogLevel == "" {
		return logrus.WarnLevel, nil
	}
	level, err := logrus.ParseLevel(p.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("profile log_level: %w", err)
	}
	return level, nil
}

// NewP4 builds an engine configured by the profile.
func (p *Profile) NewP4() (*p4.P4, error) {
	conn, err := p.Connection()
	if err != nil {
		return nil, err
	}
	client := p4.New(conn)
	if p.Executable != "" {
		client.Executable = p.Executable
	}
	if p.BatchSize > 0 {
		client.BatchSize = p.BatchSize
	}
	return client, nil
}
