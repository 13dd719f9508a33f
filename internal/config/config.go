// Package config handles the tool's configuration via a TOML file.
// The file lives at a fixed relative path (.rs-clone.conf) and holds the
// source/destination roots plus the persisted folder name mapping.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/litescript/ls-media-clone/internal/media"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = ".rs-clone.conf"

// Load and save errors.
var (
	ErrRead       = errors.New("read config")
	ErrParse      = errors.New("parse config")
	ErrValidation = errors.New("invalid config")
	ErrWrite      = errors.New("write config")
)

// Config holds application configuration
type Config struct {
	Settings Settings          `toml:"settings"`
	Mapping  map[string]string `toml:"mapping"`
}

// Settings holds the library roots
type Settings struct {
	// SourceDir contains one subdirectory per downloaded item.
	SourceDir string `toml:"source_dir"`

	// DestinationDir is where selected items are copied and renamed.
	DestinationDir string `toml:"destination_dir"`

	// Exclude holds glob patterns for file names never copied,
	// e.g. "*sample*". Matched case-insensitively.
	Exclude []string `toml:"exclude,omitempty"`
}

// ValidationError names the config field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Is lets errors.Is(err, ErrValidation) match any validation failure.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Load reads, decodes and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if cfg.Mapping == nil {
		cfg.Mapping = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save encodes cfg as TOML and overwrites the file at path.
// The file is only touched once encoding has succeeded.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Validate checks that both library roots are set and exist, and that
// exclude patterns compile.
func (c *Config) Validate() error {
	dirs := []struct {
		field string
		path  string
	}{
		{"settings.source_dir", c.Settings.SourceDir},
		{"settings.destination_dir", c.Settings.DestinationDir},
	}

	for _, d := range dirs {
		if d.path == "" {
			return &ValidationError{Field: d.field, Reason: "is empty"}
		}
		if _, err := os.Stat(d.path); err != nil {
			return &ValidationError{Field: d.field, Reason: "doesn't exist"}
		}
	}

	if _, err := c.Excludes(); err != nil {
		return &ValidationError{Field: "settings.exclude", Reason: err.Error()}
	}

	return nil
}

// Excludes compiles the configured exclude patterns.
func (c *Config) Excludes() ([]glob.Glob, error) {
	return media.CompileExcludes(c.Settings.Exclude)
}

// Destination returns the mapped destination name for a source folder.
func (c *Config) Destination(folder string) (string, bool) {
	dest, ok := c.Mapping[folder]
	return dest, ok
}

// SetDestination replaces any mapping for folder with dest.
func (c *Config) SetDestination(folder, dest string) {
	if c.Mapping == nil {
		c.Mapping = make(map[string]string)
	}
	delete(c.Mapping, folder)
	c.Mapping[folder] = dest
}
