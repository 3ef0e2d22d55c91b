// Package config loads tastyread.toml project configuration (spec.md §6):
// the two flags that steer the unpickler, debug-tasty and no-annotations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents a tastyread.toml project configuration.
type Config struct {
	Unpickler Unpickler `toml:"unpickler"`

	// Dir is the directory containing the tastyread.toml file (set at load
	// time), kept for parity with the sibling fields callers expect a
	// loaded config to carry even though no path in this config is itself
	// relative to it yet.
	Dir string `toml:"-"`
}

// Unpickler holds the two options spec.md §6 names.
type Unpickler struct {
	DebugTasty    bool `toml:"debug-tasty"`
	NoAnnotations bool `toml:"no-annotations"`
}

// Load parses a tastyread.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "tastyread.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a tastyread.toml file, then
// loads and returns it. Returns a zero Config, not an error, if none is
// found — the two options it carries are meaningful false-by-default.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "tastyread.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Override applies flag-provided values on top of the file-loaded config,
// the same flag-wins-by-being-checked-last order cmd/tastydump's flag
// parsing follows: a flag explicitly set on the command line always beats
// whatever tastyread.toml says, never the reverse.
func (c *Config) Override(debugTasty, noAnnotations *bool) {
	if debugTasty != nil {
		c.Unpickler.DebugTasty = *debugTasty
	}
	if noAnnotations != nil {
		c.Unpickler.NoAnnotations = *noAnnotations
	}
}
