// Package config loads the tool's YAML configuration and resolves it
// against built-in defaults.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory (and its
// parents) when no explicit path is given.
const DefaultFileName = ".cxxlint.yml"

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "CXXLINT_CONFIG"

// Config is the resolved tool configuration.
type Config struct {
	// Requires is a semver constraint the running tool version must
	// satisfy; empty means any version.
	Requires string `yaml:"requires,omitempty"`

	// Checks enables or disables checks by name. An empty Enabled
	// list means all registered checks run.
	Checks ChecksConfig `yaml:"checks,omitempty"`

	// Fix applies suggested rewrites in place.
	Fix bool `yaml:"fix,omitempty"`

	Cache CacheConfig `yaml:"cache,omitempty"`

	PassByValue PassByValueConfig `yaml:"passbyvalue,omitempty"`
}

type ChecksConfig struct {
	Enabled  []string `yaml:"enabled,omitempty"`
	Disabled []string `yaml:"disabled,omitempty"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

type PassByValueConfig struct {
	Threshold int      `yaml:"threshold,omitempty"`
	FatTypes  []string `yaml:"fat_types,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(".cxxlint", "cache.db"),
		},
	}
}

// Load reads the configuration from path. If path is empty the
// CXXLINT_CONFIG environment variable is consulted, then the default
// file name in the working directory; a missing default file yields
// Default() rather than an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path = env
			explicit = true
		} else {
			path = DefaultFileName
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("config: invalid requires constraint %q: %w", c.Requires, err)
		}
	}
	if c.PassByValue.Threshold < 0 {
		return fmt.Errorf("config: passbyvalue threshold must not be negative")
	}

	return nil
}

// CheckVersion verifies that the running tool version satisfies the
// config's requires constraint.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("config: invalid requires constraint %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("config: cannot parse tool version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("config: tool version %s does not satisfy required %q", version, c.Requires)
	}

	return nil
}

// Hash returns a stable digest of the settings that influence
// diagnostics. Cache entries are keyed on it so a config change
// invalidates them.
func (c *Config) Hash() string {
	h := sha256.New()
	writeList := func(prefix string, items []string) {
		sorted := make([]string, len(items))
		copy(sorted, items)
		sort.Strings(sorted)
		fmt.Fprintf(h, "%s=%s;", prefix, strings.Join(sorted, ","))
	}
	writeList("enabled", c.Checks.Enabled)
	writeList("disabled", c.Checks.Disabled)
	writeList("fattypes", c.PassByValue.FatTypes)
	fmt.Fprintf(h, "threshold=%d;", c.PassByValue.Threshold)

	return hex.EncodeToString(h.Sum(nil))
}
