package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
requires: ">= 0.1.0"
fix: true
checks:
  enabled: [redundantcast]
  disabled: [commaoperator]
cache:
  enabled: false
  path: /tmp/lint.db
passbyvalue:
  threshold: 128
  fat_types: [OUString, Sequence]
`))
	require.NoError(t, err)
	require.Equal(t, ">= 0.1.0", cfg.Requires)
	require.True(t, cfg.Fix)
	require.Equal(t, []string{"redundantcast"}, cfg.Checks.Enabled)
	require.Equal(t, []string{"commaoperator"}, cfg.Checks.Disabled)
	require.False(t, cfg.Cache.Enabled)
	require.Equal(t, "/tmp/lint.db", cfg.Cache.Path)
	require.Equal(t, 128, cfg.PassByValue.Threshold)
	require.Equal(t, []string{"OUString", "Sequence"}, cfg.PassByValue.FatTypes)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	require.True(t, cfg.Cache.Enabled)
	require.NotEmpty(t, cfg.Cache.Path)
	require.False(t, cfg.Fix)
}

func TestParseUnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("cheks:\n  enabled: [x]\n"))
	require.Error(t, err)
}

func TestParseInvalidConstraintRejected(t *testing.T) {
	_, err := Parse([]byte("requires: \"not a constraint\"\n"))
	require.Error(t, err)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		requires string
		version  string
		ok       bool
	}{
		{"no constraint", "", "0.0.1", true},
		{"satisfied", ">= 1.0.0", "1.2.3", true},
		{"not satisfied", ">= 2.0.0", "1.2.3", false},
		{"range satisfied", ">= 1.0.0, < 2.0.0", "1.9.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Requires = tt.requires
			err := cfg.CheckVersion(tt.version)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestLoadMissingDefaultFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Cache.Enabled)
}

func TestLoadExplicitMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alt.yml")
	require.NoError(t, os.WriteFile(path, []byte("fix: true\n"), 0o644))
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Fix)
}

func TestHashChangesWithSettings(t *testing.T) {
	a := Default()
	b := Default()
	require.Equal(t, a.Hash(), b.Hash())

	b.PassByValue.Threshold = 32
	require.NotEqual(t, a.Hash(), b.Hash())

	// Order of list entries must not matter.
	c := Default()
	c.Checks.Disabled = []string{"a", "b"}
	d := Default()
	d.Checks.Disabled = []string{"b", "a"}
	require.Equal(t, c.Hash(), d.Hash())
}
