package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("CPPDOC_OUTPUT", "")
	t.Setenv("CPPDOC_FORMAT", "")
	t.Setenv("CPPDOC_EXTRACT_PRIVATE", "")
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
project:
  root: include
output:
  format: html
  tab_width: 2
blacklist:
  extract_private: true
  documentation:
    - name: detail
      kind: namespace
  synopsis:
    - name: impl
  kinds: [macro_definition]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "include", cfg.Project.Root)
	assert.Equal(t, []string{".h", ".hh", ".hpp", ".hxx"}, cfg.Project.Extensions)
	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.TabWidth)
	assert.Equal(t, "docs", cfg.Output.Dir)
	assert.True(t, cfg.Blacklist.ExtractPrivate)
	assert.Equal(t, []Entry{{Name: "detail", Kind: "namespace"}}, cfg.Blacklist.Documentation)
	assert.Equal(t, []Entry{{Name: "impl"}}, cfg.Blacklist.Synopsis)
	assert.Equal(t, []string{"macro_definition"}, cfg.Blacklist.Kinds)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CPPDOC_OUTPUT", "out")
	t.Setenv("CPPDOC_EXTRACT_PRIVATE", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Blacklist.ExtractPrivate)

	t.Setenv("CPPDOC_FORMAT", "pdf")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
