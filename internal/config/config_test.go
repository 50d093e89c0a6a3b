package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigHasSaneExclusions(t *testing.T) {
	cfg := Default("/proj")
	assert.Equal(t, "/proj", cfg.Project.Root)
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Include, "**/*.graphql")
}

func TestLoadWithNoConfigFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Project.Root)
}

func TestLoadParsesProjectAndPerformanceSections(t *testing.T) {
	dir := t.TempDir()
	kdl := "project {\n    root \".\"\n    name \"my-api\"\n}\n" +
		"performance {\n    debounce_ms 500\n}\n" +
		"include \"**/*.graphql\"\n" +
		"exclude \"**/generated/**\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".graphqlintel.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-api", cfg.Project.Name)
	assert.Equal(t, 500, cfg.Performance.DebounceMs)
	assert.Equal(t, []string{"**/*.graphql"}, cfg.Include)
	assert.Contains(t, cfg.Exclude, "**/generated/**")
	assert.True(t, filepath.IsAbs(cfg.Project.Root))
}

func TestLoadInvalidKDLReturnsConfigError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".graphqlintel.kdl"), []byte("not valid kdl {{{"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestValidateAndSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{Project: Project{Root: "/test"}}
	v := NewValidator()
	require.NoError(t, v.ValidateAndSetDefaults(cfg))

	assert.Equal(t, 300, cfg.Performance.DebounceMs)
	assert.Greater(t, cfg.Performance.ParallelFileWorkers, 0)
}

func TestValidateAndSetDefaultsRejectsEmptyRoot(t *testing.T) {
	cfg := &Config{}
	v := NewValidator()
	err := v.ValidateAndSetDefaults(cfg)
	require.Error(t, err)
}

func TestValidateAndSetDefaultsRejectsNegativeValues(t *testing.T) {
	cfg := &Config{
		Project:     Project{Root: "/test"},
		Performance: Performance{DebounceMs: -1, ParallelFileWorkers: -1},
	}
	v := NewValidator()
	err := v.ValidateAndSetDefaults(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")
}
