package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/lint"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

func TestLoadLintConfigAppliesExplicitSeverities(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	yaml := "rules:\n  no_deprecated: warn\n  require_id_field: error\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	overrides, err := LoadLintConfig(path)
	require.NoError(t, err)
	assert.Equal(t, types.SeverityWarning, overrides["no_deprecated"])
	assert.Equal(t, types.SeverityError, overrides["require_id_field"])
}

func TestLoadLintConfigOffDisablesRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	yaml := "rules:\n  no_deprecated: off\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	overrides, err := LoadLintConfig(path)
	require.NoError(t, err)

	out := overrides.Apply(lint.RuleID("no_deprecated"), nil)
	assert.Nil(t, out)
}

func TestLoadLintConfigExpandsRecommendedPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	yaml := "presets: [recommended]\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	overrides, err := LoadLintConfig(path)
	require.NoError(t, err)
	assert.NotEmpty(t, overrides)
	for _, meta := range lint.AllRuleMetas() {
		sev, ok := overrides[meta.ID]
		assert.True(t, ok, "preset should cover rule %s", meta.ID)
		assert.Equal(t, meta.DefaultSeverity, sev)
	}
}

func TestLoadLintConfigPresetThenExplicitOverrideWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	yaml := "presets: [recommended]\nrules:\n  no_deprecated: off\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	overrides, err := LoadLintConfig(path)
	require.NoError(t, err)
	assert.Nil(t, overrides.Apply(lint.RuleID("no_deprecated"), nil))
}

func TestLoadLintConfigUnknownPresetErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	yaml := "presets: [nonexistent]\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadLintConfig(path)
	require.Error(t, err)
}

func TestLoadLintConfigInvalidSeverityErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	yaml := "rules:\n  no_deprecated: bogus\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadLintConfig(path)
	require.Error(t, err)
}
