package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultmd/vaultmd/internal/errors"
)

func writeRuleFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoRuleFile))
}

func TestLoadCandidateOrder(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", "first: a\n")
	writeRuleFile(t, dir, "frontmatter.yaml", "second: b\n")

	_, set, err := Load(dir, nil)
	require.NoError(t, err)
	require.Len(t, set.Fields, 1)
	assert.Equal(t, "first", set.Fields[0].Name)
}

func TestLoadRejectsTabs(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", "title:\n\tvalue\n")

	_, _, err := Load(dir, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRuleFile))
	assert.Contains(t, err.Error(), "tab")
}

func TestLoadRejectsNonMapping(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", "- a\n- b\n")

	_, _, err := Load(dir, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRuleFile))
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", "title: [unclosed\n")

	_, _, err := Load(dir, nil)
	require.Error(t, err)
}

func TestLoadSplitsSettingsFromRules(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", `_settings:
  key_mode: merge
  exclude_folders: [".archive", "tmp*"]
  keep_extra_keys: ["aliases"]
  base_root: Project
  scope_under_base_root: true
  include_folders_by_name: ["Exams"]
  selective_processing_active: true
_comment: ignored
title: "%data%"
created: "%datum%"
`)

	settings, set, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, KeyModeMerge, settings.KeyMode)
	assert.Equal(t, []string{".archive", "tmp*"}, settings.ExcludeFolders)
	assert.Equal(t, []string{"aliases"}, settings.KeepExtraKeys)
	assert.Equal(t, "Project", settings.BaseRoot)
	assert.True(t, settings.ScopeUnderBaseRoot)
	assert.Equal(t, []string{"Exams"}, settings.IncludeFoldersByName)
	assert.True(t, settings.SelectiveProcessingActive)

	// Reserved-prefix keys never reach the rule set; order is kept.
	require.Len(t, set.Fields, 2)
	assert.Equal(t, "title", set.Fields[0].Name)
	assert.Equal(t, "created", set.Fields[1].Name)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", "title: x\n")

	settings, _, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, KeyModeStrict, settings.KeyMode)
	assert.Equal(t, DefaultExcludeFolders, settings.ExcludeFolders)
	assert.Empty(t, settings.KeepExtraKeys)
	assert.Empty(t, settings.BaseRoot)
	assert.False(t, settings.ScopeUnderBaseRoot)
	assert.False(t, settings.SelectiveProcessingActive)
}

func TestLoadInvalidKeyModeFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", "_settings:\n  key_mode: bogus\ntitle: x\n")

	settings, _, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, KeyModeStrict, settings.KeyMode)
}

func TestParseValueVariants(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "vaultmd.yaml", `plain: "hello %data%"
keep: "%wert%"
clear: "=leer="
count: 42
flag: true
nested:
  inner: "%wert%"
list:
  - one
  - "=leer="
  - "%wert%"
`)

	_, set, err := Load(dir, nil)
	require.NoError(t, err)
	require.Len(t, set.Fields, 7)

	byName := map[string]Value{}
	for _, f := range set.Fields {
		byName[f.Name] = f.Value
	}

	assert.Equal(t, KindScalar, byName["plain"].Kind)
	assert.Equal(t, "hello %data%", byName["plain"].Scalar)
	assert.Equal(t, KindKeepExisting, byName["keep"].Kind)
	assert.Equal(t, KindForceEmpty, byName["clear"].Kind)
	assert.Equal(t, KindLiteral, byName["count"].Kind)
	assert.Equal(t, KindLiteral, byName["flag"].Kind)

	require.Equal(t, KindMapping, byName["nested"].Kind)
	require.Len(t, byName["nested"].Fields, 1)
	assert.Equal(t, KindKeepExisting, byName["nested"].Fields[0].Value.Kind)

	require.Equal(t, KindSequence, byName["list"].Kind)
	require.Len(t, byName["list"].Items, 3)
	assert.Equal(t, KindScalar, byName["list"].Items[0].Kind)
	assert.Equal(t, KindForceEmpty, byName["list"].Items[1].Kind)
	assert.Equal(t, KindKeepExisting, byName["list"].Items[2].Kind)
}
