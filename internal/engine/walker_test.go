package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultmd/vaultmd/internal/logging"
	"github.com/vaultmd/vaultmd/internal/rules"
)

func titleRules() rules.Set {
	return rules.Set{Fields: []rules.Field{
		{Name: "title", Value: rules.Value{Kind: rules.KindScalar, Scalar: "%data%"}},
	}}
}

func runWalker(t *testing.T, root string, set rules.Set, settings rules.Settings) (Stats, string) {
	t.Helper()
	var out bytes.Buffer
	w := NewWalker(root, set, settings, &out, logging.NewDiscard())
	stats, err := w.Run()
	require.NoError(t, err)
	return stats, out.String()
}

func TestWalkerCounts(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "one.md", "body\n")
	two := writeDoc(t, root, "sub/two.md", "body\n")
	writeDoc(t, root, "sub/readme.txt", "not markdown\n")

	stats, out := runWalker(t, root, titleRules(), rules.DefaultSettings())

	assert.Equal(t, 2, stats.Considered)
	assert.Equal(t, 2, stats.Changed)
	assert.Contains(t, out, "[OK] updated: "+two)

	// Second run changes nothing.
	stats, out = runWalker(t, root, titleRules(), rules.DefaultSettings())
	assert.Equal(t, 2, stats.Considered)
	assert.Equal(t, 0, stats.Changed)
	assert.Contains(t, out, "[SKIP] unchanged: "+two)
	assert.NotContains(t, out, "[OK]")
}

func TestWalkerExclusionPruning(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "keep.md", "body\n")
	hidden := writeDoc(t, root, ".obsidian/config.md", "body\n")
	ignored := writeDoc(t, root, "node_modules/pkg/readme.md", "body\n")

	stats, _ := runWalker(t, root, titleRules(), rules.DefaultSettings())

	assert.Equal(t, 1, stats.Considered)
	for _, path := range []string{hidden, ignored} {
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "body\n", string(raw))
	}
}

func TestWalkerRootNeverPruned(t *testing.T) {
	// A run root whose own name matches an exclusion glob is still
	// walked; only subdirectories are pruned.
	parent := t.TempDir()
	writeDoc(t, parent, ".obsidian/note.md", "body\n")

	stats, _ := runWalker(t, filepath.Join(parent, ".obsidian"), titleRules(), rules.DefaultSettings())

	assert.Equal(t, 1, stats.Considered)
	assert.Equal(t, 1, stats.Changed)
}

func TestWalkerSelectiveProcessing(t *testing.T) {
	root := t.TempDir()
	selected := writeDoc(t, root, "Projects/deep/in.md", "body\n")
	unselected := writeDoc(t, root, "Inbox/out.md", "body\n")

	settings := rules.DefaultSettings()
	settings.IncludeFoldersByName = []string{"Projects"}
	settings.SelectiveProcessingActive = true

	stats, _ := runWalker(t, root, titleRules(), settings)

	assert.Equal(t, 1, stats.Considered)

	in, err := os.ReadFile(selected)
	require.NoError(t, err)
	assert.Contains(t, string(in), "title: in")

	out, err := os.ReadFile(unselected)
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(out))
}

func TestWalkerSelectiveSkipsFolderWithExcludedChild(t *testing.T) {
	root := t.TempDir()
	doc := writeDoc(t, root, "Projects/in.md", "body\n")
	writeDoc(t, root, "Projects/.obsidian/meta.md", "body\n")

	settings := rules.DefaultSettings()
	settings.IncludeFoldersByName = []string{"Projects"}
	settings.SelectiveProcessingActive = true

	stats, _ := runWalker(t, root, titleRules(), settings)

	assert.Equal(t, 0, stats.Considered)
	raw, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(raw))
}

func TestWalkerAnchorScopedNotCounted(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "Project/in.md", "body\n")
	writeDoc(t, root, "elsewhere/out.md", "body\n")

	settings := rules.DefaultSettings()
	settings.BaseRoot = "Project"
	settings.ScopeUnderBaseRoot = true

	stats, out := runWalker(t, root, titleRules(), settings)

	assert.Equal(t, 1, stats.Considered)
	assert.Equal(t, 1, stats.Changed)
	assert.NotContains(t, out, "out.md")
}
