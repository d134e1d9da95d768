package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpLevels(t *testing.T) {
	levels := upLevels("/vault/a/b/doc.md")
	assert.Equal(t, []string{"b", "a", "vault"}, levels)
}

func TestDownParts(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		docDir string
		want   []string
	}{
		{
			name:   "two levels down",
			base:   "/vault",
			docDir: "/vault/a/b",
			want:   []string{"a", "b"},
		},
		{
			name:   "document directly under base",
			base:   "/vault",
			docDir: "/vault",
			want:   nil,
		},
		{
			name:   "document outside base is treated as empty",
			base:   "/vault/sub",
			docDir: "/elsewhere/x",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, downParts(tt.base, tt.docDir))
		})
	}
}

func TestFindAnchor(t *testing.T) {
	root := "/vault"

	t.Run("nearest matching ancestor wins", func(t *testing.T) {
		dir, ok := FindAnchor(root, "/vault/Project/notes/doc.md", "Project")
		require.True(t, ok)
		assert.Equal(t, "/vault/Project", dir)
	})

	t.Run("root itself can be the anchor", func(t *testing.T) {
		dir, ok := FindAnchor("/vault/Project", "/vault/Project/sub/doc.md", "Project")
		require.True(t, ok)
		assert.Equal(t, "/vault/Project", dir)
	})

	t.Run("no matching ancestor", func(t *testing.T) {
		_, ok := FindAnchor(root, "/vault/a/b/doc.md", "Project")
		assert.False(t, ok)
	})

	t.Run("ancestors above the run root are ignored", func(t *testing.T) {
		_, ok := FindAnchor("/home/Project/vault", "/home/Project/vault/a/doc.md", "Project")
		assert.False(t, ok)
	})

	t.Run("never walks past the filesystem root", func(t *testing.T) {
		_, ok := FindAnchor("/vault", "/outside/doc.md", "nowhere")
		assert.False(t, ok)
	})
}

func TestNewContext(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(dir, 0755))
	doc := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(doc, []byte("x"), 0644))

	ctx, err := NewContext(doc, root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(root), ctx.BaseName)
	assert.Equal(t, "b", ctx.UpLevels[0])
	assert.Equal(t, "a", ctx.UpLevels[1])
	assert.Equal(t, []string{"a", "b"}, ctx.DownParts)
	assert.Equal(t, "note", ctx.Stem)
	assert.Equal(t, "note.md", ctx.Name)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, ctx.Date)
}
