package sorter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultmd/vaultmd/internal/logging"
)

func writeNote(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func taskNote(rank, project, status string) string {
	return "---\nRank: " + rank + "\nProjekt: " + project +
		"\nTask: ToDoList\nStratus: " + status + "\n---\n\nbody\n"
}

func newSorter(root string, out *bytes.Buffer) *Sorter {
	return &Sorter{
		Root:      root,
		Keys:      DefaultKeys(),
		TaskValue: DefaultTaskValue,
		Out:       out,
		Log:       logging.NewDiscard(),
	}
}

func TestRunMovesTaskNote(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "inbox/note.md", taskNote("HEIWest", "P25Strecken", "Open"))

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Found)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 0, stats.Skipped)

	moved := filepath.Join(root, "HEIWest", "P25Strecken", "ToDoList", "Open", "note.md")
	assert.FileExists(t, moved)
	assert.NoFileExists(t, filepath.Join(root, "inbox", "note.md"))
	assert.Contains(t, out.String(), "[OK] moved:")
}

func TestRunSkipsNoteAlreadyInPlace(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, "HEIWest/P25Strecken/ToDoList/Open/note.md",
		taskNote("HEIWest", "P25Strecken", "Open"))

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Moved)
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "[SKIP] already sorted:")
}

func TestRunIgnoresNonTaskNotes(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "plain.md", "---\ntitle: x\n---\n\nbody\n")
	writeNote(t, root, "noyaml.md", "just a body\n")
	writeNote(t, root, "broken.md", "---\n: [ not yaml\n---\n\nbody\n")

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Found)
	assert.Equal(t, 0, stats.Moved)
	assert.Equal(t, 0, stats.Skipped)
}

func TestRunUnknownStatusFallsBack(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "note.md", taskNote("R", "P", "Bogus"))

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Moved)
	assert.FileExists(t, filepath.Join(root, "R", "P", "ToDoList", "Status", "note.md"))
}

func TestRunMissingFieldsUseFallbacks(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "note.md", "---\nTask: ToDoList\n---\n\nbody\n")

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Moved)
	assert.FileExists(t, filepath.Join(root,
		"UnknownRank", "UnknownProjekt", "ToDoList", "Status", "note.md"))
}

func TestRunCollisionSuffix(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "HEIWest/P/ToDoList/Open/note.md", taskNote("HEIWest", "P", "Open"))
	writeNote(t, root, "inbox/note.md", taskNote("HEIWest", "P", "Open"))

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 1, stats.Skipped)
	assert.FileExists(t, filepath.Join(root, "HEIWest", "P", "ToDoList", "Open", "note_1.md"))
}

func TestRunDryRunLeavesTreeAlone(t *testing.T) {
	root := t.TempDir()
	path := writeNote(t, root, "inbox/note.md", taskNote("R", "P", "Open"))

	var out bytes.Buffer
	s := newSorter(root, &out)
	s.DryRun = true
	stats, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Moved)
	assert.FileExists(t, path)
	assert.NoDirExists(t, filepath.Join(root, "R"))
	assert.Contains(t, out.String(), "[OK] moved:")
}

func TestRunPrunesExcludedFolders(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, ".obsidian/note.md", taskNote("R", "P", "Open"))

	var out bytes.Buffer
	stats, err := newSorter(root, &out).Run()
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Found)
}
