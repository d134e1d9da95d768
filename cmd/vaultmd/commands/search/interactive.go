package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/pkg/fileutil"
)

func runInteractiveSearch(w io.Writer, notes []Note) error {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		notes,
		func(i int) string {
			if notes[i].Title != "" {
				return fmt.Sprintf("%s (%s)", notes[i].Name, notes[i].Title)
			}
			return notes[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i == -1 {
				return ""
			}
			return preview(notes[i], height)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	// Print the selected path so the result is pipeable.
	fmt.Fprintln(w, notes[idx].Path)
	return nil
}

// preview shows the note's metadata followed by the first lines of its
// content.
func preview(n Note, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", n.Name)
	if n.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", n.Title)
	}
	if n.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", n.Description)
	}
	fmt.Fprintf(&b, "Path: %s\n\n", n.Path)

	raw, err := fileutil.ReadFileWithLimit(n.Path)
	if err != nil {
		return b.String()
	}
	lines := strings.Split(string(raw), "\n")
	max := height - 6
	if max < 0 {
		max = 0
	}
	if len(lines) > max {
		lines = lines[:max]
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
