package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vaultmd/vaultmd/internal/errors"
)

// Context carries the path-derived substitution inputs for one document.
// It is ephemeral: computed per document, never stored.
type Context struct {
	// BaseName is the name of the base directory: the run root, or the
	// anchor directory when one is configured and found.
	BaseName string

	// UpLevels are the ancestor directory names from the document
	// upward; index 0 is the document's immediate parent.
	UpLevels []string

	// DownParts are the path segments from the base directory down to
	// the document's parent; empty when the parent is the base itself.
	DownParts []string

	// Date is the document's creation date as YYYY-MM-DD.
	Date string

	// Stem is the filename without extension, Name with extension.
	Stem string
	Name string
}

// NewContext builds the substitution context for one document relative
// to the given base directory.
func NewContext(docPath, base string) (*Context, error) {
	info, err := os.Stat(docPath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", docPath)
	}

	name := filepath.Base(docPath)
	return &Context{
		BaseName: filepath.Base(base),
		UpLevels: upLevels(docPath),
		DownParts: downParts(base, filepath.Dir(docPath)),
		// Creation date: Linux exposes no portable birth time, so the
		// modification time stands in.
		Date: info.ModTime().Format("2006-01-02"),
		Stem: strings.TrimSuffix(name, filepath.Ext(name)),
		Name: name,
	}, nil
}

// upLevels lists ancestor directory names from the document's parent up
// to the filesystem root.
func upLevels(docPath string) []string {
	var levels []string
	dir := filepath.Dir(docPath)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		levels = append(levels, filepath.Base(dir))
		dir = parent
	}
	return levels
}

// downParts relativizes the document's parent against the base. A parent
// outside the base yields nil rather than an error: path placeholders
// then fall back to the base name.
func downParts(base, docDir string) []string {
	rel, err := filepath.Rel(base, docDir)
	if err != nil || rel == "." {
		return nil
	}
	sep := string(filepath.Separator)
	if rel == ".." || strings.HasPrefix(rel, ".."+sep) {
		return nil
	}
	return strings.Split(rel, sep)
}

// FindAnchor walks upward from the document's directory looking for an
// ancestor named anchorName. The walk stops at the run root's parent
// (anchors are only meaningful inside the run) and never crosses the
// filesystem root.
func FindAnchor(root, docPath, anchorName string) (string, bool) {
	stop := filepath.Dir(root)
	dir := filepath.Dir(docPath)
	for {
		if dir == stop {
			return "", false
		}
		if filepath.Base(dir) == anchorName {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
