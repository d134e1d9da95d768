// Package links maintains per-folder index notes. Each directory gets a
// <dirname>.md index carrying a generated block of links to the
// directory's subfolders, markdown notes, and other files, fenced by
// HTML comment markers so reruns can replace it in place.
package links

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/pkg/fileutil"
)

// Generated block fence markers.
const (
	AutogenStart = "<!-- AUTOGEN_START -->"
	AutogenEnd   = "<!-- AUTOGEN_END -->"
)

// DefaultExcludeFolders are directory names never indexed or descended
// into.
var DefaultExcludeFolders = []string{
	".git", ".obsidian", ".venv", ".archive", "node_modules", "__pycache__",
}

var (
	autogenRe = regexp.MustCompile(
		`(?s)` + regexp.QuoteMeta(AutogenStart) + `.*?` + regexp.QuoteMeta(AutogenEnd))

	// A leftover template block of the form "# Links" followed only by
	// empty wikilinks. Stripped before merging so it does not linger
	// above the generated block.
	placeholderRe = regexp.MustCompile(
		`(?i)(^|\n)#{1,6}[ \t]*Links[ \t]*\n(?:[ \t]*\[\[\]\][ \t]*\n?)+`)
)

// Stats accumulates the run totals.
type Stats struct {
	// Dirs counts directories visited.
	Dirs int
	// Written counts index files created or updated.
	Written int
	// Renamed counts misnamed index files renamed to <dirname>.md.
	Renamed int
	// Cleaned counts duplicate files that had their generated block
	// removed.
	Cleaned int
}

// Generator builds and maintains folder index notes under Root.
type Generator struct {
	Root string
	// FolderLinkPrefix is prepended to folder link targets, e.g.
	// "Data-" turns Unternehmertum into [[Data-Unternehmertum]].
	FolderLinkPrefix string
	// IgnoreDotItems skips dot-prefixed files and directories.
	IgnoreDotItems bool
	// ExcludeFolders are exact directory names to skip.
	ExcludeFolders []string
	DryRun         bool
	Out            io.Writer
	Log            *slog.Logger
}

// Run visits every directory under Root top-down and maintains its
// index note.
func (g *Generator) Run() (Stats, error) {
	var stats Stats
	excluded := make(map[string]struct{}, len(g.ExcludeFolders))
	for _, name := range g.ExcludeFolders {
		excluded[name] = struct{}{}
	}

	err := filepath.WalkDir(g.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != g.Root && g.skipName(d.Name(), excluded) {
			g.Log.Debug("pruning folder", "path", path)
			return filepath.SkipDir
		}
		stats.Dirs++
		return g.processDir(path, excluded, &stats)
	})
	return stats, err
}

func (g *Generator) skipName(name string, excluded map[string]struct{}) bool {
	if g.IgnoreDotItems && strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := excluded[name]
	return ok
}

// processDir maintains the index note of a single directory: pick the
// canonical index file, rename it to <dirname>.md if needed, strip the
// generated block from any duplicates, then rebuild and merge the block.
func (g *Generator) processDir(dir string, excluded map[string]struct{}, stats *Stats) error {
	_, mds, _, err := g.listImmediate(dir, excluded)
	if err != nil {
		return err
	}

	indexName := filepath.Base(dir) + ".md"
	expected := filepath.Join(dir, indexName)

	canonical, duplicates := chooseCanonicalIndex(mds, expected)

	if canonical != expected && fileExists(canonical) {
		if fileExists(expected) {
			// Target already exists as a different file. It stays the
			// canon; the misnamed file is treated as a duplicate.
			duplicates = appendUnique(duplicates, canonical)
			canonical = expected
		} else {
			if g.DryRun {
				fmt.Fprintf(g.Out, "[DRY][RENAME] %s -> %s\n", canonical, expected)
			} else {
				if err := os.Rename(canonical, expected); err != nil {
					return errors.Wrapf(err, "renaming index %s", canonical)
				}
				fmt.Fprintf(g.Out, "[RENAME] %s -> %s\n", canonical, expected)
			}
			stats.Renamed++
			canonical = expected
		}
	}

	for _, dup := range duplicates {
		cleaned, err := g.removeAutogenBlock(dup)
		if err != nil {
			return err
		}
		if cleaned {
			stats.Cleaned++
		}
	}

	// Renames and cleans above may have changed the directory; list
	// again before building the block.
	subs, mds, files, err := g.listImmediate(dir, excluded)
	if err != nil {
		return err
	}

	block := g.buildBlock(subs, mds, files, indexName)

	var existing string
	if raw, err := os.ReadFile(expected); err == nil {
		existing = string(raw)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "reading index %s", expected)
	}

	merged := mergeContent(existing, block)
	if merged == existing {
		fmt.Fprintf(g.Out, "[SKIP] unchanged: %s\n", expected)
		return nil
	}

	if g.DryRun {
		fmt.Fprintf(g.Out, "[DRY] would write: %s\n", expected)
		stats.Written++
		return nil
	}
	if err := fileutil.ReplaceFile(expected, []byte(merged)); err != nil {
		return errors.Wrapf(err, "writing index %s", expected)
	}
	stats.Written++
	fmt.Fprintf(g.Out, "[OK] updated: %s\n", expected)
	return nil
}

// listImmediate returns the directory's direct children split into
// subfolders, markdown files, and other files, each sorted
// case-insensitively by name.
func (g *Generator) listImmediate(dir string, excluded map[string]struct{}) (subs, mds, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "listing %s", dir)
	}
	for _, e := range entries {
		name := e.Name()
		if g.IgnoreDotItems && strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			if _, ok := excluded[name]; ok {
				continue
			}
			subs = append(subs, name)
		} else if strings.EqualFold(filepath.Ext(name), ".md") {
			mds = append(mds, name)
		} else {
			files = append(files, name)
		}
	}
	caseInsensitive := func(s []string) {
		sort.Slice(s, func(i, j int) bool {
			return strings.ToLower(s[i]) < strings.ToLower(s[j])
		})
	}
	caseInsensitive(subs)
	caseInsensitive(mds)
	caseInsensitive(files)
	return subs, mds, files, nil
}

// buildBlock renders the generated section. Sections with no entries
// are omitted; the index file never embeds itself.
func (g *Generator) buildBlock(subs, mds, files []string, indexName string) string {
	parts := []string{AutogenStart}

	if len(subs) > 0 {
		parts = append(parts, "\n---\n#Folder")
		for _, name := range subs {
			parts = append(parts, "[["+g.FolderLinkPrefix+name+"]]")
		}
	}

	var mdLinks []string
	for _, name := range mds {
		if name == indexName {
			continue
		}
		mdLinks = append(mdLinks, "![["+name+"]]")
	}
	if len(mdLinks) > 0 {
		parts = append(parts, "\n---\n#Markdown")
		parts = append(parts, mdLinks...)
	}

	if len(files) > 0 {
		parts = append(parts, "\n---\n#Files")
		for _, name := range files {
			parts = append(parts, "![["+name+"]]")
		}
	}

	parts = append(parts, AutogenEnd)
	return strings.TrimSpace(strings.Join(parts, "\n")) + "\n"
}

// mergeContent splices the generated block into existing content. An
// existing fenced block is replaced in place; otherwise the block is
// appended after the prose, separated by a blank line.
func mergeContent(existing, block string) string {
	if existing == "" {
		return block
	}
	cleaned := placeholderRe.ReplaceAllString(existing, "$1")
	if strings.Contains(cleaned, AutogenStart) && strings.Contains(cleaned, AutogenEnd) {
		merged := autogenRe.ReplaceAllString(cleaned, strings.TrimSpace(block))
		if !strings.HasSuffix(merged, "\n") {
			merged += "\n"
		}
		return merged
	}
	var sep string
	switch {
	case strings.HasSuffix(cleaned, "\n\n"):
		sep = ""
	case strings.HasSuffix(cleaned, "\n"):
		sep = "\n"
	default:
		sep = "\n\n"
	}
	return cleaned + sep + block
}

// chooseCanonicalIndex picks which markdown file should carry the
// generated block and which files wrongly carry one. The expected
// <dirname>.md wins when present; otherwise a single fenced candidate
// is canon, and among several the newest one wins.
func chooseCanonicalIndex(mdPaths []string, expected string) (canonical string, duplicates []string) {
	dir := filepath.Dir(expected)

	var candidates []string
	for _, name := range mdPaths {
		p := filepath.Join(dir, name)
		if hasAutogenBlock(p) {
			candidates = append(candidates, p)
		}
	}

	if fileExists(expected) {
		for _, c := range candidates {
			if c != expected {
				duplicates = append(duplicates, c)
			}
		}
		return expected, duplicates
	}

	switch len(candidates) {
	case 0:
		return expected, nil
	case 1:
		return candidates[0], nil
	}

	newest := candidates[0]
	newestMod := modTime(newest)
	for _, c := range candidates[1:] {
		if m := modTime(c); m.After(newestMod) {
			newest, newestMod = c, m
		}
	}
	for _, c := range candidates {
		if c != newest {
			duplicates = append(duplicates, c)
		}
	}
	return newest, duplicates
}

// removeAutogenBlock strips the fenced block from a duplicate file. It
// reports whether the file carried one.
func (g *Generator) removeAutogenBlock(path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", path)
	}
	text := string(raw)
	if !strings.Contains(text, AutogenStart) || !strings.Contains(text, AutogenEnd) {
		return false, nil
	}
	cleaned := strings.TrimSpace(autogenRe.ReplaceAllString(text, ""))
	if cleaned != "" {
		cleaned += "\n"
	}
	if g.DryRun {
		fmt.Fprintf(g.Out, "[DRY][CLEAN] would remove generated block: %s\n", path)
		return true, nil
	}
	if err := fileutil.ReplaceFile(path, []byte(cleaned)); err != nil {
		return false, errors.Wrapf(err, "cleaning %s", path)
	}
	fmt.Fprintf(g.Out, "[CLEAN] removed generated block: %s\n", path)
	return true, nil
}

func hasAutogenBlock(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	text := string(raw)
	return strings.Contains(text, AutogenStart) && strings.Contains(text, AutogenEnd)
}

func appendUnique(paths []string, p string) []string {
	for _, q := range paths {
		if q == p {
			return paths
		}
	}
	return append(paths, p)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func modTime(path string) (t time.Time) {
	if info, err := os.Stat(path); err == nil {
		t = info.ModTime()
	}
	return t
}
