package engine

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vaultmd/vaultmd/internal/rules"
)

// Stats accumulates the run totals.
type Stats struct {
	// Considered counts documents that went through the processor.
	// Anchor-scoped and selection-filtered documents are not counted.
	Considered int
	// Changed counts documents rewritten in place.
	Changed int
}

// Walker enumerates documents under the root and runs each through the
// processor, printing a per-document outcome line.
type Walker struct {
	proc *Processor
	out  io.Writer
	log  *slog.Logger
}

// NewWalker builds a walker over root with the given rule set and
// settings. Per-document outcome lines go to out.
func NewWalker(root string, set rules.Set, settings rules.Settings, out io.Writer, log *slog.Logger) *Walker {
	return &Walker{
		proc: &Processor{Root: root, Rules: set, Settings: settings, Log: log},
		out:  out,
		log:  log,
	}
}

// Run walks the tree and processes every markdown document that
// survives exclusion pruning and, when enabled, selective processing.
// Documents are visited strictly sequentially in traversal order; a
// per-document I/O error aborts the run.
func (w *Walker) Run() (Stats, error) {
	var stats Stats
	settings := w.proc.Settings

	includeSet := make(map[string]struct{}, len(settings.IncludeFoldersByName))
	for _, name := range settings.IncludeFoldersByName {
		includeSet[name] = struct{}{}
	}
	selective := settings.SelectiveProcessingActive && len(includeSet) > 0

	err := filepath.WalkDir(w.proc.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.proc.Root && matchesAny(settings.ExcludeFolders, d.Name()) {
				w.log.Debug("pruning excluded folder", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}

		if selective {
			anchorDir, ok := nearestNamedAncestor(filepath.Dir(path), w.proc.Root, includeSet)
			if !ok {
				return nil
			}
			// A selected folder with a directly excluded child (such
			// as an .archive subfolder) is left alone entirely.
			if hasExcludedChild(anchorDir, settings.ExcludeFolders) {
				return nil
			}
		}

		res, perr := w.proc.ProcessFile(path)
		if perr != nil {
			return perr
		}
		switch res {
		case ResultChanged:
			stats.Considered++
			stats.Changed++
			fmt.Fprintf(w.out, "[OK] updated: %s\n", path)
		case ResultUnchanged:
			stats.Considered++
			fmt.Fprintf(w.out, "[SKIP] unchanged: %s\n", path)
		case ResultSkipped:
			// outside anchor scope, not considered
		}
		return nil
	})

	return stats, err
}

// nearestNamedAncestor returns the closest directory, from dir up to and
// including root, whose name is in names.
func nearestNamedAncestor(dir, root string, names map[string]struct{}) (string, bool) {
	for {
		if _, ok := names[filepath.Base(dir)]; ok {
			return dir, true
		}
		if dir == root {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// hasExcludedChild reports whether dir has a direct child directory
// matching one of the exclusion globs. Only immediate children count,
// to avoid false positives from deeper levels.
func hasExcludedChild(dir string, patterns []string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() && matchesAny(patterns, e.Name()) {
			return true
		}
	}
	return false
}
