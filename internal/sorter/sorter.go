// Package sorter files task notes into a rank/project/task/status
// folder hierarchy derived from their frontmatter.
package sorter

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/rules"
	"github.com/vaultmd/vaultmd/pkg/frontmatter"
)

// Default frontmatter key names and the task marker value. The German
// key names are vault conventions, not typos.
const (
	DefaultRankKey    = "Rank"
	DefaultProjectKey = "Projekt"
	DefaultTaskKey    = "Task"
	DefaultStatusKey  = "Stratus"

	DefaultTaskValue = "ToDoList"

	fallbackRank    = "UnknownRank"
	fallbackProject = "UnknownProjekt"
	fallbackTask    = "UnknownTask"
	fallbackStatus  = "Status"
)

// AllowedStatuses are the accepted status folder names. Anything else
// warns and falls back to "Status".
var AllowedStatuses = []string{
	"Canceled", "Changes", "Done", "Onhold", "Open", "Progress", "Status",
}

// Keys names the frontmatter fields the sorter reads.
type Keys struct {
	Rank    string
	Project string
	Task    string
	Status  string
}

// DefaultKeys returns the conventional key names.
func DefaultKeys() Keys {
	return Keys{
		Rank:    DefaultRankKey,
		Project: DefaultProjectKey,
		Task:    DefaultTaskKey,
		Status:  DefaultStatusKey,
	}
}

// Stats accumulates the run totals.
type Stats struct {
	// Found counts every markdown file seen under the root.
	Found int
	// Moved counts task notes relocated to their target folder.
	Moved int
	// Skipped counts task notes already in their target folder.
	Skipped int
}

// Sorter moves task notes into place under Root.
type Sorter struct {
	Root      string
	Keys      Keys
	TaskValue string
	DryRun    bool
	Out       io.Writer
	Log       *slog.Logger
}

// Run walks the tree, collects every markdown file up front, and then
// moves each task note into <root>/<rank>/<project>/<task>/<status>.
// Collecting first keeps the walk stable while files are relocated
// beneath it.
func (s *Sorter) Run() (Stats, error) {
	var stats Stats

	allowed := make(map[string]struct{}, len(AllowedStatuses))
	for _, st := range AllowedStatuses {
		allowed[st] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.Root && matchesExclude(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".md" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return stats, errors.Wrapf(err, "walking %s", s.Root)
	}
	stats.Found = len(files)

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return stats, errors.Wrapf(err, "reading %s", path)
		}

		meta, _ := frontmatter.Split(content)
		if meta == nil {
			continue
		}
		if strings.TrimSpace(frontmatter.StringValue(meta, s.Keys.Task)) != s.TaskValue {
			continue
		}

		rank := fieldOr(meta, s.Keys.Rank, fallbackRank)
		project := fieldOr(meta, s.Keys.Project, fallbackProject)
		status := fieldOr(meta, s.Keys.Status, fallbackStatus)
		if _, ok := allowed[status]; !ok {
			s.Log.Warn("unknown status, filing under fallback",
				"status", status, "path", path, "fallback", fallbackStatus)
			status = fallbackStatus
		}

		target := filepath.Join(s.Root, rank, project, s.TaskValue, status)
		if filepath.Dir(path) == target {
			stats.Skipped++
			fmt.Fprintf(s.Out, "[SKIP] already sorted: %s\n", path)
			continue
		}

		dest, err := s.moveFile(path, target)
		if err != nil {
			return stats, err
		}
		stats.Moved++
		fmt.Fprintf(s.Out, "[OK] moved: %s -> %s\n", path, dest)
	}

	return stats, nil
}

// moveFile relocates path into dir, appending _N to the stem when the
// name is already taken. It returns the final destination path.
func (s *Sorter) moveFile(path, dir string) (string, error) {
	dest := filepath.Join(dir, filepath.Base(path))
	if s.DryRun {
		return dest, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}

	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(path)
		stem := strings.TrimSuffix(filepath.Base(path), ext)
		for n := 1; ; n++ {
			candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
			if _, err := os.Stat(candidate); os.IsNotExist(err) {
				dest = candidate
				break
			}
		}
	}

	if err := os.Rename(path, dest); err != nil {
		return "", errors.Wrapf(err, "moving %s", path)
	}
	return dest, nil
}

// fieldOr returns the trimmed scalar value for key, or fallback when
// the field is absent or blank.
func fieldOr(meta *yaml.Node, key, fallback string) string {
	v := strings.TrimSpace(frontmatter.StringValue(meta, key))
	if v == "" {
		return fallback
	}
	return v
}

func matchesExclude(name string) bool {
	for _, pat := range rules.DefaultExcludeFolders {
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}
