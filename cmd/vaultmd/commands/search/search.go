// Package search provides the search command for finding notes by name
// or frontmatter metadata.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/rules"
	"github.com/vaultmd/vaultmd/pkg/frontmatter"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

var (
	searchRoot  string
	jsonOutput  bool
	interactive bool
)

func init() {
	Cmd.Flags().StringVar(&searchRoot, "root", ".", "vault root directory")
	Cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	Cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"Pick a note interactively with a fuzzy finder")
}

// Note is one search result.
type Note struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// header is the typed subset of frontmatter the search reads.
type header struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Cmd is the search command.
var Cmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by filename or frontmatter metadata",
	Long: `Search walks the vault and matches each note's filename and
frontmatter title and description against the query, case-insensitively.

Results are sorted by match quality: exact name matches first, then
prefix matches, then substring matches, then metadata-only matches.
If no query is provided, all notes are listed.`,
	Example: `  # Find notes mentioning "budget"
  vaultmd search budget

  # Pick a note interactively
  vaultmd search -i

  # Output as JSON
  vaultmd search budget --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}

	root, err := filepath.Abs(searchRoot)
	if err != nil {
		return errors.NewUserError(err, "Pass a valid directory to --root")
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.NewUserError(errors.Newf("vault root %s is not a directory", root),
			"Pass a valid directory to --root")
	}

	notes, err := collectNotes(root)
	if err != nil {
		return errors.Wrap(err, "scanning vault")
	}

	results := match(notes, query)

	w := cmd.OutOrStdout()
	if interactive {
		return runInteractiveSearch(w, results)
	}
	if jsonOutput {
		return outputJSON(w, results)
	}
	return outputTabular(w, results)
}

// collectNotes walks the vault and parses each note's frontmatter
// header. Notes with unreadable or malformed headers still appear, with
// empty metadata.
func collectNotes(root string) ([]Note, error) {
	var notes []Note
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}

		note := Note{Path: path, Name: d.Name()}
		if raw, err := os.ReadFile(path); err == nil {
			var h header
			if err := frontmatter.ParseHeader(bytes.NewReader(raw), &h); err == nil {
				note.Title = h.Title
				note.Description = h.Description
			}
		}
		notes = append(notes, note)
		return nil
	})
	return notes, err
}

func excludedDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pat := range rules.DefaultExcludeFolders {
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Match quality buckets, best first.
const (
	rankExact = iota
	rankPrefix
	rankSubstring
	rankMetadata
	rankNone
)

func rank(n Note, query string) int {
	if query == "" {
		return rankSubstring
	}
	stem := strings.ToLower(strings.TrimSuffix(n.Name, filepath.Ext(n.Name)))
	switch {
	case stem == query:
		return rankExact
	case strings.HasPrefix(stem, query):
		return rankPrefix
	case strings.Contains(stem, query):
		return rankSubstring
	case strings.Contains(strings.ToLower(n.Title), query),
		strings.Contains(strings.ToLower(n.Description), query):
		return rankMetadata
	}
	return rankNone
}

// match filters and orders notes by match quality, breaking ties by
// path.
func match(notes []Note, query string) []Note {
	query = strings.ToLower(strings.TrimSpace(query))

	type ranked struct {
		note Note
		rank int
	}
	var hits []ranked
	for _, n := range notes {
		if r := rank(n, query); r != rankNone {
			hits = append(hits, ranked{n, r})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].note.Path < hits[j].note.Path
	})

	results := make([]Note, len(hits))
	for i, h := range hits {
		results[i] = h.note
	}
	return results
}

// outputJSON outputs notes in JSON format.
func outputJSON(w io.Writer, notes []Note) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(notes)
}

// outputTabular outputs notes in a human-readable table format.
func outputTabular(w io.Writer, notes []Note) error {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sTITLE%s\t%sPATH%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, n := range notes {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s%s%s\n",
			colorGreen, n.Name, colorReset,
			truncate(n.Title, 40),
			colorGray, n.Path, colorReset)
	}

	return tw.Flush()
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
