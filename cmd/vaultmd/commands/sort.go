package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/logging"
	"github.com/vaultmd/vaultmd/internal/sorter"
)

var (
	sortRoot      string
	sortDryRun    bool
	sortTaskValue string
	sortKeys      []string
)

func init() {
	sortCmd.Flags().StringVar(&sortRoot, "root", ".", "vault root directory")
	sortCmd.Flags().BoolVar(&sortDryRun, "dry-run", false,
		"show intended moves without touching files")
	sortCmd.Flags().StringVar(&sortTaskValue, "task-value", sorter.DefaultTaskValue,
		"frontmatter task value that marks a note as a task note")
	sortCmd.Flags().StringSliceVar(&sortKeys, "keys", nil,
		"frontmatter key names as rank,project,task,status")
	rootCmd.AddCommand(sortCmd)
}

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "File task notes into a rank/project/task/status hierarchy",
	Long: `Sort moves every task note into
<root>/<rank>/<project>/<task>/<status>, reading rank, project and
status from the note's frontmatter.

A note counts as a task note when its task field equals the configured
task value. Unknown statuses fall back to "Status" with a warning;
missing rank or project fields fall back to UnknownRank and
UnknownProjekt. Notes already in their target folder are untouched, and
name collisions at the target get a _N suffix.`,
	Example: `  # File task notes under the current directory
  vaultmd sort

  # Preview without moving anything
  vaultmd sort --root ~/vault --dry-run`,
	Args: cobra.NoArgs,
	RunE: runSort,
}

func runSort(cmd *cobra.Command, _ []string) error {
	log := logging.FromContext(cmd.Context())

	root, err := filepath.Abs(sortRoot)
	if err != nil {
		return errors.NewUserError(err, "Pass a valid directory to --root")
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.NewUserError(errors.Newf("vault root %s is not a directory", root),
			"Pass a valid directory to --root")
	}

	keys, err := parseSortKeys(sortKeys)
	if err != nil {
		return err
	}

	s := &sorter.Sorter{
		Root:      root,
		Keys:      keys,
		TaskValue: sortTaskValue,
		DryRun:    sortDryRun,
		Out:       cmd.OutOrStdout(),
		Log:       log,
	}
	stats, err := s.Run()
	if err != nil {
		return errors.Wrap(err, "sorting task notes")
	}

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "Done. %d files found, %d moved, %d already sorted.\n",
		stats.Found, stats.Moved, stats.Skipped)
	return nil
}

// parseSortKeys maps a rank,project,task,status flag value onto the
// sorter key names, leaving unnamed positions at their defaults.
func parseSortKeys(flag []string) (sorter.Keys, error) {
	keys := sorter.DefaultKeys()
	if len(flag) == 0 {
		return keys, nil
	}
	if len(flag) != 4 {
		return keys, errors.NewUserError(
			errors.Newf("--keys needs exactly 4 names, got %d", len(flag)),
			"Pass --keys rank,project,task,status")
	}
	targets := []*string{&keys.Rank, &keys.Project, &keys.Task, &keys.Status}
	for i, name := range flag {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			*targets[i] = trimmed
		}
	}
	return keys, nil
}
