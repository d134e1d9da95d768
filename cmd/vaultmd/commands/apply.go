package commands

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vaultmd/vaultmd/internal/engine"
	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/logging"
	"github.com/vaultmd/vaultmd/internal/rules"
)

var applyRoot string

func init() {
	applyCmd.Flags().StringVar(&applyRoot, "root", ".", "vault root directory")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Rewrite note frontmatter from the vault's rule file",
	Long: `Apply loads the rule file from the vault root and rewrites the
frontmatter of every markdown note under it.

The rule file is an ordered YAML mapping; its key order becomes the
frontmatter key order of every note. Values may contain placeholders
derived from each note's path (%folder%, %rootN%, %folderN%, %datum%,
%data%), the keep-existing sentinel %wert%, the force-empty sentinel
=leer=, and OLD/NEW rename directives. A top-level _settings mapping
controls exclusions, key mode (strict or merge), and anchor scoping.

Notes whose rewrite is byte-identical are left untouched, so a second
run over an unchanged vault rewrites nothing.`,
	Example: `  # Rewrite the vault in the current directory
  vaultmd apply

  # Rewrite a specific vault
  vaultmd apply --root ~/vault`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, _ []string) error {
	log := logging.FromContext(cmd.Context())

	root, err := filepath.Abs(applyRoot)
	if err != nil {
		return errors.NewUserError(err, "Pass a valid directory to --root")
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.NewUserError(errors.Newf("vault root %s is not a directory", root),
			"Pass a valid directory to --root")
	}

	settings, set, err := rules.Load(root, Conf().RuleFilenames)
	if err != nil {
		return errors.NewConfigError(err)
	}
	log.Debug("rule file loaded", "root", root, "fields", len(set.Fields),
		"key_mode", settings.KeyMode)

	walker := engine.NewWalker(root, set, settings, cmd.OutOrStdout(), log)
	stats, err := walker.Run()
	if err != nil {
		return errors.Wrap(err, "processing vault")
	}

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(), "Done. %d files considered, %d changed.\n",
		stats.Considered, stats.Changed)
	return nil
}
