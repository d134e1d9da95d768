package commands

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/links"
	"github.com/vaultmd/vaultmd/internal/logging"
)

var (
	linksRoot   string
	linksDryRun bool
	linksPrefix string
)

func init() {
	linksCmd.Flags().StringVar(&linksRoot, "root", ".", "vault root directory")
	linksCmd.Flags().BoolVar(&linksDryRun, "dry-run", false,
		"show intended renames, cleans and writes without touching files")
	linksCmd.Flags().StringVar(&linksPrefix, "folder-prefix", "",
		"prefix for folder link targets, e.g. \"Data-\" (default from config)")
	rootCmd.AddCommand(linksCmd)
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Maintain per-folder index notes with generated link blocks",
	Long: `Links gives every directory under the root an index note named
<Folder>.md carrying a generated block of links: wiki-links to immediate
subfolders, embeds of the folder's markdown notes, and embeds of its
other files.

The block is fenced by AUTOGEN comment markers, so reruns replace it in
place while hand-written prose around it survives. At most one file per
folder carries the block: a misnamed index is renamed to <Folder>.md and
stale blocks are stripped from duplicates.`,
	Example: `  # Maintain index notes under the current directory
  vaultmd links

  # Preview without writing
  vaultmd links --root ~/vault --dry-run`,
	Args: cobra.NoArgs,
	RunE: runLinks,
}

func runLinks(cmd *cobra.Command, _ []string) error {
	log := logging.FromContext(cmd.Context())

	root, err := filepath.Abs(linksRoot)
	if err != nil {
		return errors.NewUserError(err, "Pass a valid directory to --root")
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.NewUserError(errors.Newf("vault root %s is not a directory", root),
			"Pass a valid directory to --root")
	}

	cfg := Conf()
	prefix := cfg.Links.FolderLinkPrefix
	if cmd.Flags().Changed("folder-prefix") {
		prefix = linksPrefix
	}

	g := &links.Generator{
		Root:             root,
		FolderLinkPrefix: prefix,
		IgnoreDotItems:   cfg.Links.IgnoreDotItems,
		ExcludeFolders:   links.DefaultExcludeFolders,
		DryRun:           linksDryRun,
		Out:              cmd.OutOrStdout(),
		Log:              log,
	}
	stats, err := g.Run()
	if err != nil {
		return errors.Wrap(err, "maintaining index notes")
	}

	bold := color.New(color.Bold)
	bold.Fprintf(cmd.OutOrStdout(),
		"Done. %d folders visited, %d indexes written, %d renamed, %d cleaned.\n",
		stats.Dirs, stats.Written, stats.Renamed, stats.Cleaned)
	return nil
}
