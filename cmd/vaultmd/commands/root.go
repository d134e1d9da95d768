// Package commands implements the CLI commands for vaultmd.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vaultmd/vaultmd/cmd/vaultmd/commands/search"
	"github.com/vaultmd/vaultmd/internal/config"
	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/logging"
	"github.com/vaultmd/vaultmd/internal/rules"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// appConfig holds the loaded application config.
var appConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format (rotated)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("vaultmd version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(search.Cmd)
}

func initConfig() {
	config.Init()
	appConfig, configLoadErr = config.Load("")
}

// Conf returns the loaded application config, falling back to defaults
// when no config file was readable.
func Conf() *config.Config {
	if appConfig == nil {
		return &config.Config{
			Version:       1,
			RuleFilenames: rules.DefaultFilenames,
			Links:         config.Links{IgnoreDotItems: true},
		}
	}
	return appConfig
}

var rootCmd = &cobra.Command{
	Use:   "vaultmd",
	Short: "Maintain a markdown note vault",
	Long: `vaultmd maintains a markdown note vault.

Its core is a rule-driven frontmatter rewriter: a YAML rule file in the
vault root declares, in order, which frontmatter fields every note should
carry. Rule values may contain path-derived placeholders, keep-existing
and force-empty sentinels, and OLD/NEW rename directives. Each note is
rewritten in place only when the result actually differs.

Beyond the rewriter, vaultmd files task notes into a status folder
hierarchy, maintains per-folder index notes with generated link blocks,
and searches note metadata.`,
	Example: `  # Rewrite frontmatter under the current directory
  vaultmd apply

  # File task notes into rank/project/task/status folders
  vaultmd sort --root ~/vault

  # Maintain folder index notes
  vaultmd links --root ~/vault

  # Find a note by name or title
  vaultmd search budget`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if configLoadErr != nil {
			return errors.NewUserError(configLoadErr,
				"Check the config.yaml in your vaultmd config directory")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("VAULTMD_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		// File output uses JSON format and rotates.
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
