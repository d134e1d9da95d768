// Package config provides application-level configuration for vaultmd using Viper.
//
// This is distinct from the per-vault rule file: the rule file lives in
// the vault root and drives the frontmatter engine, while this config
// carries user-level defaults (rule filename candidates, link generation
// defaults) from an XDG config directory or the working directory.
package config

import (
	"github.com/spf13/viper"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/paths"
	"github.com/vaultmd/vaultmd/internal/rules"
)

// AppName is the application name used for config file naming.
const AppName = "vaultmd"

// Config represents the top-level configuration structure.
type Config struct {
	Version       int      `mapstructure:"version" yaml:"version"`
	RuleFilenames []string `mapstructure:"rule_filenames" yaml:"rule_filenames"`
	Links         Links    `mapstructure:"links" yaml:"links"`
}

// Links contains defaults for the folder index generator.
type Links struct {
	FolderLinkPrefix string `mapstructure:"folder_link_prefix" yaml:"folder_link_prefix"`
	IgnoreDotItems   bool   `mapstructure:"ignore_dot_items" yaml:"ignore_dot_items"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.AppConfigDir(AppName))

	// Environment variable support
	viper.SetEnvPrefix("VAULTMD")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("rule_filenames", rules.DefaultFilenames)
	viper.SetDefault("links.ignore_dot_items", true)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}
