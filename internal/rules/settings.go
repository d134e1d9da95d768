package rules

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Reconciliation modes for existing metadata keys.
const (
	// KeyModeStrict drops existing fields the rule set does not
	// mention, except those matching the keep-list.
	KeyModeStrict = "strict"
	// KeyModeMerge keeps all existing fields not mentioned by the rule
	// set, appended after the rule-set fields.
	KeyModeMerge = "merge"
)

// DefaultExcludeFolders are pruned from traversal when the rule file
// does not override exclude_folders.
var DefaultExcludeFolders = []string{
	".git",
	".obsidian",
	".venv",
	"node_modules",
	"__pycache__",
}

// Settings controls traversal and reconciliation. All keys are optional
// in the rule file; absent keys take the defaults below.
type Settings struct {
	// ExcludeFolders holds glob patterns for directory names pruned
	// from traversal.
	ExcludeFolders []string

	// KeyMode is the reconciliation policy: strict or merge.
	KeyMode string

	// KeepExtraKeys holds glob patterns for existing keys that survive
	// strict mode.
	KeepExtraKeys []string

	// BaseRoot names an anchor directory used to re-root path-derived
	// placeholders. Empty means the run root is the base.
	BaseRoot string

	// ScopeUnderBaseRoot requires a document to lie under an anchor
	// directory to be processed at all.
	ScopeUnderBaseRoot bool

	// IncludeFoldersByName is the selective-processing allow-list of
	// exact folder names.
	IncludeFoldersByName []string

	// SelectiveProcessingActive enables the allow-list filter.
	SelectiveProcessingActive bool
}

// DefaultSettings returns the settings used when the rule file has no
// _settings mapping.
func DefaultSettings() Settings {
	return Settings{
		ExcludeFolders: append([]string(nil), DefaultExcludeFolders...),
		KeyMode:        KeyModeStrict,
	}
}

// settingsDoc is the YAML shape of the _settings mapping.
type settingsDoc struct {
	ExcludeFolders            []string `yaml:"exclude_folders"`
	KeyMode                   string   `yaml:"key_mode"`
	KeepExtraKeys             []string `yaml:"keep_extra_keys"`
	BaseRoot                  string   `yaml:"base_root"`
	ScopeUnderBaseRoot        bool     `yaml:"scope_under_base_root"`
	IncludeFoldersByName      []string `yaml:"include_folders_by_name"`
	SelectiveProcessingActive bool     `yaml:"selective_processing_active"`
}

// settingsFromNode builds Settings from the _settings mapping node,
// applying a default for every absent or malformed entry. Unknown keys
// are ignored.
func settingsFromNode(n *yaml.Node) Settings {
	s := DefaultSettings()
	if n == nil {
		return s
	}

	var doc settingsDoc
	if err := n.Decode(&doc); err != nil {
		return s
	}

	if len(doc.ExcludeFolders) > 0 {
		s.ExcludeFolders = doc.ExcludeFolders
	}
	mode := strings.ToLower(strings.TrimSpace(doc.KeyMode))
	if mode == KeyModeMerge {
		s.KeyMode = KeyModeMerge
	}
	s.KeepExtraKeys = doc.KeepExtraKeys
	s.BaseRoot = doc.BaseRoot
	s.ScopeUnderBaseRoot = doc.ScopeUnderBaseRoot
	s.IncludeFoldersByName = doc.IncludeFoldersByName
	s.SelectiveProcessingActive = doc.SelectiveProcessingActive
	return s
}
