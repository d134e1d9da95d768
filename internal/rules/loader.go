package rules

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vaultmd/vaultmd/internal/errors"
)

// DefaultFilenames are the rule-file candidates searched in the vault
// root, in order. First match wins.
var DefaultFilenames = []string{
	"vaultmd.yaml",
	"vaultmd.yml",
	".vaultmd.yaml",
	"frontmatter.yaml",
}

// settingsKey is the reserved top-level key carrying Settings. Any
// top-level key starting with the reserved prefix is excluded from the
// rule set.
const (
	settingsKey    = "_settings"
	reservedPrefix = "_"
)

// Load locates and parses the rule file directly inside root.
//
// It fails if no candidate filename exists, if the file contains literal
// tab characters (YAML forbids tabs for indentation; rejecting them
// outright beats a cryptic scanner error), or if the top level is not a
// mapping. Top-level keys starting with "_" are reserved: "_settings"
// carries Settings, everything else becomes the rule set in file order.
func Load(root string, filenames []string) (Settings, Set, error) {
	if len(filenames) == 0 {
		filenames = DefaultFilenames
	}

	var path string
	for _, name := range filenames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			path = candidate
			break
		}
	}
	if path == "" {
		return Settings{}, Set{}, errors.Wrapf(errors.ErrNoRuleFile,
			"looked for %s in %s", strings.Join(filenames, ", "), root)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, Set{}, errors.Wrapf(err, "reading %s", path)
	}

	if bytes.ContainsRune(raw, '\t') {
		return Settings{}, Set{}, errors.Wrapf(errors.ErrInvalidRuleFile,
			"%s contains tab characters; YAML requires spaces", filepath.Base(path))
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Settings{}, Set{}, errors.Wrapf(err, "%s is not valid YAML", filepath.Base(path))
	}

	if len(doc.Content) == 0 {
		return Settings{}, Set{}, errors.Wrapf(errors.ErrInvalidRuleFile,
			"%s is empty", filepath.Base(path))
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return Settings{}, Set{}, errors.Wrapf(errors.ErrInvalidRuleFile,
			"%s: top level must be a mapping", filepath.Base(path))
	}

	settings := DefaultSettings()
	var set Set
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		if key == settingsKey {
			settings = settingsFromNode(top.Content[i+1])
			continue
		}
		if strings.HasPrefix(key, reservedPrefix) {
			continue
		}
		set.Fields = append(set.Fields, Field{
			Name:  key,
			Value: parseValue(top.Content[i+1]),
		})
	}

	return settings, set, nil
}
