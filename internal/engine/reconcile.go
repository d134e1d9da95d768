package engine

import (
	"path"

	"gopkg.in/yaml.v3"

	"github.com/vaultmd/vaultmd/internal/rules"
)

// BuildResult constructs the final frontmatter mapping in rule-set
// order. Keys in drop (rename sources) are invisible on the existing
// side. Keep-existing fields copy the document's current value or are
// omitted entirely. Afterwards, merge mode appends every remaining
// existing field in its original relative order; strict mode appends
// only those matching the keep-list globs.
func BuildResult(existing *yaml.Node, drop map[string]struct{}, applied []AppliedField, keyMode string, keepExtra []string) *yaml.Node {
	result := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	present := make(map[string]struct{}, len(applied))

	add := func(key *yaml.Node, value *yaml.Node) {
		result.Content = append(result.Content, key, value)
		present[key.Value] = struct{}{}
	}

	// 1) Rule-set fields, in order.
	for _, f := range applied {
		if f.Keep {
			if v, ok := existingGet(existing, drop, f.Name); ok {
				add(stringNode(f.Name), v)
			}
			continue
		}
		add(stringNode(f.Name), f.Node)
	}

	// 2) Surviving existing fields.
	if existing != nil {
		for i := 0; i+1 < len(existing.Content); i += 2 {
			key, value := existing.Content[i], existing.Content[i+1]
			if _, dropped := drop[key.Value]; dropped {
				continue
			}
			if _, ok := present[key.Value]; ok {
				continue
			}
			switch keyMode {
			case rules.KeyModeMerge:
				add(key, value)
			default:
				if matchesAny(keepExtra, key.Value) {
					add(key, value)
				}
			}
		}
	}

	return result
}

func existingGet(existing *yaml.Node, drop map[string]struct{}, key string) (*yaml.Node, bool) {
	if existing == nil {
		return nil, false
	}
	if _, dropped := drop[key]; dropped {
		return nil, false
	}
	for i := 0; i+1 < len(existing.Content); i += 2 {
		if existing.Content[i].Value == key {
			return existing.Content[i+1], true
		}
	}
	return nil, false
}

// matchesAny reports whether name matches at least one glob pattern.
// Invalid patterns never match.
func matchesAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if ok, err := path.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}
