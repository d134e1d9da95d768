package engine

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vaultmd/vaultmd/pkg/frontmatter"
)

// ResolveRenames interprets rule field names of the form "OLD/NEW".
//
// For a keep-existing value the existing OLD value (falling back to an
// existing NEW value) transfers to NEW; if neither exists, NEW is not
// created. A concrete value binds to NEW directly. In every case OLD is
// recorded for removal from the existing metadata, so a rename never
// leaves the old key behind, regardless of reconciliation mode.
func ResolveRenames(applied []AppliedField, existing *yaml.Node) ([]AppliedField, map[string]struct{}) {
	out := make([]AppliedField, 0, len(applied))
	drop := make(map[string]struct{})

	for _, f := range applied {
		if !strings.Contains(f.Name, "/") {
			out = append(out, f)
			continue
		}

		src, dst, _ := strings.Cut(f.Name, "/")
		src = strings.TrimSpace(src)
		dst = strings.TrimSpace(dst)
		drop[src] = struct{}{}

		if !f.Keep {
			out = append(out, AppliedField{Name: dst, Node: f.Node})
			continue
		}
		if v, ok := frontmatter.Get(existing, src); ok {
			out = append(out, AppliedField{Name: dst, Node: v})
		} else if v, ok := frontmatter.Get(existing, dst); ok {
			out = append(out, AppliedField{Name: dst, Node: v})
		}
		// Neither OLD nor NEW exists: nothing to create.
	}

	return out, drop
}
