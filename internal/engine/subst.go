package engine

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vaultmd/vaultmd/internal/rules"
)

// Indexed placeholder families. %folderN% counts upward from the
// document, %rootN% counts downward from the base directory.
var (
	folderPattern = regexp.MustCompile(`%folder(\d+)%`)
	rootPattern   = regexp.MustCompile(`%root(\d+)%`)
)

// AppliedField is one top-level rule field after substitution. Keep
// marks the keep-existing sentinel; otherwise Node holds the concrete
// resolved value. A force-empty at top level has already become an
// empty string node, matching its mapping-entry semantics.
type AppliedField struct {
	Name string
	Keep bool
	Node *yaml.Node
}

// Apply resolves the whole rule set against one document's context.
// Field order is preserved.
func Apply(set rules.Set, ctx *Context) []AppliedField {
	applied := make([]AppliedField, 0, len(set.Fields))
	for _, f := range set.Fields {
		r := resolveValue(f.Value, ctx)
		switch {
		case r.keep:
			applied = append(applied, AppliedField{Name: f.Name, Keep: true})
		case r.empty:
			applied = append(applied, AppliedField{Name: f.Name, Node: stringNode("")})
		default:
			applied = append(applied, AppliedField{Name: f.Name, Node: r.node})
		}
	}
	return applied
}

// resolved is the outcome of resolving one rule value: exactly one of
// keep, empty, or node is set.
type resolved struct {
	keep  bool
	empty bool
	node  *yaml.Node
}

func resolveValue(v rules.Value, ctx *Context) resolved {
	switch v.Kind {
	case rules.KindKeepExisting:
		return resolved{keep: true}

	case rules.KindForceEmpty:
		return resolved{empty: true}

	case rules.KindScalar:
		return resolved{node: stringNode(substitute(v.Scalar, ctx))}

	case rules.KindLiteral:
		return resolved{node: cloneLiteral(v.Literal)}

	case rules.KindMapping:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields {
			r := resolveValue(f.Value, ctx)
			switch {
			case r.keep:
				// Existing values are only addressable at the top
				// level; a keep marker in a nested mapping drops the
				// field.
				continue
			case r.empty:
				m.Content = append(m.Content, stringNode(f.Name), stringNode(""))
			default:
				m.Content = append(m.Content, stringNode(f.Name), r.node)
			}
		}
		return resolved{node: m}

	case rules.KindSequence:
		s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			r := resolveValue(item, ctx)
			// Force-empty removes the element. Keep-existing is
			// ambiguous in a list context and removes it as well.
			if r.keep || r.empty {
				continue
			}
			s.Content = append(s.Content, r.node)
		}
		return resolved{node: s}

	default:
		return resolved{node: stringNode("")}
	}
}

// substitute performs the fixed-order, non-overlapping placeholder
// replacement for a scalar rule value.
func substitute(s string, ctx *Context) string {
	out := strings.ReplaceAll(s, "%datum%", ctx.Date)
	out = strings.ReplaceAll(out, "%date%", ctx.Date)
	out = strings.ReplaceAll(out, "%data%", ctx.Stem)
	out = strings.ReplaceAll(out, "%folder%", ctx.BaseName)
	out = strings.ReplaceAll(out, "%root0%", ctx.BaseName)

	out = folderPattern.ReplaceAllStringFunc(out, func(m string) string {
		idx, _ := strconv.Atoi(folderPattern.FindStringSubmatch(m)[1])
		if len(ctx.UpLevels) == 0 {
			return ""
		}
		if idx < len(ctx.UpLevels) {
			return ctx.UpLevels[idx]
		}
		return ctx.UpLevels[0]
	})

	out = rootPattern.ReplaceAllStringFunc(out, func(m string) string {
		idx, _ := strconv.Atoi(rootPattern.FindStringSubmatch(m)[1])
		if idx == 0 || len(ctx.DownParts) == 0 {
			return ctx.BaseName
		}
		// %root1% is DownParts[0]
		if idx-1 < len(ctx.DownParts) {
			return ctx.DownParts[idx-1]
		}
		return ctx.BaseName
	})

	return out
}

// stringNode builds an explicitly string-tagged scalar so values like
// dates stay strings across a rewrite round trip.
func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func cloneLiteral(n *yaml.Node) *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	c := *n
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = cloneLiteral(child)
	}
	return &c
}
