package rules

import (
	"gopkg.in/yaml.v3"
)

// Sentinel tokens recognized in rule values. They are whole-value
// matches: a string that merely contains one is an ordinary scalar.
const (
	// KeepToken marks "keep the document's existing value for this
	// field; omit the field if the document has none".
	KeepToken = "%wert%"

	// EmptyToken marks "clear this field": an empty string in a
	// mapping entry, removal when it occurs inside a sequence.
	EmptyToken = "=leer="
)

// Kind discriminates the rule value variants.
type Kind int

const (
	// KindScalar is a literal string, possibly containing placeholders.
	KindScalar Kind = iota
	// KindKeepExisting is the keep-existing sentinel.
	KindKeepExisting
	// KindForceEmpty is the force-empty sentinel.
	KindForceEmpty
	// KindMapping is a nested ordered mapping of rule values.
	KindMapping
	// KindSequence is a list of rule values.
	KindSequence
	// KindLiteral is a non-string YAML scalar (int, bool, null, ...)
	// passed through to the output untouched.
	KindLiteral
)

// Value is one rule value: a closed tagged variant rather than a
// dynamically-inspected tree.
type Value struct {
	Kind    Kind
	Scalar  string     // KindScalar
	Literal *yaml.Node // KindLiteral
	Fields  []Field    // KindMapping
	Items   []Value    // KindSequence
}

// Field is one named entry of a rule mapping. Order is significant.
type Field struct {
	Name  string
	Value Value
}

// Set is the ordered field-to-rule-value template loaded from the rule
// file. It defines the target shape of every document's metadata block.
type Set struct {
	Fields []Field
}

// parseValue converts a YAML node into the tagged representation.
// Sentinels are recognized here, once, so downstream logic never
// compares magic strings.
func parseValue(n *yaml.Node) Value {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	switch n.Kind {
	case yaml.MappingNode:
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			fields = append(fields, Field{
				Name:  n.Content[i].Value,
				Value: parseValue(n.Content[i+1]),
			})
		}
		return Value{Kind: KindMapping, Fields: fields}

	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, parseValue(c))
		}
		return Value{Kind: KindSequence, Items: items}

	case yaml.ScalarNode:
		if n.Tag == "" || n.Tag == "!!str" {
			switch n.Value {
			case KeepToken:
				return Value{Kind: KindKeepExisting}
			case EmptyToken:
				return Value{Kind: KindForceEmpty}
			}
			return Value{Kind: KindScalar, Scalar: n.Value}
		}
		// Non-string scalars (int, bool, null, float, timestamp) pass
		// through unchanged.
		return Value{Kind: KindLiteral, Literal: cloneNode(n)}

	default:
		return Value{Kind: KindLiteral, Literal: cloneNode(n)}
	}
}

// cloneNode deep-copies a node so the rule set stays independent of the
// parsed document tree.
func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = cloneNode(child)
	}
	return &c
}
