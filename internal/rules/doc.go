// Package rules loads the per-vault rule file that drives the
// frontmatter engine.
//
// The rule file is YAML found by name search in the vault root. Its
// top-level keys split into two groups: the reserved "_settings" mapping
// (traversal exclusions, reconciliation mode, anchor configuration) and
// the rule set proper, an ordered template of field names to rule
// values. Rule values are parsed once into a closed tagged variant
// ([Value]) so sentinel tokens like "%wert%" and "=leer=" are recognized
// at load time rather than compared as strings throughout the engine.
package rules
