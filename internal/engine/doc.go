// Package engine implements the frontmatter rewrite pipeline.
//
// For each markdown document under the run root the engine computes a
// path-derived context (ancestor names upward, path segments downward
// from the base or anchor directory, creation date, filename), resolves
// the rule set's placeholders against it, applies OLD/NEW rename
// directives, reconciles the result with the document's existing
// metadata under the configured key mode, and rewrites the document in
// place only when the output differs byte-for-byte from the input.
//
// Processing is single-threaded and run-to-completion: documents are
// independent, visited in traversal order, with no state shared between
// them beyond the immutable rule set and settings.
package engine
