// Package frontmatter parses and formats YAML frontmatter blocks.
//
// Two access styles are offered: [Split] and [Render] work on yaml.v3
// mapping nodes and preserve key order, which the frontmatter engine
// relies on; [ParseHeader] decodes the block into a typed struct without
// reading the body, which is cheaper for listing and search.
package frontmatter
