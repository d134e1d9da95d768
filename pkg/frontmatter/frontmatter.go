package frontmatter

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vaultmd/vaultmd/internal/errors"
)

// Delimiter is the frontmatter block delimiter line.
const Delimiter = "---"

// Split separates a leading frontmatter block from the body text.
//
// If no block is present, meta is nil and body is the full content.
// If a block is present but is not valid YAML or not a mapping, meta is
// nil and body is the content after the block: a malformed block is
// dropped, not preserved. This mirrors the tolerant read path of note
// tools, where a broken block is treated as "no metadata".
func Split(content []byte) (meta *yaml.Node, body string) {
	text := string(content)
	if !strings.HasPrefix(text, Delimiter) {
		return nil, text
	}

	lines := strings.SplitAfter(text, "\n")
	if strings.TrimSpace(lines[0]) != Delimiter {
		return nil, text
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if s == Delimiter || s == "..." {
			end = i
			break
		}
	}
	if end < 0 {
		// No closing delimiter: the whole content is body.
		return nil, text
	}

	block := strings.Join(lines[1:end], "")
	body = strings.Join(lines[end+1:], "")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, body
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, body
	}
	return doc.Content[0], body
}

// Render formats a mapping node as a frontmatter block followed by the
// body with leading blank lines stripped. A nil or empty mapping renders
// as an empty flow mapping, so a document never loses its block once it
// has one.
func Render(meta *yaml.Node, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")

	if meta == nil || len(meta.Content) == 0 {
		buf.WriteString("{}\n")
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(meta); err != nil {
			return nil, errors.Wrap(err, "encoding frontmatter")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "closing frontmatter encoder")
		}
	}

	buf.WriteString(Delimiter + "\n\n")
	buf.WriteString(strings.TrimLeft(body, "\n"))
	return buf.Bytes(), nil
}

// ParseHeader parses only the frontmatter block from the reader into a
// typed struct. It stops reading after the closing delimiter; the body
// is not consumed. If no block is found the struct is left empty and nil
// is returned.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return scanner.Err()
	}
	if strings.TrimSpace(scanner.Text()) != Delimiter {
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		s := strings.TrimSpace(line)
		if s == Delimiter || s == "..." {
			return yaml.Unmarshal(buf.Bytes(), matter)
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return scanner.Err()
}

// Get returns the value node for key in a mapping node.
func Get(mapping *yaml.Node, key string) (*yaml.Node, bool) {
	if mapping == nil {
		return nil, false
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1], true
		}
	}
	return nil, false
}

// Keys returns the mapping's keys in document order.
func Keys(mapping *yaml.Node) []string {
	if mapping == nil {
		return nil
	}
	keys := make([]string, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	return keys
}

// StringValue returns the scalar string value for key, or "" if the key
// is absent or its value is not a scalar.
func StringValue(mapping *yaml.Node, key string) string {
	v, ok := Get(mapping, key)
	if !ok || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}
