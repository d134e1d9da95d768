package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKeys []string
		wantBody string
	}{
		{
			name:     "no frontmatter",
			input:    "# Just a note\n\nNo metadata here.\n",
			wantKeys: nil,
			wantBody: "# Just a note\n\nNo metadata here.\n",
		},
		{
			name:     "simple block",
			input:    "---\ntitle: Note\ntags:\n  - a\n  - b\n---\nBody text.\n",
			wantKeys: []string{"title", "tags"},
			wantBody: "Body text.\n",
		},
		{
			name:     "dots terminator",
			input:    "---\ntitle: Note\n...\nBody.\n",
			wantKeys: []string{"title"},
			wantBody: "Body.\n",
		},
		{
			name:     "unterminated block is all body",
			input:    "---\ntitle: Note\nBody without closing delimiter.\n",
			wantKeys: nil,
			wantBody: "---\ntitle: Note\nBody without closing delimiter.\n",
		},
		{
			name:     "malformed block is dropped",
			input:    "---\ntitle: [broken\n  yaml\n---\nBody.\n",
			wantKeys: nil,
			wantBody: "Body.\n",
		},
		{
			name:     "non-mapping block is dropped",
			input:    "---\n- just\n- a list\n---\nBody.\n",
			wantKeys: nil,
			wantBody: "Body.\n",
		},
		{
			name:     "empty block",
			input:    "---\n---\nBody.\n",
			wantKeys: nil,
			wantBody: "Body.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := Split([]byte(tt.input))
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantKeys, Keys(meta))
		})
	}
}

func TestSplitPreservesKeyOrder(t *testing.T) {
	input := "---\nzeta: 1\nalpha: 2\nmike: 3\n---\nBody.\n"
	meta, _ := Split([]byte(input))
	assert.Equal(t, []string{"zeta", "alpha", "mike"}, Keys(meta))
}

func TestRenderRoundTrip(t *testing.T) {
	input := "---\ntitle: Note\ntags:\n  - a\n  - b\n---\n\nBody text.\n"

	meta, body := Split([]byte(input))
	require.NotNil(t, meta)

	out, err := Render(meta, body)
	require.NoError(t, err)

	// A second round trip must be byte-stable.
	meta2, body2 := Split(out)
	out2, err := Render(meta2, body2)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(out2))
}

func TestRenderStripsLeadingBlankLines(t *testing.T) {
	meta, _ := Split([]byte("---\ntitle: Note\n---\n"))
	out, err := Render(meta, "\n\n\nBody.\n")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "---\n\nBody.\n"), "got %q", string(out))
}

func TestRenderEmptyMeta(t *testing.T) {
	out, err := Render(nil, "Body.\n")
	require.NoError(t, err)
	assert.Equal(t, "---\n{}\n---\n\nBody.\n", string(out))
}

func TestParseHeader(t *testing.T) {
	var meta struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Tags        []string `yaml:"tags"`
	}

	input := "---\ntitle: My Note\ndescription: about things\ntags: [x, y]\n---\nlong body that should not be read\n"
	err := ParseHeader(strings.NewReader(input), &meta)
	require.NoError(t, err)
	assert.Equal(t, "My Note", meta.Title)
	assert.Equal(t, "about things", meta.Description)
	assert.Equal(t, []string{"x", "y"}, meta.Tags)
}

func TestParseHeaderNoBlock(t *testing.T) {
	var meta struct {
		Title string `yaml:"title"`
	}
	err := ParseHeader(strings.NewReader("just a body\n"), &meta)
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
}

func TestGetAndStringValue(t *testing.T) {
	meta, _ := Split([]byte("---\ntitle: Note\ncount: 3\nnested:\n  k: v\n---\n"))
	require.NotNil(t, meta)

	v, ok := Get(meta, "title")
	require.True(t, ok)
	assert.Equal(t, "Note", v.Value)

	_, ok = Get(meta, "missing")
	assert.False(t, ok)

	assert.Equal(t, "Note", StringValue(meta, "title"))
	assert.Equal(t, "3", StringValue(meta, "count"))
	assert.Equal(t, "", StringValue(meta, "nested"))
	assert.Equal(t, "", StringValue(meta, "missing"))
}
