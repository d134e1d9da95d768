package engine

import (
	"bytes"
	"log/slog"
	"os"

	"github.com/vaultmd/vaultmd/internal/errors"
	"github.com/vaultmd/vaultmd/internal/rules"
	"github.com/vaultmd/vaultmd/pkg/fileutil"
	"github.com/vaultmd/vaultmd/pkg/frontmatter"
)

// Result is the per-document outcome.
type Result int

const (
	// ResultUnchanged means the rewrite produced byte-identical
	// content; nothing was written.
	ResultUnchanged Result = iota
	// ResultChanged means the document was rewritten in place.
	ResultChanged
	// ResultSkipped means the document was outside the required anchor
	// scope and was not considered at all.
	ResultSkipped
)

// Processor applies the rule set to individual documents.
type Processor struct {
	// Root is the absolute run root.
	Root     string
	Rules    rules.Set
	Settings rules.Settings
	Log      *slog.Logger
}

// ProcessFile runs one document through the full pipeline: split
// frontmatter, build path context, substitute, resolve renames,
// reconcile, and rewrite in place only when the result differs.
func (p *Processor) ProcessFile(path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ResultUnchanged, errors.Wrapf(err, "reading %s", path)
	}

	existing, body := frontmatter.Split(content)

	base := p.Root
	if p.Settings.BaseRoot != "" {
		anchor, ok := FindAnchor(p.Root, path, p.Settings.BaseRoot)
		switch {
		case ok:
			base = anchor
		case p.Settings.ScopeUnderBaseRoot:
			p.Log.Debug("outside anchor scope", "path", path, "anchor", p.Settings.BaseRoot)
			return ResultSkipped, nil
		}
	}

	ctx, err := NewContext(path, base)
	if err != nil {
		return ResultUnchanged, err
	}

	applied := Apply(p.Rules, ctx)
	applied, drop := ResolveRenames(applied, existing)
	final := BuildResult(existing, drop, applied, p.Settings.KeyMode, p.Settings.KeepExtraKeys)

	out, err := frontmatter.Render(final, body)
	if err != nil {
		return ResultUnchanged, errors.Wrapf(err, "rendering %s", path)
	}

	if bytes.Equal(out, content) {
		return ResultUnchanged, nil
	}

	if err := fileutil.ReplaceFile(path, out); err != nil {
		return ResultUnchanged, errors.Wrapf(err, "writing %s", path)
	}
	return ResultChanged, nil
}
