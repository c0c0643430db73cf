// Package markdown turns product descriptions into sanitized HTML.
package markdown

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/niksmo/choco-shop/internal/core/port"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var _ port.DescriptionRenderer = (*Renderer)(nil)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() Renderer {
	return Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render returns an empty string for empty input and
// on conversion failure.
func (r Renderer) Render(markdown string) string {
	const op = "Renderer.Render"

	if markdown == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		slog.With("op", op).Error("failed to convert markdown", "err", err)
		return ""
	}
	return string(r.policy.SanitizeBytes(buf.Bytes()))
}
