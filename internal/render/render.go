// Package render converts answer text, which is written as light markdown,
// into HTML for web clients.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer renders answers to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer. Single newlines in answers are kept as line breaks;
// raw HTML in answers is dropped.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// HTML renders answer as an HTML fragment.
func (r *Renderer) HTML(answer string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(answer), &buf); err != nil {
		return "", fmt.Errorf("failed to render answer: %w", err)
	}
	return buf.String(), nil
}
