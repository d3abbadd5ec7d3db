package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache provides width-keyed caching of glamour renderers.
// Creating a renderer is expensive; caching by width avoids recreation on
// every streaming pass and makes terminal resizes cheap after the first
// render at the new width.
var rendererCache sync.Map // map[int]*glamour.TermRenderer

// getRenderer returns a cached renderer for the given width, creating one if needed.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	style := GlamourStyle()
	margin := uint(0)
	style.Document.Margin = &margin
	style.Document.BlockPrefix = ""
	style.Document.BlockSuffix = ""
	style.CodeBlock.Margin = &margin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	// Race-safe: if another goroutine stored first, we just discard ours.
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// ResetRenderers drops all cached renderers. Called after a theme change so
// subsequent renders pick up the new style config.
func ResetRenderers() {
	rendererCache.Range(func(key, _ any) bool {
		rendererCache.Delete(key)
		return true
	})
}

// RenderResult carries a markdown render outcome. When rendering fails the
// Output holds the raw content unchanged and Err records why, so callers can
// always display Output and separately decide whether to log the failure.
type RenderResult struct {
	Output string
	Err    error
}

// Degraded reports whether Output is raw fallback text rather than a
// successful render.
func (r RenderResult) Degraded() bool {
	return r.Err != nil
}

// RenderMessage renders markdown content for terminal display at the given
// width. Rendering never blocks message display: on any failure the result
// falls back to the raw content.
func RenderMessage(content string, width int) RenderResult {
	if content == "" {
		return RenderResult{}
	}

	rendered, err := renderMarkdown(content, width)
	if err != nil {
		return RenderResult{Output: content, Err: err}
	}
	return RenderResult{Output: rendered}
}

// RenderMarkdown is the plain-string variant of RenderMessage for callers
// that do not care whether the render degraded.
func RenderMarkdown(content string, width int) string {
	return RenderMessage(content, width).Output
}

func renderMarkdown(content string, width int) (string, error) {
	renderer, err := getRenderer(width)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(rendered), nil
}
