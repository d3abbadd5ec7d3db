package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// exportMarkdown is a shared goldmark instance with GFM extensions, matching
// the constructs the terminal renderer understands (tables, strikethrough,
// autolinks, task lists).
var exportMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML converts a markdown document to HTML for transcript export.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := exportMarkdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// ToPlainText strips all markup from a markdown document by converting it to
// HTML and collecting the text nodes. On conversion failure the original
// text is returned unchanged.
func ToPlainText(md string) string {
	rendered, err := ToHTML(md)
	if err != nil {
		return md
	}

	z := html.NewTokenizer(strings.NewReader(rendered))
	var sb strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			sb.WriteString(tok.Data)
		case html.EndTagToken:
			// Block-level closers become paragraph breaks.
			switch tok.Data {
			case "p", "pre", "li", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
				sb.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
