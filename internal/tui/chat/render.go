package chat

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	chatsvc "github.com/AlphsX/synx-agent-preview-sub000/internal/chat"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	for _, msg := range m.messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n\n")
	}

	if m.current != nil {
		b.WriteString(m.renderStreaming())
		b.WriteString("\n\n")
	}

	if m.errText != "" {
		b.WriteString(m.styles.StreamError.Render("error: " + m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter send · esc cancel · ctrl+l clear · ctrl+c quit"))

	return b.String()
}

func (m *Model) renderMessage(msg chatsvc.Message) string {
	if msg.Role == chatsvc.RoleUser {
		return m.styles.UserMessage.Render(msg.Content)
	}

	res := ui.RenderMessage(msg.Content, m.contentWidth())
	if res.Degraded() {
		// Raw fallback keeps the text visible even when rendering fails
		return m.styles.AssistantLabel.Render("●") + " " + res.Output
	}
	return res.Output
}

// renderStreaming paints the in-flight assistant message: the safe prefix
// rendered as markdown, the deferred tail dimmed and raw, and a spinner while
// more chunks are expected.
func (m *Model) renderStreaming() string {
	var b strings.Builder

	if m.snapshot.ProcessedContent != "" {
		b.WriteString(ui.RenderMarkdown(m.snapshot.ProcessedContent, m.contentWidth()))
	}

	if m.snapshot.PendingContent != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderPending())
	}

	if m.streaming {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Muted.Render(" thinking..."))
	}

	return b.String()
}

// renderPending paints the deferred tail. A tail that is an open code fence
// gets chroma highlighting on its body so partially streamed code stays
// readable; anything else is word-wrapped and dimmed.
func (m *Model) renderPending() string {
	pending := m.snapshot.PendingContent
	width := m.contentWidth()

	trimmed := strings.TrimLeft(pending, " \t")
	if !strings.HasPrefix(trimmed, markdown.Fence) {
		return m.styles.Pending.Render(wordwrap.String(pending, width))
	}

	head, body, hasBody := strings.Cut(pending, "\n")
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(head, " \t"), markdown.Fence))
	out := m.styles.Pending.Render(head)
	if !hasBody || body == "" {
		return out
	}

	lines := strings.Split(ui.NewHighlighter(lang).Highlight(body), "\n")
	for i, line := range lines {
		// Code is not reflowed; lines wider than the view are clipped.
		if ui.ANSILen(line) > width {
			lines[i] = runewidth.Truncate(ui.StripANSI(line), width, "…")
		}
	}
	return out + "\n" + strings.Join(lines, "\n")
}

func (m *Model) contentWidth() int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if width > 120 {
		width = 120
	}
	return width
}
