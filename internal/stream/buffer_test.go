package stream

import (
	"strings"
	"testing"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

func TestProcessable(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantContent    string
		wantIncomplete bool
	}{
		{
			name:        "empty buffer",
			text:        "",
			wantContent: "",
		},
		{
			name:        "plain text",
			text:        "Hello world\nsecond line",
			wantContent: "Hello world\nsecond line",
		},
		{
			name:        "closed code block",
			text:        "intro\n```go\ncode\n```\nafter",
			wantContent: "intro\n```go\ncode\n```\nafter",
		},
		{
			name:           "open fence defers from the fence line",
			text:           "# Title\nSome text\n\n```js\n",
			wantContent:    "# Title\nSome text\n\n",
			wantIncomplete: true,
		},
		{
			name:           "open fence with body",
			text:           "before\n```\ncode line\nmore",
			wantContent:    "before\n",
			wantIncomplete: true,
		},
		{
			name:           "buffer starting with a fence",
			text:           "```python\nx = 1",
			wantContent:    "",
			wantIncomplete: true,
		},
		{
			name:           "second block open",
			text:           "```\na\n```\ntext\n```\nb",
			wantContent:    "```\na\n```\ntext\n",
			wantIncomplete: true,
		},
		{
			name:           "indented open fence",
			text:           "para\n  ```\ncode",
			wantContent:    "para\n",
			wantIncomplete: true,
		},
		{
			name:           "trailing partial backticks withheld",
			text:           "text\n``",
			wantContent:    "text\n",
			wantIncomplete: true,
		},
		{
			name:        "trailing backticks mid-line are committed",
			text:        "text with `` inline",
			wantContent: "text with `` inline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			b.Append(tt.text)
			got := b.Processable()
			if got.Content != tt.wantContent {
				t.Errorf("Processable().Content = %q, want %q", got.Content, tt.wantContent)
			}
			if got.HasIncomplete != tt.wantIncomplete {
				t.Errorf("Processable().HasIncomplete = %v, want %v", got.HasIncomplete, tt.wantIncomplete)
			}
		})
	}
}

// The safe prefix must end at a line boundary and never contain an odd
// number of fence delimiters, whatever prefix of the input has arrived.
func TestProcessableFenceSafety(t *testing.T) {
	doc := "# Title\n\nIntro text with `inline`.\n\n```go\nfmt.Println(1)\nfmt.Println(2)\n```\n\n- item\n\n```\ntail\n```\n"

	b := NewBuffer()
	for i := 0; i < len(doc); i++ {
		b.Append(doc[i : i+1])
		split := b.Processable()

		if markdown.CountFences(split.Content)%2 != 0 {
			t.Fatalf("after %d bytes: safe content has odd fence count:\n%q", i+1, split.Content)
		}
		if !strings.HasPrefix(b.Full(), split.Content) {
			t.Fatalf("after %d bytes: safe content is not a prefix of the buffer", i+1)
		}
		if split.Content != "" && split.Content != b.Full() && !strings.HasSuffix(split.Content, "\n") {
			t.Fatalf("after %d bytes: safe content does not end at a line boundary: %q", i+1, split.Content)
		}
	}
}

func TestBufferAccessors(t *testing.T) {
	b := NewBuffer()
	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}

	b.Append("Hello ")
	b.Append("world")
	if b.Full() != "Hello world" {
		t.Errorf("Full() = %q, want %q", b.Full(), "Hello world")
	}
	if b.Len() != 11 {
		t.Errorf("Len() = %d, want 11", b.Len())
	}

	b.Clear()
	if !b.IsEmpty() || b.Full() != "" {
		t.Error("Clear() did not empty the buffer")
	}
}
