// Package stream implements the streaming markdown pipeline: a per-message
// append-only buffer, a safe/pending split that never exposes an open code
// fence, streaming error detection and recovery, and a debounced renderer
// that orchestrates the processing passes.
package stream

import (
	"strings"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

// Split partitions buffered content into a committed prefix and a deferred
// remainder. Content always ends at a line boundary and never contains an
// odd number of fence delimiters.
type Split struct {
	Content       string
	HasIncomplete bool
}

// Buffer accumulates text chunks for a single in-flight message. It only
// grows by Append during an active stream and is cleared when a new message
// begins.
type Buffer struct {
	buf strings.Builder
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append concatenates chunk onto the buffer. Chunks must arrive in order;
// the buffer has no reordering or deduplication logic.
func (b *Buffer) Append(chunk string) {
	b.buf.WriteString(chunk)
}

// Full returns the entire buffered content.
func (b *Buffer) Full() string {
	return b.buf.String()
}

func (b *Buffer) Len() int {
	return b.buf.Len()
}

func (b *Buffer) IsEmpty() bool {
	return b.buf.Len() == 0
}

// Clear resets the buffer for a new message.
func (b *Buffer) Clear() {
	b.buf.Reset()
}

// Processable walks the buffer line by line, toggling fence state, and
// returns the prefix that is safe to hand to the markdown renderer. When the
// buffer ends inside an open fenced code block, the safe prefix stops before
// the line that opened the fence and the remainder is deferred: a stray
// opening fence would otherwise suppress rendering of everything below it.
// Single pass, O(n).
func (b *Buffer) Processable() Split {
	content := b.buf.String()
	if content == "" {
		return Split{}
	}

	inBlock := false
	blockStart := 0 // byte offset of the line that opened the current block
	offset := 0
	lastLine := ""
	for {
		nl := strings.IndexByte(content[offset:], '\n')
		var line string
		if nl == -1 {
			line = content[offset:]
		} else {
			line = content[offset : offset+nl]
		}

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, markdown.Fence) {
			if inBlock {
				inBlock = false
			} else {
				inBlock = true
				blockStart = offset
			}
		}

		if nl == -1 {
			lastLine = line
			break
		}
		offset += nl + 1
	}

	if inBlock {
		return Split{Content: content[:blockStart], HasIncomplete: true}
	}

	// A trailing partial line of one or two backticks may be the first
	// bytes of an arriving fence. Committing it now would force a retraction
	// once the fence completes, so it is withheld until the line resolves.
	if isFencePrefix(lastLine) {
		return Split{Content: content[:offset], HasIncomplete: true}
	}

	return Split{Content: content}
}

// isFencePrefix reports whether line could still grow into a fence
// delimiter: all backticks after indentation, fewer than three of them.
func isFencePrefix(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || len(trimmed) >= len(markdown.Fence) {
		return false
	}
	return strings.Trim(trimmed, "`") == ""
}
