// Package markdown provides pure analysis of markdown documents: structural
// feature detection, defect diagnostics, and transcript export. Nothing in
// this package assumes an in-progress stream; the same functions serve both
// streaming and settled content.
package markdown

import "strings"

// Fence is the fenced code block delimiter.
const Fence = "```"

// CountFences counts ``` markers that appear at the start of a line.
// Inline backtick runs inside prose are not counted.
func CountFences(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, Fence) {
			count++
		}
	}
	return count
}

// LastFenceIndex returns the byte offset of the last line-leading fence,
// or -1 if the content has none.
func LastFenceIndex(content string) int {
	offset := 0
	last := -1
	for {
		nl := strings.IndexByte(content[offset:], '\n')
		var line string
		if nl == -1 {
			line = content[offset:]
		} else {
			line = content[offset : offset+nl]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, Fence) {
			last = offset + (len(line) - len(trimmed))
		}
		if nl == -1 {
			return last
		}
		offset += nl + 1
	}
}
