package stream

import (
	"strings"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

// RecoveryStrategy names what to do about a streaming anomaly.
type RecoveryStrategy string

const (
	// RecoveryRetry returns content unchanged; the next chunk is expected
	// to resolve the issue.
	RecoveryRetry RecoveryStrategy = "retry"
	// RecoveryFallback passes content through a sanitizing pass that strips
	// the malformed trailing construct.
	RecoveryFallback RecoveryStrategy = "fallback"
	// RecoverySkip truncates content at the error position.
	RecoverySkip RecoveryStrategy = "skip"
)

// StreamingError types.
const (
	ErrIncompleteMarkdown = "incomplete-markdown"
	ErrMalformedCodeBlock = "malformed-code-block"
)

// StreamingError is a transient diagnostic recomputed on every processing
// pass. It never aborts rendering.
type StreamingError struct {
	Type     string
	Content  string // human-readable description of the anomaly
	Position int    // byte offset of the offending construct
	Recovery RecoveryStrategy
}

// DetectStreamingErrors scans the full buffered content for
// streaming-specific anomalies. Rules are checked in order and are
// non-exclusive: multiple errors may be reported for one pass.
func DetectStreamingErrors(content string) []StreamingError {
	var errs []StreamingError

	if markdown.CountFences(content)%2 != 0 {
		errs = append(errs, StreamingError{
			Type:     ErrIncompleteMarkdown,
			Content:  "odd number of code fence delimiters",
			Position: markdown.LastFenceIndex(content),
			Recovery: RecoveryRetry,
		})

		// A dangling fence followed only by whitespace has no language tag
		// and no body yet. With an even fence count a trailing fence is a
		// closer, so this check only applies to an unbalanced buffer.
		if endsWithBareFence(content) {
			errs = append(errs, StreamingError{
				Type:     ErrMalformedCodeBlock,
				Content:  "trailing code fence with no content",
				Position: markdown.LastFenceIndex(content),
				Recovery: RecoveryFallback,
			})
		}
	}

	return errs
}

// LastError returns the most recently discovered error. Only the last
// error's recovery is applied per pass: on a monotonically growing buffer,
// earlier errors are assumed subsumed by the most recent one.
func LastError(errs []StreamingError) (StreamingError, bool) {
	if len(errs) == 0 {
		return StreamingError{}, false
	}
	return errs[len(errs)-1], true
}

// Recover applies err's recovery strategy to content and returns the string
// to render. Recovery is best-effort cosmetic, never message loss: the
// buffer itself is untouched.
func Recover(err StreamingError, content string) string {
	switch err.Recovery {
	case RecoveryFallback:
		return stripTrailingFence(content)
	case RecoverySkip:
		if err.Position >= 0 && err.Position <= len(content) {
			return content[:err.Position]
		}
		return content
	default: // RecoveryRetry
		return content
	}
}

// endsWithBareFence reports whether content ends with a fence delimiter
// followed only by whitespace.
func endsWithBareFence(content string) bool {
	idx := markdown.LastFenceIndex(content)
	if idx == -1 {
		return false
	}
	tail := strings.TrimPrefix(content[idx:], markdown.Fence)
	return strings.TrimSpace(tail) == ""
}

// stripTrailingFence removes a trailing bare fence line, including its
// indentation. Content without a trailing bare fence is returned unchanged.
func stripTrailingFence(content string) string {
	if !endsWithBareFence(content) {
		return content
	}
	idx := markdown.LastFenceIndex(content)
	cut := strings.LastIndexByte(content[:idx], '\n')
	if cut == -1 {
		return ""
	}
	return content[:cut+1]
}
