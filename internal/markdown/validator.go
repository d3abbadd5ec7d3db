package markdown

import (
	"fmt"
	"regexp"
)

// Diagnostic describes a structural defect found in a document. Diagnostics
// are advisory: they never abort rendering and are surfaced only on the
// development/debug channel.
type Diagnostic struct {
	Type        string // always "parsing" for validator findings
	Message     string
	Recoverable bool
}

const DiagnosticParsing = "parsing"

var invalidHeaderRe = regexp.MustCompile(`(?m)^\s*(#{7,})\s*\S`)

// Validate scans content for structural defects. It is pure, non-mutating,
// and must not assume an in-progress stream: it serves both the streaming
// path and final/static rendering.
func Validate(content string) []Diagnostic {
	var diags []Diagnostic

	if CountFences(content)%2 != 0 {
		diags = append(diags, Diagnostic{
			Type:        DiagnosticParsing,
			Message:     "unclosed code fence",
			Recoverable: true,
		})
	}

	if m := invalidHeaderRe.FindStringSubmatch(content); m != nil {
		diags = append(diags, Diagnostic{
			Type:        DiagnosticParsing,
			Message:     fmt.Sprintf("invalid header level: %d leading '#' characters (max 6)", len(m[1])),
			Recoverable: true,
		})
	}

	return diags
}
