package ui

import (
	"strings"
	"testing"
)

func TestNewHighlighterUnknownLanguage(t *testing.T) {
	h := NewHighlighter("not-a-language")
	if h != nil {
		t.Fatal("unknown language should yield nil highlighter")
	}
	if got := h.Highlight("raw text"); got != "raw text" {
		t.Errorf("nil highlighter must pass text through, got %q", got)
	}
}

func TestHighlightGo(t *testing.T) {
	h := NewHighlighter("go")
	if h == nil {
		t.Fatal("go lexer should be available")
	}

	out := h.Highlight("func main() {\n\treturn\n}")
	if StripANSI(out) != "func main() {\n\treturn\n}" {
		t.Errorf("highlighting changed the text: %q", StripANSI(out))
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("expected ANSI color codes in highlighted output")
	}
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[38;2;1;2;3mhello\x1b[0m world"
	if got := StripANSI(in); got != "hello world" {
		t.Errorf("StripANSI = %q", got)
	}
}

func TestANSILen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"plain", 5},
		{"\x1b[1mbold\x1b[0m", 4},
		{"", 0},
		{"a\tb", 9}, // tab advances to the next 8-column stop
	}
	for _, tt := range tests {
		if got := ANSILen(tt.in); got != tt.want {
			t.Errorf("ANSILen(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
