package ui

import (
	"strings"
	"testing"
)

func TestRenderMessage(t *testing.T) {
	res := RenderMessage("# Hello\n\nSome **bold** text.", 80)
	if res.Err != nil {
		t.Fatalf("RenderMessage returned error: %v", res.Err)
	}
	if res.Degraded() {
		t.Error("successful render should not be degraded")
	}
	if !strings.Contains(StripANSI(res.Output), "Hello") {
		t.Errorf("rendered output missing heading text:\n%s", res.Output)
	}
}

func TestRenderMessageEmpty(t *testing.T) {
	res := RenderMessage("", 80)
	if res.Output != "" || res.Err != nil {
		t.Errorf("empty content should render to empty result, got %+v", res)
	}
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	out := RenderMarkdown("```go\nfmt.Println(\"hi\")\n```", 80)
	if !strings.Contains(StripANSI(out), "fmt.Println") {
		t.Errorf("code block content missing from render:\n%s", out)
	}
}

func TestRendererCacheReuse(t *testing.T) {
	ResetRenderers()

	r1, err := getRenderer(72)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := getRenderer(72)
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Error("same width should reuse the cached renderer")
	}

	r3, err := getRenderer(100)
	if err != nil {
		t.Fatal(err)
	}
	if r3 == r1 {
		t.Error("different widths must not share a renderer")
	}
}

func TestRenderMessageWrapsToWidth(t *testing.T) {
	long := strings.Repeat("word ", 40)
	res := RenderMessage(long, 40)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	for _, line := range strings.Split(res.Output, "\n") {
		if w := ANSILen(line); w > 44 {
			t.Errorf("line exceeds wrap width: %d cols: %q", w, StripANSI(line))
		}
	}
}
