package markdown

import (
	"regexp"
	"strings"
)

// DefaultWordsPerMinute is the reading speed used for estimated read times
// when no override is configured.
const DefaultWordsPerMinute = 200

// Features reports which structural constructs a document contains, plus an
// estimated reading time in minutes. Used for UI metadata, not rendering
// correctness.
type Features struct {
	HasHeaders        bool
	HasLists          bool
	HasTables         bool
	HasLinks          bool
	HasBlockquotes    bool
	HasCodeBlocks     bool
	HasInlineCode     bool
	EstimatedReadTime int
}

var (
	headerRe     = regexp.MustCompile(`(?m)^\s*#+\s`)
	listRe       = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+[.)])\s`)
	tableRe      = regexp.MustCompile(`(?m)^.*\|.*\|.*$`)
	linkRe       = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	blockquoteRe = regexp.MustCompile(`(?m)^\s*>`)
	inlineCodeRe = regexp.MustCompile("`[^`\n]+`")
)

// AnalyzeFeatures analyzes content with the default reading speed.
func AnalyzeFeatures(content string) Features {
	return AnalyzeFeaturesWithSpeed(content, DefaultWordsPerMinute)
}

// AnalyzeFeaturesWithSpeed analyzes content using wordsPerMinute for the
// read-time estimate. The scan is regex/substring based and makes no
// guarantee beyond "this construct appears somewhere in the document".
func AnalyzeFeaturesWithSpeed(content string, wordsPerMinute int) Features {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	words := len(strings.Fields(content))
	readTime := (words + wordsPerMinute - 1) / wordsPerMinute
	if readTime < 1 {
		readTime = 1
	}

	return Features{
		HasHeaders:        headerRe.MatchString(content),
		HasLists:          listRe.MatchString(content),
		HasTables:         tableRe.MatchString(content),
		HasLinks:          linkRe.MatchString(content),
		HasBlockquotes:    blockquoteRe.MatchString(content),
		HasCodeBlocks:     strings.Contains(content, Fence),
		HasInlineCode:     hasInlineCode(content),
		EstimatedReadTime: readTime,
	}
}

// hasInlineCode reports whether content has a backtick code span outside of
// fenced code blocks, so a bare code block doesn't count as inline code.
func hasInlineCode(content string) bool {
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, Fence) {
			inBlock = !inBlock
			continue
		}
		if !inBlock && inlineCodeRe.MatchString(line) {
			return true
		}
	}
	return false
}
