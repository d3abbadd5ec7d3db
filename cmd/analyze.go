package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Report content features and diagnostics for a markdown document",
	Long: `Analyze a markdown document: which content types it uses, the
estimated read time, and any structural diagnostics.

Examples:
  synx analyze response.md
  synx analyze response.md --json
  cat response.md | synx analyze -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit machine-readable JSON")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeReport struct {
	Features    markdown.Features    `json:"features"`
	Diagnostics []markdown.Diagnostic `json:"diagnostics"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	content, err := readInput(name)
	if err != nil {
		return err
	}

	report := analyzeReport{
		Features:    markdown.AnalyzeFeatures(content),
		Diagnostics: markdown.Validate(content),
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	styles := ui.NewStyles(os.Stdout)
	printFeature := func(name string, present bool) {
		if present {
			fmt.Printf("  %s %s\n", styles.Success.Render("✓"), name)
		} else {
			fmt.Printf("  %s %s\n", styles.Muted.Render("–"), styles.Muted.Render(name))
		}
	}

	fmt.Println(styles.Title.Render("Content features"))
	printFeature("headers", report.Features.HasHeaders)
	printFeature("lists", report.Features.HasLists)
	printFeature("tables", report.Features.HasTables)
	printFeature("links", report.Features.HasLinks)
	printFeature("blockquotes", report.Features.HasBlockquotes)
	printFeature("code blocks", report.Features.HasCodeBlocks)
	printFeature("inline code", report.Features.HasInlineCode)
	fmt.Printf("  estimated read time: %d min\n", report.Features.EstimatedReadTime)

	if len(report.Diagnostics) == 0 {
		fmt.Println(styles.Success.Render("no diagnostics"))
		return nil
	}

	fmt.Println(styles.Title.Render("Diagnostics"))
	for _, d := range report.Diagnostics {
		marker := styles.Error.Render("✗")
		if d.Recoverable {
			marker = styles.Muted.Render("!")
		}
		fmt.Printf("  %s [%s] %s\n", marker, d.Type, d.Message)
	}
	return nil
}
