package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Convert a markdown document to HTML or plain text",
	Long: `Convert a markdown document to another format, for sharing a chat
response outside the terminal.

Examples:
  synx export response.md --format html -o response.html
  synx export response.md --format text
  cat response.md | synx export - --format html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "html", "Output format: html or text")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	var out string
	switch exportFormat {
	case "html":
		out, err = markdown.ToHTML(content)
		if err != nil {
			return fmt.Errorf("html export failed: %w", err)
		}
	case "text":
		out = markdown.ToPlainText(content)
	default:
		return fmt.Errorf("unknown format: %s (want html or text)", exportFormat)
	}

	if exportOut == "" {
		fmt.Print(out)
		if len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}

	if err := os.WriteFile(exportOut, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	return nil
}
