package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/stream"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

var (
	renderChunkSize int
	renderDelay     time.Duration
	renderPlain     bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Replay a markdown document through the streaming pipeline",
	Long: `Replay a markdown document through the streaming pipeline as if it
were arriving from a model, then print the final render.

With --delay, each intermediate safe prefix is printed as it becomes
available, which visualizes how code fences defer rendering.

Examples:
  synx render response.md
  synx render response.md --chunk-size 8 --delay 50ms
  cat response.md | synx render -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderChunkSize, "chunk-size", 0, "Bytes per replayed chunk (default from config)")
	renderCmd.Flags().DurationVar(&renderDelay, "delay", 0, "Pause between chunks; prints intermediate renders")
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "Print processed markdown without terminal styling")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
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

	chunkSize := renderChunkSize
	if chunkSize <= 0 {
		chunkSize = cfg.Streaming.ReplayChunkSize
	}
	if chunkSize <= 0 {
		chunkSize = 24
	}

	width := terminalWidth()
	animate := renderDelay > 0
	output := termenv.DefaultOutput()

	renderer := stream.NewRenderer(stream.Options{
		WordsPerMinute: cfg.Streaming.WordsPerMinute,
		CacheSize:      cfg.Streaming.CacheSize,
	})
	defer renderer.Close()

	for offset := 0; offset < len(content); offset += chunkSize {
		end := min(offset+chunkSize, len(content))
		renderer.SetContent(content[:end], false)

		if animate {
			output.ClearScreen()
			snap := renderer.Snapshot()
			fmt.Printf("--- %d/%d bytes, %d deferred ---\n",
				end, len(content), len(snap.PendingContent))
			if snap.ProcessedContent != "" {
				fmt.Println(display(snap.ProcessedContent, width))
			}
			time.Sleep(renderDelay)
		}
	}
	renderer.SetContent(content, true)

	snap := renderer.Snapshot()
	fmt.Println(display(snap.ProcessedContent, width))

	analysis := renderer.Analysis()
	fmt.Fprintf(os.Stderr, "passes: %d  read time: %dmin  diagnostics: %d\n",
		renderer.Passes(), analysis.Features.EstimatedReadTime, len(analysis.Diagnostics))

	return nil
}

func display(content string, width int) string {
	if renderPlain {
		return content
	}
	return ui.RenderMarkdown(content, width)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
