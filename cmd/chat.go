package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	chatsvc "github.com/AlphsX/synx-agent-preview-sub000/internal/chat"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/llm"
	tuichat "github.com/AlphsX/synx-agent-preview-sub000/internal/tui/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive TUI chat session with the LLM.

Responses render as markdown while they stream. Content inside an
unterminated code fence is held back and shown dimmed until the fence
closes.

Keyboard shortcuts:
  Enter   - Send message
  Esc     - Cancel streaming
  Ctrl+L  - Clear conversation
  Ctrl+C  - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return err
	}

	service := chatsvc.NewService(provider)
	model := tuichat.New(cfg, service, activeModel(cfg))

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
