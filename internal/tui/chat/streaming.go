package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	chatsvc "github.com/AlphsX/synx-agent-preview-sub000/internal/chat"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/stream"
)

type (
	// streamChunkMsg carries one ordered text fragment from the provider.
	streamChunkMsg struct{ delta string }

	// streamCompleteMsg is the terminal success event for a turn.
	streamCompleteMsg struct{ data chatsvc.CompletionData }

	// streamErrorMsg is the terminal failure event for a turn.
	streamErrorMsg struct{ message string }

	// rendererUpdateMsg signals that the streaming renderer published a new
	// safe/pending split; the model pulls the snapshot on receipt.
	rendererUpdateMsg struct{}
)

// startStream records the user message, opens an assistant message and runs
// the chat turn in a goroutine. Callbacks post into the events channel; the
// bubbletea loop drains it via waitForEvent.
func (m *Model) startStream(text string) tea.Cmd {
	m.messages = append(m.messages, chatsvc.NewUserMessage(text))
	current := chatsvc.NewAssistantMessage()
	m.current = &current
	m.streaming = true
	m.errText = ""
	m.snapshot = stream.Update{}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	return func() tea.Msg {
		go m.service.StreamMessage(ctx, m.conversationID, text, m.modelName,
			func(chunk string) { m.events <- streamChunkMsg{delta: chunk} },
			func(data chatsvc.CompletionData) { m.events <- streamCompleteMsg{data: data} },
			func(message string) { m.events <- streamErrorMsg{message: message} },
		)
		return nil
	}
}

// waitForEvent blocks on the bridge channel for the next stream event.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) stopStream() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.streaming = false
}
