// Package chat holds the conversation model shared by the TUI and the chat
// service: messages with stable identities, per-conversation transcripts,
// and the streaming call that feeds chunks into the rendering pipeline.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single transcript entry. ID is stable for the lifetime of the
// message, so renderers can track message identity across streaming updates
// instead of guessing from content length.
type Message struct {
	ID          string
	Role        Role
	Content     string
	IsStreaming bool
	Features    *markdown.Features // set once the message settles
	CreatedAt   time.Time
}

// NewUserMessage creates a completed user message.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an empty assistant message in streaming state.
func NewAssistantMessage() Message {
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		IsStreaming: true,
		CreatedAt:   time.Now(),
	}
}
