package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/debuglog"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/llm"
)

// defaultSystemPrompt frames replies for a terminal markdown surface.
const defaultSystemPrompt = "You are a helpful assistant running in a terminal. " +
	"Format answers as markdown and put code in fenced code blocks with a language tag."

// CompletionData summarizes a finished assistant turn.
type CompletionData struct {
	Content string
	Usage   *llm.Usage
}

// Service runs streaming chat turns against a provider and keeps
// per-conversation history so follow-up messages carry context.
type Service struct {
	provider llm.Provider
	system   string
	log      *log.Logger

	mu      sync.Mutex
	history map[string][]llm.Message
}

func NewService(provider llm.Provider) *Service {
	return &Service{
		provider: provider,
		system:   defaultSystemPrompt,
		log:      debuglog.With("chat-service"),
		history:  make(map[string][]llm.Message),
	}
}

// StreamMessage sends message on the given conversation and streams the
// reply. onChunk fires zero or more times with ordered text fragments; then
// exactly one of onComplete or onError fires. The assistant reply joins the
// conversation history only when the turn completes.
func (s *Service) StreamMessage(
	ctx context.Context,
	conversationID string,
	message string,
	modelID string,
	onChunk func(chunk string),
	onComplete func(data CompletionData),
	onError func(message string),
) {
	s.mu.Lock()
	turn := append([]llm.Message(nil), s.history[conversationID]...)
	s.mu.Unlock()
	turn = append(turn, llm.UserText(message))

	// The system prompt frames every request but never joins the stored
	// transcript.
	request := make([]llm.Message, 0, len(turn)+1)
	request = append(request, llm.SystemText(s.system))
	request = append(request, turn...)

	stream, err := s.provider.Stream(ctx, llm.Request{
		Model:    modelID,
		Messages: request,
	})
	if err != nil {
		s.log.Error("stream open failed", "conversation", conversationID, "err", err)
		onError(err.Error())
		return
	}

	adapter := llm.NewStreamAdapter(llm.DefaultStreamBufferSize)
	go adapter.ProcessStream(ctx, stream)

	var reply strings.Builder
	var usage *llm.Usage

	for event := range adapter.Events() {
		switch event.Type {
		case llm.EventTextDelta:
			reply.WriteString(event.Text)
			onChunk(event.Text)
		case llm.EventUsage:
			usage = event.Use
		case llm.EventRetry:
			s.log.Debug("provider retrying",
				"attempt", event.RetryAttempt,
				"max", event.RetryMaxAttempts,
				"wait_secs", event.RetryWaitSecs)
		case llm.EventError:
			if event.Err != nil {
				onError(event.Err.Error())
				return
			}
		case llm.EventDone:
			// channel close follows; nothing to do here
		}
	}

	content := reply.String()
	s.mu.Lock()
	s.history[conversationID] = append(turn, llm.AssistantText(content))
	s.mu.Unlock()

	onComplete(CompletionData{Content: content, Usage: usage})
}

// History returns a copy of the conversation transcript.
func (s *Service) History(conversationID string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history[conversationID]...)
}

// Reset drops the history for a conversation.
func (s *Service) Reset(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, conversationID)
}
