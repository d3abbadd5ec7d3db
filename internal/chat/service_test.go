package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/llm"
)

// scriptStream replays a fixed event sequence.
type scriptStream struct {
	events []llm.Event
	pos    int
}

func (s *scriptStream) Recv() (llm.Event, error) {
	if s.pos >= len(s.events) {
		return llm.Event{}, io.EOF
	}
	event := s.events[s.pos]
	s.pos++
	return event, nil
}

func (s *scriptStream) Close() error { return nil }

// scriptProvider returns canned streams and records requests.
type scriptProvider struct {
	events   []llm.Event
	openErr  error
	requests []llm.Request
}

func (p *scriptProvider) Name() string { return "script" }

func (p *scriptProvider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	p.requests = append(p.requests, req)
	if p.openErr != nil {
		return nil, p.openErr
	}
	return &scriptStream{events: p.events}, nil
}

func textEvents(chunks ...string) []llm.Event {
	var events []llm.Event
	for _, c := range chunks {
		events = append(events, llm.Event{Type: llm.EventTextDelta, Text: c})
	}
	return append(events, llm.Event{Type: llm.EventDone})
}

func TestStreamMessageDeliversChunksThenCompletes(t *testing.T) {
	provider := &scriptProvider{events: textEvents("# He", "llo\n", "world")}
	svc := NewService(provider)

	var chunks []string
	var completed *CompletionData
	var errMsg string

	svc.StreamMessage(context.Background(), "conv-1", "hi", "",
		func(chunk string) { chunks = append(chunks, chunk) },
		func(data CompletionData) { completed = &data },
		func(msg string) { errMsg = msg },
	)

	require.Empty(t, errMsg)
	require.NotNil(t, completed)
	assert.Equal(t, []string{"# He", "llo\n", "world"}, chunks)
	assert.Equal(t, "# Hello\nworld", completed.Content)
}

func TestStreamMessageKeepsHistory(t *testing.T) {
	provider := &scriptProvider{events: textEvents("reply one")}
	svc := NewService(provider)

	svc.StreamMessage(context.Background(), "conv-1", "first", "",
		func(string) {}, func(CompletionData) {}, func(string) {})

	// The request opens with the system prompt; the stored transcript does
	// not include it.
	require.Len(t, provider.requests, 1)
	first := provider.requests[0].Messages
	require.Len(t, first, 2)
	assert.Equal(t, llm.RoleSystem, first[0].Role)
	assert.NotEmpty(t, first[0].Content)

	history := svc.History("conv-1")
	require.Len(t, history, 2)
	assert.Equal(t, llm.RoleUser, history[0].Role)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, llm.RoleAssistant, history[1].Role)
	assert.Equal(t, "reply one", history[1].Content)

	// A second turn carries the prior transcript in the request.
	svc.StreamMessage(context.Background(), "conv-1", "second", "",
		func(string) {}, func(CompletionData) {}, func(string) {})

	require.Len(t, provider.requests, 2)
	second := provider.requests[1].Messages
	require.Len(t, second, 4)
	assert.Equal(t, llm.RoleSystem, second[0].Role)
	assert.Equal(t, "second", second[3].Content)

	// Conversations are isolated.
	assert.Empty(t, svc.History("conv-2"))
}

func TestStreamMessageErrorIsTerminal(t *testing.T) {
	provider := &scriptProvider{events: []llm.Event{
		{Type: llm.EventTextDelta, Text: "partial"},
		{Type: llm.EventError, Err: errors.New("connection reset")},
	}}
	svc := NewService(provider)

	var completed, failed int
	svc.StreamMessage(context.Background(), "conv-1", "hi", "",
		func(string) {},
		func(CompletionData) { completed++ },
		func(msg string) {
			failed++
			assert.Contains(t, msg, "connection reset")
		},
	)

	assert.Zero(t, completed, "onComplete must not fire after onError")
	assert.Equal(t, 1, failed)

	// A failed turn leaves no partial assistant message in history.
	assert.Empty(t, svc.History("conv-1"))
}

func TestStreamMessageOpenFailure(t *testing.T) {
	provider := &scriptProvider{openErr: errors.New("api key missing")}
	svc := NewService(provider)

	var failed bool
	svc.StreamMessage(context.Background(), "conv-1", "hi", "",
		func(string) { t.Error("no chunks expected") },
		func(CompletionData) { t.Error("no completion expected") },
		func(msg string) { failed = true },
	)
	assert.True(t, failed)
}

func TestReset(t *testing.T) {
	provider := &scriptProvider{events: textEvents("x")}
	svc := NewService(provider)
	svc.StreamMessage(context.Background(), "conv-1", "hi", "",
		func(string) {}, func(CompletionData) {}, func(string) {})

	svc.Reset("conv-1")
	assert.Empty(t, svc.History("conv-1"))
}

func TestNewMessages(t *testing.T) {
	u := NewUserMessage("hello")
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.IsStreaming)

	a := NewAssistantMessage()
	assert.Equal(t, RoleAssistant, a.Role)
	assert.True(t, a.IsStreaming)
	assert.NotEqual(t, u.ID, a.ID)
}
