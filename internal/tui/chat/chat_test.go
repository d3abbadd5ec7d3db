package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatsvc "github.com/AlphsX/synx-agent-preview-sub000/internal/chat"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/config"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/llm"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

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

type scriptProvider struct {
	events  []llm.Event
	openErr error
}

func (p *scriptProvider) Name() string { return "script" }

func (p *scriptProvider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	return &scriptStream{events: p.events}, nil
}

func newTestModel(provider llm.Provider) *Model {
	cfg := &config.Config{}
	cfg.Streaming.DebounceMs = 0 // synchronous rendering passes
	cfg.Streaming.WordsPerMinute = 200
	return New(cfg, chatsvc.NewService(provider), "test-model")
}

// runTurn drives a full streaming turn through Update, draining the bridge
// channel until the terminal event lands.
func runTurn(t *testing.T, m *Model, text string) {
	t.Helper()

	cmd := m.startStream(text)
	require.NotNil(t, cmd)
	cmd()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-m.events:
			m.Update(msg)
			switch msg.(type) {
			case streamCompleteMsg, streamErrorMsg:
				return
			}
		case <-deadline:
			t.Fatal("turn did not finish")
		}
	}
}

func TestTurnSettlesTranscript(t *testing.T) {
	provider := &scriptProvider{events: []llm.Event{
		{Type: llm.EventTextDelta, Text: "# Answer\n\n"},
		{Type: llm.EventTextDelta, Text: "- point one\n"},
		{Type: llm.EventDone},
	}}
	m := newTestModel(provider)

	runTurn(t, m, "question")

	require.Len(t, m.messages, 2)
	assert.Equal(t, chatsvc.RoleUser, m.messages[0].Role)
	assert.Equal(t, "question", m.messages[0].Content)

	reply := m.messages[1]
	assert.Equal(t, chatsvc.RoleAssistant, reply.Role)
	assert.Equal(t, "# Answer\n\n- point one\n", reply.Content)
	assert.False(t, reply.IsStreaming)
	require.NotNil(t, reply.Features)
	assert.True(t, reply.Features.HasHeaders)
	assert.True(t, reply.Features.HasLists)

	assert.False(t, m.streaming)
	assert.Nil(t, m.current)
}

func TestTurnErrorShowsMessage(t *testing.T) {
	provider := &scriptProvider{openErr: errors.New("api key missing")}
	m := newTestModel(provider)

	runTurn(t, m, "question")

	assert.Contains(t, m.errText, "api key missing")
	assert.False(t, m.streaming)

	view := m.View()
	assert.Contains(t, view, "api key missing")
}

func TestViewShowsPendingDimmed(t *testing.T) {
	m := newTestModel(&scriptProvider{})

	cmd := m.startStream("question")
	require.NotNil(t, cmd)

	// An open fence keeps the tail deferred.
	m.Update(streamChunkMsg{delta: "intro\n```go\npartial"})
	for len(m.events) > 0 {
		m.Update(<-m.events)
	}

	assert.Equal(t, "intro\n", m.snapshot.ProcessedContent)
	assert.Equal(t, "```go\npartial", m.snapshot.PendingContent)

	view := m.View()
	assert.Contains(t, view, "partial")
}

func TestViewHighlightsPendingCode(t *testing.T) {
	m := newTestModel(&scriptProvider{})

	cmd := m.startStream("question")
	require.NotNil(t, cmd)

	m.Update(streamChunkMsg{delta: "intro\n```go\nfunc main() {\n\treturn\n}"})
	for len(m.events) > 0 {
		m.Update(<-m.events)
	}

	view := m.View()
	require.Contains(t, ui.StripANSI(view), "func main()")
	assert.NotEqual(t, view, ui.StripANSI(view),
		"deferred code body should carry highlight escapes")
}

func TestViewRendersTranscript(t *testing.T) {
	provider := &scriptProvider{events: []llm.Event{
		{Type: llm.EventTextDelta, Text: "plain reply"},
		{Type: llm.EventDone},
	}}
	m := newTestModel(provider)
	runTurn(t, m, "hello there")

	view := m.View()
	assert.Contains(t, view, "hello there")
	assert.Contains(t, view, "plain reply")
	assert.True(t, strings.Contains(view, "❯"), "input prompt missing")
}
