package llm

import (
	"context"
	"errors"
	"io"
	"testing"
)

// sliceStream replays a fixed event sequence.
type sliceStream struct {
	events []Event
	pos    int
	closed bool
}

func (s *sliceStream) Recv() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	event := s.events[s.pos]
	s.pos++
	return event, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

func collect(ch <-chan Event) []Event {
	var out []Event
	for event := range ch {
		out = append(out, event)
	}
	return out
}

func TestAdapterForwardsDeltas(t *testing.T) {
	stream := &sliceStream{events: []Event{
		{Type: EventTextDelta, Text: "Hello "},
		{Type: EventTextDelta, Text: "world"},
		{Type: EventUsage, Use: &Usage{InputTokens: 3, OutputTokens: 2}},
		{Type: EventDone},
	}}

	adapter := NewStreamAdapter(0)
	go adapter.ProcessStream(context.Background(), stream)

	events := collect(adapter.Events())
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Text+events[1].Text != "Hello world" {
		t.Errorf("deltas mangled: %+v", events[:2])
	}
	if events[3].Type != EventDone {
		t.Errorf("expected trailing done event, got %v", events[3].Type)
	}
	if !stream.closed {
		t.Error("adapter must close the stream when finished")
	}
}

func TestAdapterStopsAtErrorEvent(t *testing.T) {
	boom := errors.New("stream broke")
	stream := &sliceStream{events: []Event{
		{Type: EventTextDelta, Text: "partial"},
		{Type: EventError, Err: boom},
		{Type: EventTextDelta, Text: "never delivered"},
	}}

	adapter := NewStreamAdapter(0)
	go adapter.ProcessStream(context.Background(), stream)

	events := collect(adapter.Events())
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Type != EventError || !errors.Is(events[1].Err, boom) {
		t.Errorf("error event missing: %+v", events[1])
	}
}

func TestAdapterEmitErrorAndClose(t *testing.T) {
	adapter := NewStreamAdapter(1)
	adapter.EmitErrorAndClose(errors.New("no provider"))

	events := collect(adapter.Events())
	if len(events) != 1 || events[0].Type != EventError {
		t.Fatalf("expected single error event, got %+v", events)
	}
}
