package llm

import (
	"context"
	"errors"
	"io"
	"testing"
)

// drain reads all events from a stream until EOF.
func drain(t *testing.T, s Stream) []Event {
	t.Helper()
	var events []Event
	for {
		event, err := s.Recv()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		events = append(events, event)
	}
}

func TestEventStreamDeliversInOrder(t *testing.T) {
	s := newEventStream(context.Background(), func(ctx context.Context, events chan<- Event) error {
		events <- Event{Type: EventTextDelta, Text: "a"}
		events <- Event{Type: EventTextDelta, Text: "b"}
		events <- Event{Type: EventDone}
		return nil
	})

	events := drain(t, s)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Text != "a" || events[1].Text != "b" {
		t.Errorf("text deltas out of order: %+v", events)
	}
	if events[2].Type != EventDone {
		t.Errorf("last event = %v, want done", events[2].Type)
	}
}

func TestEventStreamSurfacesProducerError(t *testing.T) {
	boom := errors.New("boom")
	s := newEventStream(context.Background(), func(ctx context.Context, events chan<- Event) error {
		events <- Event{Type: EventTextDelta, Text: "partial"}
		return boom
	})

	events := drain(t, s)
	last := events[len(events)-1]
	if last.Type != EventError || !errors.Is(last.Err, boom) {
		t.Errorf("producer error not surfaced: %+v", last)
	}
}

func TestEventStreamCloseCancelsProducer(t *testing.T) {
	cancelled := make(chan struct{})
	s := newEventStream(context.Background(), func(ctx context.Context, events chan<- Event) error {
		<-ctx.Done()
		close(cancelled)
		return nil
	})

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	<-cancelled

	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
