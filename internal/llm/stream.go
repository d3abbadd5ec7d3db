package llm

import (
	"context"
	"io"
	"sync"
)

// eventStream is a channel-backed Stream. A producer goroutine writes events
// until its function returns; the return error, if any, is surfaced as a
// final error event before EOF.
type eventStream struct {
	events chan Event
	cancel context.CancelFunc

	mu   sync.Mutex
	done bool
}

// newEventStream runs produce in a goroutine and exposes its events as a
// Stream. Closing the stream cancels the producer's context.
func newEventStream(ctx context.Context, produce func(ctx context.Context, events chan<- Event) error) Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &eventStream{
		events: make(chan Event, 16),
		cancel: cancel,
	}

	go func() {
		defer close(s.events)
		if err := produce(ctx, s.events); err != nil {
			select {
			case s.events <- Event{Type: EventError, Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return s
}

func (s *eventStream) Recv() (Event, error) {
	event, ok := <-s.events
	if !ok {
		return Event{}, io.EOF
	}
	return event, nil
}

func (s *eventStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.done = true
		s.cancel()
	}
	return nil
}
