package llm

import (
	"context"
	"io"
)

// DefaultStreamBufferSize is the default buffer size for the event channel.
// Large enough to absorb bursts while still providing backpressure.
const DefaultStreamBufferSize = 100

// StreamAdapter bridges a Stream to a channel of events so a TUI event loop
// can select on it. Sends block when the buffer fills, so no events are
// dropped.
type StreamAdapter struct {
	events chan Event
}

// NewStreamAdapter creates a StreamAdapter with the specified buffer size.
// If bufSize <= 0, DefaultStreamBufferSize is used.
func NewStreamAdapter(bufSize int) *StreamAdapter {
	if bufSize <= 0 {
		bufSize = DefaultStreamBufferSize
	}
	return &StreamAdapter{
		events: make(chan Event, bufSize),
	}
}

// Events returns the channel to read events from.
func (a *StreamAdapter) Events() <-chan Event {
	return a.events
}

// EmitErrorAndClose sends an error event and closes the channel.
// Use this when stream creation fails before ProcessStream can be called.
func (a *StreamAdapter) EmitErrorAndClose(err error) {
	a.events <- Event{Type: EventError, Err: err}
	close(a.events)
}

// ProcessStream reads events from the stream and forwards them to the events
// channel, closing it when the stream ends. A cancelled context ends the
// stream with a done event rather than an error.
//
// Call this in a goroutine:
//
//	go adapter.ProcessStream(ctx, stream)
func (a *StreamAdapter) ProcessStream(ctx context.Context, stream Stream) {
	defer close(a.events)
	defer stream.Close()

	for {
		event, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				a.events <- Event{Type: EventDone}
				return
			}
			a.events <- Event{Type: EventError, Err: err}
			return
		}

		a.events <- event

		if event.Type == EventError || event.Type == EventDone {
			return
		}
	}
}
