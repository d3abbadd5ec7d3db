package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// StatusError is a transport-level failure from a provider, carrying the
// HTTP status and any server-supplied retry hint.
type StatusError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error (status %d)", e.Status)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
}

// Transient reports whether the status is worth retrying: rate limiting or a
// server-side failure.
func (e *StatusError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// parseRetryAfter reads a Retry-After header value, either delta-seconds or
// an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultRetryConfig returns sensible defaults for rate limit retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// RetryProvider retries transient provider failures with capped exponential
// backoff, honoring explicit server retry hints.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WrapWithRetry wraps a provider with retry logic.
func WrapWithRetry(p Provider, config RetryConfig) Provider {
	return &RetryProvider{inner: p, config: config}
}

func (r *RetryProvider) Name() string {
	return r.inner.Name()
}

func (r *RetryProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		for attempt := 1; ; attempt++ {
			err := r.attempt(ctx, req, events)
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !isRetryable(err) || attempt >= r.config.MaxAttempts {
				return err
			}

			wait := r.backoff(attempt, err)

			// Emit retry event so UI can show progress
			events <- Event{
				Type:             EventRetry,
				RetryAttempt:     attempt,
				RetryMaxAttempts: r.config.MaxAttempts,
				RetryWaitSecs:    wait.Seconds(),
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}), nil
}

// attempt runs one provider call, forwarding its events. A mid-stream error
// event (a 429 can arrive after the stream opens) is returned for the retry
// decision rather than forwarded.
func (r *RetryProvider) attempt(ctx context.Context, req Request, events chan<- Event) error {
	stream, err := r.inner.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		event, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if event.Type == EventError && event.Err != nil {
			return event.Err
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// isRetryable classifies transient failures: explicitly transient statuses,
// network-level errors, and torn connections.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Transient()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// backoff computes the wait before the next attempt. A server-supplied
// Retry-After wins; otherwise exponential growth from BaseBackoff with up to
// 25% jitter, capped at MaxBackoff.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var status *StatusError
	if errors.As(err, &status) && status.RetryAfter > 0 {
		if status.RetryAfter > r.config.MaxBackoff {
			return r.config.MaxBackoff
		}
		return status.RetryAfter
	}

	wait := r.config.BaseBackoff << uint(attempt-1)
	if wait <= 0 || wait > r.config.MaxBackoff {
		wait = r.config.MaxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(wait)/4 + 1))
	return wait - jitter
}
