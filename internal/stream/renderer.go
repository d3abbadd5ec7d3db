package stream

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/debuglog"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/markdown"
)

// State tracks a message's lifetime inside the renderer.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateFinalizing
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Update is the renderer's externally observable state after a processing
// pass: what is safe to show, what is deferred, and whether a pass
// (including its debounce delay) is in flight.
type Update struct {
	ProcessedContent string
	PendingContent   string
	IsProcessing     bool
}

// Options configures a Renderer.
type Options struct {
	// DebounceInterval coalesces bursts of rapid chunks into one render.
	// Non-positive means synchronous processing (no coalescing).
	DebounceInterval time.Duration
	// CacheSize bounds the per-renderer analysis LRU.
	CacheSize int
	// WordsPerMinute tunes the read-time estimate.
	WordsPerMinute int
	// OnUpdate is invoked with the final safe string after each settled
	// processing pass. Optional.
	OnUpdate func(content string)
}

// Renderer owns one message's streaming state: it buffers arriving content,
// drives the safe/pending split, runs detection, validation and recovery,
// debounces rendering work, and reports the resulting safe string through
// OnUpdate. Callers pass cumulative content (the full text so far), not
// deltas.
//
// The renderer is safe for concurrent use; the debounce timer fires on its
// own goroutine but the observable semantics stay "one trailing pass per
// burst".
type Renderer struct {
	mu sync.Mutex

	buf      *Buffer
	debounce *Debouncer
	cache    *ResultCache
	onUpdate func(string)
	wpm      int
	log      *log.Logger

	state      State
	msgID      string
	processed  string
	pending    string
	processing bool
	passes     int
	gen        int // bumped on reset and finalize; passes from an older gen are stale
	committed  int // highest pass seq that has published
	analysis   Analysis
	closed     bool
}

// NewRenderer creates a renderer for a single message stream. Call Close
// when the owning view unmounts so no timer fires after teardown.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		buf:      NewBuffer(),
		debounce: NewDebouncer(opts.DebounceInterval),
		cache:    NewResultCache(opts.CacheSize),
		onUpdate: opts.OnUpdate,
		wpm:      opts.WordsPerMinute,
		log:      debuglog.With("stream-renderer"),
	}
}

// SetContent feeds the cumulative text-so-far into the renderer. When the
// incoming content is shorter than what is already buffered, it is treated
// as a fresh message reusing this renderer and the buffer resets. Prefer
// SetMessage when a stable message identity is available: a legitimately
// shrinking correction mid-stream is indistinguishable from a new message
// by length alone.
func (r *Renderer) SetContent(content string, complete bool) {
	r.update(content, complete)
}

// SetMessage is SetContent with an explicit message identity. A change of
// id resets the buffer regardless of content length, removing the
// shrink-heuristic ambiguity.
func (r *Renderer) SetMessage(id, content string, complete bool) {
	r.mu.Lock()
	if id != r.msgID {
		r.resetLocked()
		r.msgID = id
	}
	r.mu.Unlock()
	r.update(content, complete)
}

// resetLocked clears per-message state for a fresh stream. Caller holds mu.
func (r *Renderer) resetLocked() {
	r.buf.Clear()
	r.processed = ""
	r.pending = ""
	r.analysis = Analysis{}
	r.state = StateIdle
	r.gen++
}

func (r *Renderer) update(content string, complete bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	buffered := r.buf.Full()
	if len(content) < len(buffered) {
		r.log.Debug("new message detected, resetting buffer",
			"buffered", len(buffered), "incoming", len(content))
		r.resetLocked()
		buffered = ""
	}

	// Append only the unseen suffix; already-buffered content is never
	// re-appended.
	if delta := content[len(buffered):]; delta != "" {
		r.buf.Append(delta)
	}
	if r.state == StateIdle || r.state == StateSettled {
		if !r.buf.IsEmpty() {
			r.state = StateStreaming
		}
	}

	if complete {
		r.state = StateFinalizing
		r.mu.Unlock()
		r.debounce.Cancel()
		r.finalize()
		return
	}

	r.processing = true // pass scheduled; stays true through the debounce window
	r.mu.Unlock()
	r.debounce.Trigger(r.process)
}

// process is one debounced processing pass: split, detect, validate,
// recover, publish.
func (r *Renderer) process() {
	defer r.recoverPass()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.passes++
	seq := r.passes
	gen := r.gen
	full := r.buf.Full()
	split := r.buf.Processable()
	r.mu.Unlock()

	safe := split.Content
	if last, ok := LastError(DetectStreamingErrors(full)); ok {
		switch last.Recovery {
		case RecoveryRetry:
			// Keep the deferred split; the next chunk should close the
			// construct.
		default:
			safe = Recover(last, full)
		}
		r.log.Debug("streaming anomaly",
			"type", last.Type, "position", last.Position, "recovery", string(last.Recovery))
	}

	analysis := r.analyze(safe)

	r.mu.Lock()
	// A reset or the completion pass may have superseded this pass while it
	// was computing: its split reads an older buffer and must not publish
	// over the newer commit.
	if r.closed || gen != r.gen || seq <= r.committed {
		r.mu.Unlock()
		return
	}
	r.committed = seq
	r.processed = safe
	if split.HasIncomplete {
		r.pending = full[len(split.Content):]
	} else {
		r.pending = ""
	}
	r.analysis = analysis
	r.processing = false
	cb := r.onUpdate
	out := r.processed
	r.mu.Unlock()

	if cb != nil {
		cb(out)
	}
}

// finalize runs the completion pass: deferral is bypassed and the entire
// buffered content is committed, so anything withheld mid-stream now
// renders.
func (r *Renderer) finalize() {
	defer r.recoverPass()

	r.mu.Lock()
	r.passes++
	seq := r.passes
	r.gen++ // any debounced pass still in flight is now stale
	full := r.buf.Full()
	r.mu.Unlock()

	analysis := r.analyze(full)

	r.mu.Lock()
	r.committed = seq
	r.processed = full
	r.pending = ""
	r.analysis = analysis
	r.processing = false
	r.state = StateSettled
	cb := r.onUpdate
	r.mu.Unlock()

	if cb != nil {
		cb(full)
	}
}

// analyze computes (or recalls) advisory metadata for content. Diagnostics
// go to the debug channel only; they never abort rendering.
func (r *Renderer) analyze(content string) Analysis {
	if cached, ok := r.cache.Get(content); ok {
		return cached
	}
	result := Analysis{
		Features:    markdown.AnalyzeFeaturesWithSpeed(content, r.wpm),
		Diagnostics: markdown.Validate(content),
	}
	r.cache.Put(content, result)
	for _, d := range result.Diagnostics {
		r.log.Debug("validator diagnostic", "type", d.Type, "message", d.Message)
	}
	return result
}

// recoverPass is the orchestrator's failure boundary. A processing-pass
// panic falls back to displaying the raw buffered content rather than
// dropping the message; no chunk is ever discarded by the failure path.
func (r *Renderer) recoverPass() {
	rec := recover()
	if rec == nil {
		return
	}

	r.mu.Lock()
	full := r.buf.Full()
	r.processed = full
	r.pending = ""
	r.processing = false
	if r.state == StateFinalizing {
		r.state = StateSettled
	}
	cb := r.onUpdate
	r.mu.Unlock()

	r.log.Error("processing pass failed, falling back to raw content", "panic", rec)
	if cb != nil {
		cb(full)
	}
}

// Snapshot returns the current externally observable state.
func (r *Renderer) Snapshot() Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Update{
		ProcessedContent: r.processed,
		PendingContent:   r.pending,
		IsProcessing:     r.processing,
	}
}

// State returns the renderer's lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Analysis returns the metadata computed for the most recent safe string.
func (r *Renderer) Analysis() Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.analysis
}

// Passes returns how many processing passes have executed. Bursts of
// updates inside one debounce window produce a single pass.
func (r *Renderer) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

// Close cancels any pending debounce timer and rejects further input. No
// partial writes are observable after teardown.
func (r *Renderer) Close() {
	r.debounce.Stop()
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
