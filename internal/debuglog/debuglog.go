// Package debuglog is the development/debug channel for the rendering
// pipeline. Advisory diagnostics (validator findings, recovery decisions,
// fallback renders) are reported here and never surfaced to the end user.
package debuglog

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.RWMutex
	root = log.NewWithOptions(io.Discard, log.Options{ReportTimestamp: true})
)

// Enable directs debug output to w at the given level ("debug", "info",
// "warn", "error"). Unknown levels default to info.
func Enable(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	root = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(level),
	})
}

// Disable silences the debug channel.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	root = log.NewWithOptions(io.Discard, log.Options{})
}

// With returns a logger scoped to a pipeline component, e.g.
// debuglog.With("stream-renderer").
func With(component string) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With("component", component)
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
