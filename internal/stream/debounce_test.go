package stream

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	for i := 0; i < 25; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// And stays at one: no stragglers.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncerZeroDelayIsSynchronous(t *testing.T) {
	var calls int
	d := NewDebouncer(0)
	defer d.Stop()

	d.Trigger(func() { calls++ })
	d.Trigger(func() { calls++ })
	assert.Equal(t, 2, calls)
}

func TestDebouncerCancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(15 * time.Millisecond)
	defer d.Stop()

	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())

	// Cancel does not poison future triggers.
	d.Trigger(func() { calls.Add(1) })
	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(15 * time.Millisecond)

	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())

	// Triggers after Stop are rejected outright.
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
