package execution

import (
	"context"
	"sync"
	"time"
)

// DefaultRestSeconds is the rest duration used when an exercise does not
// specify one.
const DefaultRestSeconds = 60

// TimerState is the state of a rest timer.
type TimerState string

const (
	TimerRunning  TimerState = "running"
	TimerPaused   TimerState = "paused"
	TimerFinished TimerState = "finished"
)

// RestTimer counts down from a configured duration to zero. It owns no workout
// data, only remaining time and running/paused state. Ticks are driven
// externally: either by Run's ticker loop or directly by Tick in tests.
type RestTimer struct {
	mu        sync.Mutex
	initial   int
	remaining int
	state     TimerState
	done      chan struct{}
}

// NewRestTimer creates a timer running at the given duration in seconds. A
// non-positive duration falls back to DefaultRestSeconds.
func NewRestTimer(seconds int) *RestTimer {
	if seconds <= 0 {
		seconds = DefaultRestSeconds
	}
	return &RestTimer{
		initial:   seconds,
		remaining: seconds,
		state:     TimerRunning,
		done:      make(chan struct{}, 1),
	}
}

// State returns the timer's current state.
func (t *RestTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the seconds left on the countdown.
func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Done signals once each time the countdown reaches zero. Callers use it to
// play a notification or auto-resume the execution session.
func (t *RestTimer) Done() <-chan struct{} {
	return t.done
}

// Toggle switches between running and paused. It has no effect once finished.
func (t *RestTimer) Toggle() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case TimerRunning:
		t.state = TimerPaused
	case TimerPaused:
		t.state = TimerRunning
	}
	return t.state
}

// Reset returns the timer to the configured initial duration and the running
// state, from any state.
func (t *RestTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = t.initial
	t.state = TimerRunning
}

// Tick advances the countdown by one elapsed second while running. On reaching
// zero the timer finishes and emits the completion signal.
func (t *RestTimer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.remaining--
	if t.remaining > 0 {
		return
	}
	t.remaining = 0
	t.state = TimerFinished
	select {
	case t.done <- struct{}{}:
	default:
	}
}

// Run drives the timer with a once-per-second tick until it finishes or ctx is
// cancelled. The recurring tick always stops on return, so a dismissed timer
// never leaks a repeating action.
func (t *RestTimer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
			if t.State() == TimerFinished {
				return
			}
		}
	}
}
