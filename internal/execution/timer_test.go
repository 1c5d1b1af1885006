package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRestTimerDefaults(t *testing.T) {
	timer := NewRestTimer(0)
	assert.Equal(t, DefaultRestSeconds, timer.Remaining())
	assert.Equal(t, TimerRunning, timer.State())

	timer = NewRestTimer(-5)
	assert.Equal(t, DefaultRestSeconds, timer.Remaining())

	timer = NewRestTimer(90)
	assert.Equal(t, 90, timer.Remaining())
}

func TestTimerToggle(t *testing.T) {
	timer := NewRestTimer(30)

	assert.Equal(t, TimerPaused, timer.Toggle())
	timer.Tick()
	assert.Equal(t, 30, timer.Remaining(), "a paused timer does not count down")

	assert.Equal(t, TimerRunning, timer.Toggle())
	timer.Tick()
	assert.Equal(t, 29, timer.Remaining())
}

func TestTimerCountsDownToFinished(t *testing.T) {
	timer := NewRestTimer(3)
	timer.Tick()
	timer.Tick()
	assert.Equal(t, 1, timer.Remaining())
	assert.Equal(t, TimerRunning, timer.State())

	timer.Tick()
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, TimerFinished, timer.State())

	select {
	case <-timer.Done():
	default:
		t.Fatal("expected completion signal")
	}

	// Finished is terminal for ticks and toggles.
	timer.Tick()
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, TimerFinished, timer.Toggle())
}

func TestTimerReset(t *testing.T) {
	timer := NewRestTimer(2)
	timer.Tick()
	timer.Tick()
	require.Equal(t, TimerFinished, timer.State())

	timer.Reset()
	assert.Equal(t, 2, timer.Remaining())
	assert.Equal(t, TimerRunning, timer.State())

	timer.Toggle()
	timer.Reset()
	assert.Equal(t, TimerRunning, timer.State(), "reset restarts a paused timer")
}
