package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"ironlog/workout-app/internal/domain"
)

// WorkoutSource looks up the workout a session will execute. Satisfied by the
// tracker.
type WorkoutSource interface {
	WorkoutByID(id string) (domain.Workout, error)
}

// ErrSessionNotFound is returned when a session id is unknown, typically
// because the session was abandoned or released.
var ErrSessionNotFound = fmt.Errorf("execution session not found")

// activeSession pairs a session with its currently running rest timer, if any.
type activeSession struct {
	session     *Session
	timer       *RestTimer
	cancelTimer context.CancelFunc
}

// Manager owns the active execution sessions so the API layer can drive them
// across requests. One session per started execution; abandoning a session
// discards it without recording anything.
type Manager struct {
	mu       sync.Mutex
	source   WorkoutSource
	recorder Recorder
	logger   *logrus.Logger
	sessions map[string]*activeSession
}

// NewManager creates a session manager over the given workout source and
// completion recorder.
func NewManager(source WorkoutSource, recorder Recorder, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &Manager{
		source:   source,
		recorder: recorder,
		logger:   logger,
		sessions: map[string]*activeSession{},
	}
	return m
}

// Start begins executing the workout with the given id. A workout with zero
// exercises yields a session that is already complete and recorded.
func (m *Manager) Start(ctx context.Context, workoutID string) (*Session, error) {
	workout, err := m.source.WorkoutByID(workoutID)
	if err != nil {
		return nil, err
	}
	session, err := NewSession(ctx, workout, m.recorder)
	if err != nil {
		// The session is complete in memory; only the durable write of the
		// record failed. Keep the session so the caller can still inspect it.
		m.logger.WithError(err).Warn("recording immediate completion failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID()] = &activeSession{session: session}
	return session, err
}

// Get returns the session with the given id.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return active.session, nil
}

// CompleteSet marks the current set done (with optional actuals) and, when the
// session enters rest, starts the rest timer with auto-resume on finish.
func (m *Manager) CompleteSet(ctx context.Context, sessionID string, actual *SetActual) (*Session, error) {
	m.mu.Lock()
	active, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := active.session.CompleteCurrentSetWith(ctx, actual); err != nil {
		return active.session, err
	}
	if active.session.Phase() == PhaseResting {
		m.startRestTimer(sessionID, active)
	}
	return active.session, nil
}

// SkipSet marks the current set as explicitly skipped and advances without
// rest.
func (m *Manager) SkipSet(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	active, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := active.session.SkipCurrentSet(ctx); err != nil {
		return active.session, err
	}
	return active.session, nil
}

// Resume dismisses any running rest timer and moves the session out of rest.
// Dismissal and a naturally finished timer behave identically.
func (m *Manager) Resume(sessionID string) (*Session, error) {
	m.mu.Lock()
	active, ok := m.sessions[sessionID]
	if ok {
		m.stopTimerLocked(active)
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	active.session.ResumeFromRest()
	return active.session, nil
}

// Timer returns the session's running rest timer, if one is active.
func (m *Manager) Timer(sessionID string) (*RestTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if active.timer == nil {
		return nil, fmt.Errorf("%w: no rest timer running", ErrInvalidTransition)
	}
	return active.timer, nil
}

// Abandon discards a session mid-way. No partial record is written; the rest
// timer, if any, is cancelled.
func (m *Manager) Abandon(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	active, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	m.stopTimerLocked(active)
	delete(m.sessions, sessionID)
	return nil
}

// startRestTimer spins up the session's rest timer and resumes the session
// when the countdown finishes on its own.
func (m *Manager) startRestTimer(sessionID string, active *activeSession) {
	timer := NewRestTimer(active.session.RestSeconds())
	timerCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.stopTimerLocked(active)
	active.timer = timer
	active.cancelTimer = cancel
	m.mu.Unlock()

	go func() {
		timer.Run(timerCtx)
		if timer.State() != TimerFinished {
			return // dismissed or reset away; Resume handled it
		}
		m.mu.Lock()
		if active.timer == timer {
			active.timer = nil
			active.cancelTimer = nil
		}
		m.mu.Unlock()
		active.session.ResumeFromRest()
	}()
}

// stopTimerLocked cancels the active rest timer's tick loop. Call with the
// manager lock held.
func (m *Manager) stopTimerLocked(active *activeSession) {
	if active.cancelTimer != nil {
		active.cancelTimer()
	}
	active.timer = nil
	active.cancelTimer = nil
}
