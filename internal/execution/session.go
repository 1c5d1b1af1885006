// Package execution drives a single guided run through one workout: exercise
// by exercise, set by set, with optional rest between sets, ending in an
// immutable completed-workout record handed back to the tracker.
package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ironlog/workout-app/internal/domain"
)

// Phase is the state of an execution session.
type Phase string

const (
	// PhaseAwaitingSet means the user is on a set of the current exercise.
	PhaseAwaitingSet Phase = "awaiting_set"
	// PhaseResting means a rest break is in progress; the next position is
	// already computed and entered on resume.
	PhaseResting Phase = "resting"
	// PhaseComplete is terminal; no further transitions are valid.
	PhaseComplete Phase = "complete"
)

// ErrInvalidTransition is returned for a transition that is not valid in the
// session's current phase.
var ErrInvalidTransition = errors.New("invalid transition")

// Recorder receives the completed-workout record when a session finishes.
// Satisfied by the tracker.
type Recorder interface {
	RecordCompletion(ctx context.Context, completed domain.CompletedWorkout) error
}

// SetActual carries what was actually performed in one set, when it differs
// from plan.
type SetActual struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Session walks one workout. It holds a transient, exclusive working copy of
// the workout's progress; abandoning the session mid-way simply discards it
// and records nothing.
type Session struct {
	mu sync.Mutex

	id       string
	workout  domain.Workout
	recorder Recorder

	phase       Phase
	exerciseIdx int
	setIdx      int

	// nextExerciseIdx/nextSetIdx are the position entered on resume while the
	// session is resting.
	nextExerciseIdx int
	nextSetIdx      int

	completedSets [][]bool
	actuals       [][]*SetActual

	result *domain.CompletedWorkout
}

// NewSession starts an execution of the given workout. A workout with zero
// exercises completes immediately: the (empty) record is built and handed to
// the recorder before NewSession returns.
func NewSession(ctx context.Context, workout domain.Workout, recorder Recorder) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		workout:  workout.Clone(),
		recorder: recorder,
		phase:    PhaseAwaitingSet,
	}
	s.completedSets = make([][]bool, len(s.workout.Exercises))
	s.actuals = make([][]*SetActual, len(s.workout.Exercises))
	for i, ex := range s.workout.Exercises {
		s.completedSets[i] = make([]bool, ex.Sets)
		s.actuals[i] = make([]*SetActual, ex.Sets)
	}
	if len(s.workout.Exercises) == 0 {
		return s, s.completeLocked(ctx)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Workout returns the workout this session is executing.
func (s *Session) Workout() domain.Workout {
	return s.workout.Clone()
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Position returns the current exercise and set indices. While resting, this
// is still the position of the set that just finished.
func (s *Session) Position() (exercise, set int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exerciseIdx, s.setIdx
}

// CurrentExercise returns the exercise at the current position, or false once
// the session is complete.
func (s *Session) CurrentExercise() (domain.Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseComplete {
		return domain.Exercise{}, false
	}
	return s.workout.Exercises[s.exerciseIdx], true
}

// Progress returns a copy of the per-exercise, per-set completion flags.
func (s *Session) Progress() [][]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]bool, len(s.completedSets))
	for i, sets := range s.completedSets {
		out[i] = append([]bool{}, sets...)
	}
	return out
}

// RestSeconds returns the rest duration owed after the current exercise's
// sets, falling back to the default when the exercise does not set one.
func (s *Session) RestSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseComplete {
		return 0
	}
	if rest := s.workout.Exercises[s.exerciseIdx].RestTime; rest > 0 {
		return rest
	}
	return DefaultRestSeconds
}

// Result returns the completed-workout record once the session is complete.
func (s *Session) Result() (domain.CompletedWorkout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.CompletedWorkout{}, false
	}
	return *s.result, true
}

// CompleteCurrentSet marks the current set done with the planned values and
// advances. Rest is entered when the just-finished exercise specifies a rest
// duration and more sets remain to perform.
func (s *Session) CompleteCurrentSet(ctx context.Context) error {
	return s.CompleteCurrentSetWith(ctx, nil)
}

// CompleteCurrentSetWith is CompleteCurrentSet with recorded actuals for the
// set (nil means as planned).
func (s *Session) CompleteCurrentSetWith(ctx context.Context, actual *SetActual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAwaitingSet {
		return fmt.Errorf("%w: complete set in phase %s", ErrInvalidTransition, s.phase)
	}
	s.completedSets[s.exerciseIdx][s.setIdx] = true
	s.actuals[s.exerciseIdx][s.setIdx] = actual
	return s.advanceLocked(ctx, true)
}

// SkipCurrentSet marks the current set as explicitly not performed and
// advances. Skipping never enters rest: no rest is owed for a set not done.
func (s *Session) SkipCurrentSet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAwaitingSet {
		return fmt.Errorf("%w: skip set in phase %s", ErrInvalidTransition, s.phase)
	}
	s.completedSets[s.exerciseIdx][s.setIdx] = false
	return s.advanceLocked(ctx, false)
}

// ResumeFromRest leaves the resting phase and enters the already-computed next
// position. It has no effect outside the resting phase; timer dismissal and a
// naturally finished timer both land here.
func (s *Session) ResumeFromRest() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResting {
		return
	}
	s.exerciseIdx = s.nextExerciseIdx
	s.setIdx = s.nextSetIdx
	s.phase = PhaseAwaitingSet
}

// advanceLocked computes the next position after the current set and either
// moves there, parks it behind a rest break, or completes the session.
func (s *Session) advanceLocked(ctx context.Context, mayRest bool) error {
	ex := s.workout.Exercises[s.exerciseIdx]

	var nextExercise, nextSet int
	switch {
	case s.setIdx+1 < ex.Sets:
		nextExercise, nextSet = s.exerciseIdx, s.setIdx+1
	case s.exerciseIdx+1 < len(s.workout.Exercises):
		nextExercise, nextSet = s.exerciseIdx+1, 0
	default:
		return s.completeLocked(ctx)
	}

	if mayRest && ex.RestTime > 0 {
		s.nextExerciseIdx = nextExercise
		s.nextSetIdx = nextSet
		s.phase = PhaseResting
		return nil
	}
	s.exerciseIdx = nextExercise
	s.setIdx = nextSet
	return nil
}

// completeLocked builds the completed-workout snapshot and hands it to the
// recorder. Planned values are merged with any per-set actuals: actual sets is
// the count of sets done, actual reps/weight come from the last recorded
// actual, else from plan.
func (s *Session) completeLocked(ctx context.Context) error {
	s.phase = PhaseComplete

	exercises := make([]domain.CompletedExercise, len(s.workout.Exercises))
	for i, ex := range s.workout.Exercises {
		done := 0
		actualReps := ex.Reps
		actualWeight := ex.Weight
		for setIdx, completed := range s.completedSets[i] {
			if !completed {
				continue
			}
			done++
			if actual := s.actuals[i][setIdx]; actual != nil {
				actualReps = actual.Reps
				actualWeight = actual.Weight
			}
		}
		exercises[i] = domain.CompletedExercise{
			Exercise:     ex,
			ActualSets:   done,
			ActualReps:   actualReps,
			ActualWeight: actualWeight,
			SetResults:   append([]bool{}, s.completedSets[i]...),
		}
	}

	s.result = &domain.CompletedWorkout{
		ID:          uuid.NewString(),
		WorkoutID:   s.workout.ID,
		WorkoutName: s.workout.Name,
		CompletedAt: time.Now().UTC(),
		Exercises:   exercises,
	}
	return s.recorder.RecordCompletion(ctx, *s.result)
}
