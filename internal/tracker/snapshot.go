package tracker

import (
	"context"
	"errors"

	"ironlog/workout-app/internal/domain"
)

// Snapshot is an immutable copy of the tracker's state, emitted to subscribers
// after every successful mutation. Consumers render from snapshots instead of
// reaching into shared state.
type Snapshot struct {
	Workouts          []domain.Workout
	CompletedWorkouts []domain.CompletedWorkout
	Schedule          domain.Schedule
	Measurements      []domain.BodyMeasurement
	Ready             bool
}

// Snapshot returns a deep copy of the full current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Workouts:          cloneWorkouts(t.workouts),
		CompletedWorkouts: append([]domain.CompletedWorkout{}, t.completed...),
		Schedule:          t.schedule.Clone(),
		Measurements:      append([]domain.BodyMeasurement{}, t.measurements...),
		Ready:             t.ready,
	}
}

// Subscribe registers a consumer for state snapshots. The channel holds the
// latest snapshot only: a slow consumer sees the newest state, not a backlog.
// The returned cancel func must be called when the consumer goes away.
func (t *Tracker) Subscribe() (<-chan Snapshot, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan Snapshot, 1)
	t.subs[id] = ch

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(ch)
		}
	}
}

// notifyLocked pushes the current snapshot to every subscriber, replacing an
// unconsumed older snapshot rather than blocking.
func (t *Tracker) notifyLocked() {
	snap := t.snapshotLocked()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// RestoreInput carries imported collections. Nil fields leave the matching
// collection untouched.
type RestoreInput struct {
	Workouts          *[]domain.Workout
	CompletedWorkouts *[]domain.CompletedWorkout
	Schedule          *domain.Schedule
	Measurements      *[]domain.BodyMeasurement
}

// Restore overwrites the collections present in the input and persists each of
// them. Used by the import boundary; collections absent from the import
// document are left as they are.
func (t *Tracker) Restore(ctx context.Context, input RestoreInput) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if input.Workouts != nil {
		t.workouts = cloneWorkouts(*input.Workouts)
		errs = append(errs, t.persistWorkoutsLocked(ctx))
	}
	if input.CompletedWorkouts != nil {
		t.completed = append([]domain.CompletedWorkout{}, *input.CompletedWorkouts...)
		errs = append(errs, t.persistCompletedLocked(ctx))
	}
	if input.Schedule != nil {
		t.schedule = input.Schedule.Clone()
		t.schedule.Normalize()
		errs = append(errs, t.persistScheduleLocked(ctx))
	}
	if input.Measurements != nil {
		t.measurements = append([]domain.BodyMeasurement{}, *input.Measurements...)
		errs = append(errs, t.persistMeasurementsLocked(ctx))
	}
	t.notifyLocked()
	return errors.Join(errs...)
}
