package store

import (
	"context"

	"ironlog/workout-app/internal/domain"
)

// ErrSaveFailed wraps every failed durable write, regardless of backing.
var ErrSaveFailed = StoreError("save failed")

// StoreError helps distinguish persistence errors from business-rule errors.
type StoreError string

func (e StoreError) Error() string {
	return string(e)
}

// Store is the persistence adapter contract consumed by the tracker. It reads
// and writes the root collections to a backing store. Pure data access; no
// business rules beyond basic shape validation on load.
//
// Load methods return the collection's empty default (never nil) when nothing
// is stored, or when the stored data fails shape validation. An error is
// returned only for real I/O failures.
type Store interface {
	LoadWorkouts(ctx context.Context) ([]domain.Workout, error)
	SaveWorkouts(ctx context.Context, workouts []domain.Workout) error

	LoadCompletedWorkouts(ctx context.Context) ([]domain.CompletedWorkout, error)
	SaveCompletedWorkouts(ctx context.Context, completed []domain.CompletedWorkout) error

	LoadSchedule(ctx context.Context) (domain.Schedule, error)
	SaveSchedule(ctx context.Context, schedule domain.Schedule) error

	LoadMeasurements(ctx context.Context) ([]domain.BodyMeasurement, error)
	SaveMeasurements(ctx context.Context, measurements []domain.BodyMeasurement) error
}

// ValidWorkout mirrors the shape check applied to persisted workouts: a
// non-empty name and a present (possibly empty) exercises array.
func ValidWorkout(w domain.Workout) bool {
	return w.Name != "" && w.Exercises != nil
}

// ValidWorkouts reports whether every entry in the collection passes the
// workout shape check.
func ValidWorkouts(workouts []domain.Workout) bool {
	for _, w := range workouts {
		if !ValidWorkout(w) {
			return false
		}
	}
	return true
}
