package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CopySuffix is appended to a workout's name when it is duplicated.
const CopySuffix = " (Copy)"

// Workout is a named, ordered collection of exercises the user intends to perform.
type Workout struct {
	ID          string     `json:"id" bson:"_id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Exercises   []Exercise `json:"exercises" bson:"exercises"` // Order is meaningful: execution and display order.
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
}

// NewWorkout builds a workout with a fresh id and creation timestamp.
// The name is trimmed; validation happens in the tracker before this is called.
func NewWorkout(name, description string) Workout {
	return Workout{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Exercises:   []Exercise{},
		CreatedAt:   time.Now().UTC(),
	}
}

// Clone returns a deep copy of the workout. The exercises slice is copied so the
// clone is independently mutable.
func (w Workout) Clone() Workout {
	out := w
	out.Exercises = make([]Exercise, len(w.Exercises))
	copy(out.Exercises, w.Exercises)
	return out
}

// Duplicate returns a copy of the workout with a fresh id, a fresh creation
// timestamp, a name marked as a copy, and fresh ids for every exercise so the
// duplicated exercises are never aliased to the originals.
func (w Workout) Duplicate() Workout {
	dup := w.Clone()
	dup.ID = uuid.NewString()
	dup.Name = w.Name + CopySuffix
	dup.CreatedAt = time.Now().UTC()
	for i := range dup.Exercises {
		dup.Exercises[i].ID = uuid.NewString()
	}
	return dup
}

// ExerciseIndex returns the position of the exercise with the given id, or -1.
func (w Workout) ExerciseIndex(exerciseID string) int {
	for i, ex := range w.Exercises {
		if ex.ID == exerciseID {
			return i
		}
	}
	return -1
}
