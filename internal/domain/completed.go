package domain

import "time"

// CompletedWorkout is an immutable historical record of one execution of a
// workout. The workout name and exercises are denormalized snapshots: editing
// or deleting the workout later never changes history.
type CompletedWorkout struct {
	ID          string              `json:"id" bson:"_id"`
	WorkoutID   string              `json:"workoutId" bson:"workoutId"`
	WorkoutName string              `json:"workoutName" bson:"workoutName"`
	CompletedAt time.Time           `json:"completedAt" bson:"completedAt"`
	Exercises   []CompletedExercise `json:"exercises" bson:"exercises"`
}

// CompletedExercise is the planned exercise as configured at completion time,
// augmented with what was actually performed.
type CompletedExercise struct {
	Exercise `bson:",inline"`

	ActualSets   int     `json:"actualSets" bson:"actualSets"` // Sets actually completed (skipped sets excluded).
	ActualReps   int     `json:"actualReps" bson:"actualReps"`
	ActualWeight float64 `json:"actualWeight,omitempty" bson:"actualWeight,omitempty"`
	SetResults   []bool  `json:"setResults" bson:"setResults"` // Per-set completion flags, in set order.
}
