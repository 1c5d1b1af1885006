// Package export implements the full-state export/import boundary: a single
// JSON document carrying all collections, suitable for download, restore and
// remote backup.
package export

import (
	"context"
	"encoding/json"
	"fmt"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/store"
	"ironlog/workout-app/internal/tracker"
)

// Document is the full-state export shape.
type Document struct {
	Workouts          []domain.Workout          `json:"workouts"`
	CompletedWorkouts []domain.CompletedWorkout `json:"completedWorkouts"`
	Schedule          domain.Schedule           `json:"schedule"`
	BodyMeasurements  []domain.BodyMeasurement  `json:"bodyMeasurements"`
}

// partialDocument mirrors Document with pointer fields so an import can tell
// an absent key from an empty collection. Absent keys are left untouched.
type partialDocument struct {
	Workouts          *[]domain.Workout          `json:"workouts"`
	CompletedWorkouts *[]domain.CompletedWorkout `json:"completedWorkouts"`
	Schedule          *domain.Schedule           `json:"schedule"`
	BodyMeasurements  *[]domain.BodyMeasurement  `json:"bodyMeasurements"`
}

// Export captures the tracker's current state as an export document.
func Export(t *tracker.Tracker) Document {
	snap := t.Snapshot()
	return Document{
		Workouts:          snap.Workouts,
		CompletedWorkouts: snap.CompletedWorkouts,
		Schedule:          snap.Schedule,
		BodyMeasurements:  snap.Measurements,
	}
}

// Marshal encodes a document the way the export file is written.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Import parses an export document and overwrites the collections whose keys
// are present, leaving the rest of the state untouched.
func Import(ctx context.Context, t *tracker.Tracker, data []byte) error {
	var doc partialDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: parse import document: %v", tracker.ErrValidation, err)
	}
	if doc.Workouts != nil && !store.ValidWorkouts(*doc.Workouts) {
		return fmt.Errorf("%w: imported workouts failed shape validation", tracker.ErrValidation)
	}
	return t.Restore(ctx, tracker.RestoreInput{
		Workouts:          doc.Workouts,
		CompletedWorkouts: doc.CompletedWorkouts,
		Schedule:          doc.Schedule,
		Measurements:      doc.BodyMeasurements,
	})
}
