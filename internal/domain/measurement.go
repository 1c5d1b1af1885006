package domain

import "time"

// BodyMeasurement is an independent, append-only timestamped record. It is not
// referenced by workouts or the schedule.
type BodyMeasurement struct {
	ID         string    `json:"id" bson:"_id"`
	Weight     float64   `json:"weight,omitempty" bson:"weight,omitempty"`         // Kilograms.
	BodyFat    float64   `json:"bodyFat,omitempty" bson:"bodyFat,omitempty"`       // Percentage.
	MuscleMass float64   `json:"muscleMass,omitempty" bson:"muscleMass,omitempty"` // Kilograms.
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}
