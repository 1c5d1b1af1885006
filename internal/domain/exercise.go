package domain

// Exercise is one movement entry within a workout, with target sets/reps/weight.
type Exercise struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Sets     int     `json:"sets" bson:"sets"` // Always >= 1.
	Reps     int     `json:"reps" bson:"reps"` // Always >= 1.
	Weight   float64 `json:"weight,omitempty" bson:"weight,omitempty"`     // Kilograms; >= 0 when present.
	Category string  `json:"category,omitempty" bson:"category,omitempty"` // e.g. "Chest", "Legs", "Back"
	RestTime int     `json:"restTime,omitempty" bson:"restTime,omitempty"` // Default rest duration after a set, in seconds.
	Notes    string  `json:"notes,omitempty" bson:"notes,omitempty"`
}
