package domain

// Day is one of the seven fixed day-of-week keys used by the schedule.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// AllDays lists the schedule keys in display order.
var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IsValid reports whether d is one of the seven fixed day keys.
func (d Day) IsValid() bool {
	for _, day := range AllDays {
		if d == day {
			return true
		}
	}
	return false
}

// Schedule maps each day of the week to an ordered sequence of workout ids.
// Every one of the seven day keys is always present.
type Schedule map[Day][]string

// NewSchedule returns a schedule with all seven days present and empty.
func NewSchedule() Schedule {
	s := make(Schedule, len(AllDays))
	for _, day := range AllDays {
		s[day] = []string{}
	}
	return s
}

// Normalize fills in any missing day keys with empty sequences. Loaded or
// imported schedules pass through here so consumers can index days directly.
func (s Schedule) Normalize() {
	for _, day := range AllDays {
		if s[day] == nil {
			s[day] = []string{}
		}
	}
}

// Contains reports whether workoutID is scheduled on the given day.
func (s Schedule) Contains(day Day, workoutID string) bool {
	for _, id := range s[day] {
		if id == workoutID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for day, ids := range s {
		out[day] = append([]string{}, ids...)
	}
	return out
}

// Remove deletes workoutID from every day's sequence, preserving order of the
// remaining entries. Used for referential cleanup when a workout is deleted.
func (s Schedule) Remove(workoutID string) {
	for day, ids := range s {
		kept := ids[:0]
		for _, id := range ids {
			if id != workoutID {
				kept = append(kept, id)
			}
		}
		s[day] = kept
	}
}
