package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout("  Leg Day  ", "heavy")
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "Leg Day", w.Name)
	assert.NotNil(t, w.Exercises)
	assert.False(t, w.CreatedAt.IsZero())
}

func TestDuplicate(t *testing.T) {
	w := NewWorkout("Leg Day", "")
	w.Exercises = []Exercise{
		{ID: "e1", Name: "Squat", Sets: 3, Reps: 5, Weight: 100},
		{ID: "e2", Name: "Lunge", Sets: 3, Reps: 10, Weight: 20},
	}

	dup := w.Duplicate()
	assert.Equal(t, "Leg Day"+CopySuffix, dup.Name)
	assert.NotEqual(t, w.ID, dup.ID)
	require.Len(t, dup.Exercises, 2)
	for i, ex := range dup.Exercises {
		assert.NotEqual(t, w.Exercises[i].ID, ex.ID)
		assert.Equal(t, w.Exercises[i].Sets, ex.Sets)
		assert.Equal(t, w.Exercises[i].Reps, ex.Reps)
		assert.Equal(t, w.Exercises[i].Weight, ex.Weight)
	}

	// The copy is independent of the original.
	dup.Exercises[0].Sets = 99
	assert.Equal(t, 3, w.Exercises[0].Sets)
}

func TestCloneIsDeep(t *testing.T) {
	w := NewWorkout("Leg Day", "")
	w.Exercises = []Exercise{{ID: "e1", Name: "Squat", Sets: 3, Reps: 5}}

	c := w.Clone()
	c.Exercises[0].Name = "tampered"
	assert.Equal(t, "Squat", w.Exercises[0].Name)
}

func TestScheduleRemove(t *testing.T) {
	s := NewSchedule()
	s[Monday] = []string{"w1", "w2", "w1"}
	s[Friday] = []string{"w1"}
	s[Sunday] = []string{"w3"}

	s.Remove("w1")
	assert.Equal(t, []string{"w2"}, s[Monday])
	assert.Empty(t, s[Friday])
	assert.Equal(t, []string{"w3"}, s[Sunday])
}

func TestDayIsValid(t *testing.T) {
	for _, day := range AllDays {
		assert.True(t, day.IsValid(), "day %s", day)
	}
	assert.False(t, Day("funday").IsValid())
	assert.False(t, Day("Monday").IsValid(), "day keys are lowercase")
}
