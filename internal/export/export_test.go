package export

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/store/file"
	"ironlog/workout-app/internal/tracker"
)

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	st, err := file.New(t.TempDir(), nil)
	require.NoError(t, err)
	tr := tracker.New(st, nil)
	require.NoError(t, tr.Initialize(context.Background()))
	return tr
}

func TestExportDocumentShape(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	w, err := tr.AddWorkout(ctx, "Leg Day", "")
	require.NoError(t, err)
	require.NoError(t, tr.ScheduleWorkout(ctx, domain.Monday, w.ID))
	_, err = tr.AddMeasurement(ctx, tracker.MeasurementInput{Weight: 82})
	require.NoError(t, err)

	data, err := Marshal(Export(tr))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"workouts", "completedWorkouts", "schedule", "bodyMeasurements"} {
		assert.Contains(t, raw, key)
	}

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Workouts, 1)
	assert.Equal(t, w.ID, doc.Workouts[0].ID)
	assert.Equal(t, []string{w.ID}, doc.Schedule[domain.Monday])
	assert.Len(t, doc.BodyMeasurements, 1)
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestTracker(t)

	w, err := source.AddWorkout(ctx, "Leg Day", "heavy")
	require.NoError(t, err)
	_, err = source.AddExercise(ctx, w.ID, tracker.ExerciseInput{Name: "Squat", Sets: 3, Reps: 5, Weight: 100})
	require.NoError(t, err)
	require.NoError(t, source.ScheduleWorkout(ctx, domain.Friday, w.ID))

	data, err := Marshal(Export(source))
	require.NoError(t, err)

	target := newTestTracker(t)
	require.NoError(t, Import(ctx, target, data))

	assert.Equal(t, source.Workouts(), target.Workouts())
	assert.Equal(t, source.Schedule(), target.Schedule())
	assert.Equal(t, source.CompletedWorkouts(), target.CompletedWorkouts())
	assert.Equal(t, source.Measurements(), target.Measurements())
}

func TestImportPartialDocumentLeavesRestUntouched(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	w, err := tr.AddWorkout(ctx, "Leg Day", "")
	require.NoError(t, err)
	_, err = tr.AddMeasurement(ctx, tracker.MeasurementInput{Weight: 82})
	require.NoError(t, err)

	// Only a workouts key: the measurement history must survive.
	require.NoError(t, Import(ctx, tr, []byte(`{"workouts":[{"id":"imported","name":"Push Day","exercises":[]}]}`)))

	workouts := tr.Workouts()
	require.Len(t, workouts, 1)
	assert.Equal(t, "imported", workouts[0].ID)
	assert.NotEqual(t, w.ID, workouts[0].ID)
	assert.Len(t, tr.Measurements(), 1)
}

func TestImportRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	w, err := tr.AddWorkout(ctx, "Leg Day", "")
	require.NoError(t, err)

	err = Import(ctx, tr, []byte("{not json"))
	require.ErrorIs(t, err, tracker.ErrValidation)

	// Valid JSON, invalid workout shape: nothing may be replaced.
	err = Import(ctx, tr, []byte(`{"workouts":[{"id":"bad","name":""}]}`))
	require.ErrorIs(t, err, tracker.ErrValidation)

	workouts := tr.Workouts()
	require.Len(t, workouts, 1)
	assert.Equal(t, w.ID, workouts[0].ID)
}

func TestImportNormalizesSchedule(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	require.NoError(t, Import(ctx, tr, []byte(`{"schedule":{"monday":["w1"]}}`)))

	schedule := tr.Schedule()
	assert.Len(t, schedule, len(domain.AllDays))
	assert.Equal(t, []string{"w1"}, schedule[domain.Monday])
}
