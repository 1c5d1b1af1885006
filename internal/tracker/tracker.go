// Package tracker holds the authoritative in-memory state of the application:
// workouts, the weekly schedule, workout history and body measurements. All
// mutations go through it; it loads from the persistence adapter on startup
// and persists the affected collections on every change.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/store"
)

// --- Error Definitions ---
var (
	// ErrValidation means the input fails a data-model invariant. Nothing was
	// mutated.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the operation referenced an id absent from the
	// relevant collection. Nothing was mutated.
	ErrNotFound = errors.New("not found")
	// ErrPersistence means the durable write failed AFTER the in-memory
	// mutation applied. The mutation is not rolled back; the next successful
	// write of the same collection overwrites storage with current memory.
	ErrPersistence = errors.New("persistence failed")
)

// ExerciseInput carries the user-supplied fields for creating or replacing an
// exercise within a workout.
type ExerciseInput struct {
	Name     string
	Sets     int
	Reps     int
	Weight   float64
	Category string
	RestTime int
	Notes    string
}

// WorkoutPatch carries the fields of an update; nil fields are left untouched.
type WorkoutPatch struct {
	Name        *string
	Description *string
}

// MeasurementInput carries the user-supplied fields of a body measurement.
type MeasurementInput struct {
	Weight     float64
	BodyFat    float64
	MuscleMass float64
	Notes      string
}

// Tracker is the single authoritative in-memory store. Mutations apply to
// memory synchronously, then trigger exactly one persistence write per
// affected collection.
type Tracker struct {
	mu     sync.Mutex
	store  store.Store
	logger *logrus.Logger

	workouts     []domain.Workout
	completed    []domain.CompletedWorkout
	schedule     domain.Schedule
	measurements []domain.BodyMeasurement
	ready        bool

	subs    map[int]chan Snapshot
	nextSub int
}

// New creates a tracker over the given persistence adapter. State starts at
// the empty defaults; call Initialize to load what is stored.
func New(st store.Store, logger *logrus.Logger) *Tracker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Tracker{
		store:        st,
		logger:       logger,
		workouts:     []domain.Workout{},
		completed:    []domain.CompletedWorkout{},
		schedule:     domain.NewSchedule(),
		measurements: []domain.BodyMeasurement{},
		subs:         map[int]chan Snapshot{},
	}
}

// Initialize loads all collections from the persistence adapter. A collection
// that fails to load keeps its empty default; partial failure never blocks
// startup. The returned error, if any, reports the failed loads.
func (t *Tracker) Initialize(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error

	if workouts, err := t.store.LoadWorkouts(ctx); err != nil {
		t.logger.WithError(err).Error("loading workouts failed, keeping empty default")
		errs = append(errs, fmt.Errorf("load workouts: %w", err))
	} else {
		t.workouts = workouts
	}

	if completed, err := t.store.LoadCompletedWorkouts(ctx); err != nil {
		t.logger.WithError(err).Error("loading completed workouts failed, keeping empty default")
		errs = append(errs, fmt.Errorf("load completed workouts: %w", err))
	} else {
		t.completed = completed
	}

	if schedule, err := t.store.LoadSchedule(ctx); err != nil {
		t.logger.WithError(err).Error("loading schedule failed, keeping empty default")
		errs = append(errs, fmt.Errorf("load schedule: %w", err))
	} else {
		t.schedule = schedule
	}

	if measurements, err := t.store.LoadMeasurements(ctx); err != nil {
		t.logger.WithError(err).Error("loading measurements failed, keeping empty default")
		errs = append(errs, fmt.Errorf("load measurements: %w", err))
	} else {
		t.measurements = measurements
	}

	t.ready = true
	t.notifyLocked()
	return errors.Join(errs...)
}

// Ready reports whether Initialize has completed.
func (t *Tracker) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready
}

// --- Workouts ---

// AddWorkout validates the name, assigns an id and creation timestamp, appends
// the workout and persists the collection. The created workout is returned
// even when only the durable write failed.
func (t *Tracker) AddWorkout(ctx context.Context, name, description string) (domain.Workout, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Workout{}, fmt.Errorf("%w: workout name must not be empty", ErrValidation)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	workout := domain.NewWorkout(name, description)
	t.workouts = append(t.workouts, workout)
	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return workout.Clone(), err
}

// UpdateWorkout merges the patch into the workout with the given id. The name
// resulting from the merge must be non-empty.
func (t *Tracker) UpdateWorkout(ctx context.Context, id string, patch WorkoutPatch) (domain.Workout, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Workout{}, fmt.Errorf("%w: workout name must not be empty", ErrValidation)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.workoutIndexLocked(id)
	if idx < 0 {
		return domain.Workout{}, fmt.Errorf("%w: workout %s", ErrNotFound, id)
	}
	if patch.Name != nil {
		t.workouts[idx].Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		t.workouts[idx].Description = *patch.Description
	}
	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return t.workouts[idx].Clone(), err
}

// DeleteWorkout removes the workout and prunes its id from every day of the
// schedule, then persists both collections.
func (t *Tracker) DeleteWorkout(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.workoutIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: workout %s", ErrNotFound, id)
	}
	t.workouts = append(t.workouts[:idx], t.workouts[idx+1:]...)
	t.schedule.Remove(id)

	err := errors.Join(t.persistWorkoutsLocked(ctx), t.persistScheduleLocked(ctx))
	t.notifyLocked()
	return err
}

// DuplicateWorkout creates an independent copy of the workout with fresh
// workout and exercise ids and a name marked as a copy.
func (t *Tracker) DuplicateWorkout(ctx context.Context, id string) (domain.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.workoutIndexLocked(id)
	if idx < 0 {
		return domain.Workout{}, fmt.Errorf("%w: workout %s", ErrNotFound, id)
	}
	dup := t.workouts[idx].Duplicate()
	t.workouts = append(t.workouts, dup)
	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return dup.Clone(), err
}

// --- Exercises within a workout ---

func validateExercise(input ExerciseInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: exercise name must not be empty", ErrValidation)
	}
	if input.Sets < 1 {
		return fmt.Errorf("%w: sets must be at least 1", ErrValidation)
	}
	if input.Reps < 1 {
		return fmt.Errorf("%w: reps must be at least 1", ErrValidation)
	}
	if input.Weight < 0 {
		return fmt.Errorf("%w: weight must not be negative", ErrValidation)
	}
	if input.RestTime < 0 {
		return fmt.Errorf("%w: rest time must not be negative", ErrValidation)
	}
	return nil
}

// AddExercise appends an exercise to the workout's ordered list.
func (t *Tracker) AddExercise(ctx context.Context, workoutID string, input ExerciseInput) (domain.Exercise, error) {
	if err := validateExercise(input); err != nil {
		return domain.Exercise{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.workoutIndexLocked(workoutID)
	if idx < 0 {
		return domain.Exercise{}, fmt.Errorf("%w: workout %s", ErrNotFound, workoutID)
	}
	exercise := domain.Exercise{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		Sets:     input.Sets,
		Reps:     input.Reps,
		Weight:   input.Weight,
		Category: input.Category,
		RestTime: input.RestTime,
		Notes:    input.Notes,
	}
	t.workouts[idx].Exercises = append(t.workouts[idx].Exercises, exercise)
	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return exercise, err
}

// UpdateExercise replaces the configured fields of an exercise, keeping its id
// and position.
func (t *Tracker) UpdateExercise(ctx context.Context, workoutID, exerciseID string, input ExerciseInput) (domain.Exercise, error) {
	if err := validateExercise(input); err != nil {
		return domain.Exercise{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wIdx := t.workoutIndexLocked(workoutID)
	if wIdx < 0 {
		return domain.Exercise{}, fmt.Errorf("%w: workout %s", ErrNotFound, workoutID)
	}
	eIdx := t.workouts[wIdx].ExerciseIndex(exerciseID)
	if eIdx < 0 {
		return domain.Exercise{}, fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	exercise := &t.workouts[wIdx].Exercises[eIdx]
	exercise.Name = strings.TrimSpace(input.Name)
	exercise.Sets = input.Sets
	exercise.Reps = input.Reps
	exercise.Weight = input.Weight
	exercise.Category = input.Category
	exercise.RestTime = input.RestTime
	exercise.Notes = input.Notes

	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return *exercise, err
}

// RemoveExercise deletes an exercise, preserving the order of the rest.
func (t *Tracker) RemoveExercise(ctx context.Context, workoutID, exerciseID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	wIdx := t.workoutIndexLocked(workoutID)
	if wIdx < 0 {
		return fmt.Errorf("%w: workout %s", ErrNotFound, workoutID)
	}
	eIdx := t.workouts[wIdx].ExerciseIndex(exerciseID)
	if eIdx < 0 {
		return fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	exercises := t.workouts[wIdx].Exercises
	t.workouts[wIdx].Exercises = append(exercises[:eIdx], exercises[eIdx+1:]...)

	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return err
}

// MoveExercise moves an exercise to a new position in the workout's order.
// Positions out of range are clamped.
func (t *Tracker) MoveExercise(ctx context.Context, workoutID, exerciseID string, newIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	wIdx := t.workoutIndexLocked(workoutID)
	if wIdx < 0 {
		return fmt.Errorf("%w: workout %s", ErrNotFound, workoutID)
	}
	eIdx := t.workouts[wIdx].ExerciseIndex(exerciseID)
	if eIdx < 0 {
		return fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID)
	}
	exercises := t.workouts[wIdx].Exercises
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(exercises)-1 {
		newIndex = len(exercises) - 1
	}
	moved := exercises[eIdx]
	exercises = append(exercises[:eIdx], exercises[eIdx+1:]...)
	exercises = append(exercises[:newIndex], append([]domain.Exercise{moved}, exercises[newIndex:]...)...)
	t.workouts[wIdx].Exercises = exercises

	err := t.persistWorkoutsLocked(ctx)
	t.notifyLocked()
	return err
}

// --- Schedule ---

// ScheduleWorkout appends the workout to the day's sequence. Scheduling an
// already-scheduled workout on the same day is a no-op.
func (t *Tracker) ScheduleWorkout(ctx context.Context, day domain.Day, workoutID string) error {
	if !day.IsValid() {
		return fmt.Errorf("%w: unknown day %q", ErrValidation, day)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.workoutIndexLocked(workoutID) < 0 {
		return fmt.Errorf("%w: workout %s", ErrNotFound, workoutID)
	}
	if t.schedule.Contains(day, workoutID) {
		return nil
	}
	t.schedule[day] = append(t.schedule[day], workoutID)

	err := t.persistScheduleLocked(ctx)
	t.notifyLocked()
	return err
}

// UnscheduleWorkout removes the workout from the day's sequence; a no-op if it
// was not scheduled there.
func (t *Tracker) UnscheduleWorkout(ctx context.Context, day domain.Day, workoutID string) error {
	if !day.IsValid() {
		return fmt.Errorf("%w: unknown day %q", ErrValidation, day)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.schedule.Contains(day, workoutID) {
		return nil
	}
	kept := t.schedule[day][:0]
	for _, id := range t.schedule[day] {
		if id != workoutID {
			kept = append(kept, id)
		}
	}
	t.schedule[day] = kept

	err := t.persistScheduleLocked(ctx)
	t.notifyLocked()
	return err
}

// --- History ---

// RecordCompletion appends a completed-workout record to the history. History
// is append-only; existing entries are never mutated or removed.
func (t *Tracker) RecordCompletion(ctx context.Context, completed domain.CompletedWorkout) error {
	if completed.ID == "" {
		completed.ID = uuid.NewString()
	}
	if completed.CompletedAt.IsZero() {
		completed.CompletedAt = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed = append(t.completed, completed)
	err := t.persistCompletedLocked(ctx)
	t.notifyLocked()
	return err
}

// --- Body measurements ---

// AddMeasurement appends a body measurement to the history.
func (t *Tracker) AddMeasurement(ctx context.Context, input MeasurementInput) (domain.BodyMeasurement, error) {
	if input.Weight < 0 || input.BodyFat < 0 || input.MuscleMass < 0 {
		return domain.BodyMeasurement{}, fmt.Errorf("%w: measurement values must not be negative", ErrValidation)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	measurement := domain.BodyMeasurement{
		ID:         uuid.NewString(),
		Weight:     input.Weight,
		BodyFat:    input.BodyFat,
		MuscleMass: input.MuscleMass,
		Notes:      input.Notes,
		RecordedAt: time.Now().UTC(),
	}
	t.measurements = append(t.measurements, measurement)
	err := t.persistMeasurementsLocked(ctx)
	t.notifyLocked()
	return measurement, err
}

// --- Reads ---

// Workouts returns a deep copy of the workout collection.
func (t *Tracker) Workouts() []domain.Workout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneWorkouts(t.workouts)
}

// WorkoutByID returns a deep copy of one workout.
func (t *Tracker) WorkoutByID(id string) (domain.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.workoutIndexLocked(id)
	if idx < 0 {
		return domain.Workout{}, fmt.Errorf("%w: workout %s", ErrNotFound, id)
	}
	return t.workouts[idx].Clone(), nil
}

// CompletedWorkouts returns a copy of the history, oldest first.
func (t *Tracker) CompletedWorkouts() []domain.CompletedWorkout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.CompletedWorkout{}, t.completed...)
}

// Schedule returns a deep copy of the weekly schedule.
func (t *Tracker) Schedule() domain.Schedule {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.schedule.Clone()
}

// Measurements returns a copy of the body-measurement history, oldest first.
func (t *Tracker) Measurements() []domain.BodyMeasurement {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.BodyMeasurement{}, t.measurements...)
}

// --- Internals ---

func (t *Tracker) workoutIndexLocked(id string) int {
	for i, w := range t.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func cloneWorkouts(workouts []domain.Workout) []domain.Workout {
	out := make([]domain.Workout, len(workouts))
	for i, w := range workouts {
		out[i] = w.Clone()
	}
	return out
}

func (t *Tracker) persistWorkoutsLocked(ctx context.Context) error {
	if err := t.store.SaveWorkouts(ctx, t.workouts); err != nil {
		t.logger.WithError(err).Error("saving workouts failed, in-memory state kept")
		return fmt.Errorf("%w: save workouts: %v", ErrPersistence, err)
	}
	return nil
}

func (t *Tracker) persistCompletedLocked(ctx context.Context) error {
	if err := t.store.SaveCompletedWorkouts(ctx, t.completed); err != nil {
		t.logger.WithError(err).Error("saving completed workouts failed, in-memory state kept")
		return fmt.Errorf("%w: save completed workouts: %v", ErrPersistence, err)
	}
	return nil
}

func (t *Tracker) persistScheduleLocked(ctx context.Context) error {
	if err := t.store.SaveSchedule(ctx, t.schedule); err != nil {
		t.logger.WithError(err).Error("saving schedule failed, in-memory state kept")
		return fmt.Errorf("%w: save schedule: %v", ErrPersistence, err)
	}
	return nil
}

func (t *Tracker) persistMeasurementsLocked(ctx context.Context) error {
	if err := t.store.SaveMeasurements(ctx, t.measurements); err != nil {
		t.logger.WithError(err).Error("saving measurements failed, in-memory state kept")
		return fmt.Errorf("%w: save measurements: %v", ErrPersistence, err)
	}
	return nil
}
