// Package file implements the persistence adapter on local on-device storage:
// one JSON document per collection, under a fixed key, in a data directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/store"
)

// Fixed storage keys, one per collection.
const (
	KeyWorkouts          = "workouts"
	KeyCompletedWorkouts = "completedWorkouts"
	KeySchedule          = "schedule"
	KeyMeasurements      = "bodyMeasurementsHistory"
)

// Store persists each collection as <dataDir>/<key>.json.
type Store struct {
	dataDir string
	logger  *logrus.Logger
}

// New creates a file-backed store rooted at dataDir, creating the directory if
// needed.
func New(dataDir string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{dataDir: dataDir, logger: logger}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dataDir, key+".json")
}

// read decodes the JSON document stored under key into v. It reports absent as
// (false, nil) so callers can substitute the collection default.
func (s *Store) read(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt storage for one collection must not block startup; the
		// caller falls back to the empty default for this collection only.
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).
			Warn("stored data is corrupt, falling back to default")
		return false, nil
	}
	return true, nil
}

// write atomically replaces the JSON document stored under key. The temp file
// plus rename keeps a crashed write from half-overwriting the collection.
func (s *Store) write(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", store.ErrSaveFailed, key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", store.ErrSaveFailed, key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("%w: replace %s: %v", store.ErrSaveFailed, key, err)
	}
	return nil
}

func (s *Store) LoadWorkouts(ctx context.Context) ([]domain.Workout, error) {
	var workouts []domain.Workout
	ok, err := s.read(KeyWorkouts, &workouts)
	if err != nil {
		return nil, err
	}
	if !ok || !store.ValidWorkouts(workouts) {
		if ok {
			s.logger.Warn("stored workouts failed shape validation, falling back to default")
		}
		return []domain.Workout{}, nil
	}
	return workouts, nil
}

func (s *Store) SaveWorkouts(ctx context.Context, workouts []domain.Workout) error {
	return s.write(KeyWorkouts, workouts)
}

func (s *Store) LoadCompletedWorkouts(ctx context.Context) ([]domain.CompletedWorkout, error) {
	var completed []domain.CompletedWorkout
	ok, err := s.read(KeyCompletedWorkouts, &completed)
	if err != nil {
		return nil, err
	}
	if !ok || completed == nil {
		return []domain.CompletedWorkout{}, nil
	}
	return completed, nil
}

func (s *Store) SaveCompletedWorkouts(ctx context.Context, completed []domain.CompletedWorkout) error {
	return s.write(KeyCompletedWorkouts, completed)
}

func (s *Store) LoadSchedule(ctx context.Context) (domain.Schedule, error) {
	var schedule domain.Schedule
	ok, err := s.read(KeySchedule, &schedule)
	if err != nil {
		return nil, err
	}
	if !ok || schedule == nil {
		return domain.NewSchedule(), nil
	}
	// Every one of the seven day keys must be present after a load.
	schedule.Normalize()
	return schedule, nil
}

func (s *Store) SaveSchedule(ctx context.Context, schedule domain.Schedule) error {
	return s.write(KeySchedule, schedule)
}

func (s *Store) LoadMeasurements(ctx context.Context) ([]domain.BodyMeasurement, error) {
	var measurements []domain.BodyMeasurement
	ok, err := s.read(KeyMeasurements, &measurements)
	if err != nil {
		return nil, err
	}
	if !ok || measurements == nil {
		return []domain.BodyMeasurement{}, nil
	}
	return measurements, nil
}

func (s *Store) SaveMeasurements(ctx context.Context, measurements []domain.BodyMeasurement) error {
	return s.write(KeyMeasurements, measurements)
}
