// Package mongo implements the persistence adapter on a remote MongoDB
// database. Workouts, completed workouts and measurements are one document per
// record; the schedule is a singleton document. The adapter presents the same
// whole-collection shape to the tracker as the local file backing.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/store"
)

const (
	workoutCollectionName     = "workouts"
	completedCollectionName   = "completed_workouts"
	scheduleCollectionName    = "schedule"
	measurementCollectionName = "body_measurements"

	// The schedule collection holds exactly one document.
	scheduleDocID = "schedule"
)

// scheduleDoc is the singleton wrapper stored in the schedule collection.
type scheduleDoc struct {
	ID   string          `bson:"_id"`
	Days domain.Schedule `bson:"days"`
}

// Store implements store.Store against a MongoDB database.
type Store struct {
	workouts     *mongo.Collection
	completed    *mongo.Collection
	schedule     *mongo.Collection
	measurements *mongo.Collection
	logger       *logrus.Logger
}

// New creates a Mongo-backed store over the given database.
func New(db *mongo.Database, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		workouts:     db.Collection(workoutCollectionName),
		completed:    db.Collection(completedCollectionName),
		schedule:     db.Collection(scheduleCollectionName),
		measurements: db.Collection(measurementCollectionName),
		logger:       logger,
	}
}

// EnsureIndexes creates the collection indexes. Call during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(completedCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "completedAt", Value: -1}},
		Options: options.Index(),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(measurementCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "recordedAt", Value: -1}},
		Options: options.Index(),
	})
	return err
}

// loadAll decodes every document of a collection into out (a *[]T).
func loadAll(ctx context.Context, coll *mongo.Collection, sort bson.D, out any) error {
	findOptions := options.Find()
	if sort != nil {
		findOptions.SetSort(sort)
	}
	cursor, err := coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// replaceAll overwrites a collection with the given documents. The tracker is
// the single writer, so the delete-then-insert pair is not racing anyone.
func replaceAll[T any](ctx context.Context, coll *mongo.Collection, docs []T) error {
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: clear %s: %v", store.ErrSaveFailed, coll.Name(), err)
	}
	if len(docs) == 0 {
		return nil
	}
	items := make([]any, len(docs))
	for i, d := range docs {
		items[i] = d
	}
	if _, err := coll.InsertMany(ctx, items); err != nil {
		return fmt.Errorf("%w: insert %s: %v", store.ErrSaveFailed, coll.Name(), err)
	}
	return nil
}

func (s *Store) LoadWorkouts(ctx context.Context) ([]domain.Workout, error) {
	var workouts []domain.Workout
	if err := loadAll(ctx, s.workouts, bson.D{{Key: "createdAt", Value: 1}}, &workouts); err != nil {
		return nil, err
	}
	if workouts == nil || !store.ValidWorkouts(workouts) {
		if workouts != nil {
			s.logger.Warn("stored workouts failed shape validation, falling back to default")
		}
		return []domain.Workout{}, nil
	}
	return workouts, nil
}

func (s *Store) SaveWorkouts(ctx context.Context, workouts []domain.Workout) error {
	return replaceAll(ctx, s.workouts, workouts)
}

func (s *Store) LoadCompletedWorkouts(ctx context.Context) ([]domain.CompletedWorkout, error) {
	var completed []domain.CompletedWorkout
	if err := loadAll(ctx, s.completed, bson.D{{Key: "completedAt", Value: 1}}, &completed); err != nil {
		return nil, err
	}
	if completed == nil {
		return []domain.CompletedWorkout{}, nil
	}
	return completed, nil
}

func (s *Store) SaveCompletedWorkouts(ctx context.Context, completed []domain.CompletedWorkout) error {
	return replaceAll(ctx, s.completed, completed)
}

func (s *Store) LoadSchedule(ctx context.Context) (domain.Schedule, error) {
	var doc scheduleDoc
	err := s.schedule.FindOne(ctx, bson.M{"_id": scheduleDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.NewSchedule(), nil
		}
		return nil, err
	}
	if doc.Days == nil {
		return domain.NewSchedule(), nil
	}
	doc.Days.Normalize()
	return doc.Days, nil
}

func (s *Store) SaveSchedule(ctx context.Context, schedule domain.Schedule) error {
	_, err := s.schedule.ReplaceOne(ctx,
		bson.M{"_id": scheduleDocID},
		scheduleDoc{ID: scheduleDocID, Days: schedule},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: replace schedule: %v", store.ErrSaveFailed, err)
	}
	return nil
}

func (s *Store) LoadMeasurements(ctx context.Context) ([]domain.BodyMeasurement, error) {
	var measurements []domain.BodyMeasurement
	if err := loadAll(ctx, s.measurements, bson.D{{Key: "recordedAt", Value: 1}}, &measurements); err != nil {
		return nil, err
	}
	if measurements == nil {
		return []domain.BodyMeasurement{}, nil
	}
	return measurements, nil
}

func (s *Store) SaveMeasurements(ctx context.Context, measurements []domain.BodyMeasurement) error {
	return replaceAll(ctx, s.measurements, measurements)
}
