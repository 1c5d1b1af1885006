package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ironlog/workout-app/internal/config"
	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/execution"
	"ironlog/workout-app/internal/store/file"
	"ironlog/workout-app/internal/tracker"
)

func newTestRouter(t *testing.T, authCfg config.AuthConfig) (*gin.Engine, *tracker.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := file.New(t.TempDir(), nil)
	require.NoError(t, err)
	tr := tracker.New(st, nil)
	require.NoError(t, tr.Initialize(context.Background()))
	manager := execution.NewManager(tr, tr, nil)

	router := gin.New()
	SetupRoutes(router, authCfg, tr, manager, nil)
	return router, tr
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func createWorkout(t *testing.T, router *gin.Engine, name string) WorkoutResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workouts", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var workout WorkoutResponse
	decodeData(t, rec, &workout)
	return workout
}

func addExercise(t *testing.T, router *gin.Engine, workoutID string, body gin.H) ExerciseResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workouts/"+workoutID+"/exercises", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var exercise ExerciseResponse
	decodeData(t, rec, &exercise)
	return exercise
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	rec := doJSON(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":true`)
}

func TestWorkoutCRUD(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})

	workout := createWorkout(t, router, "Leg Day")
	assert.NotEmpty(t, workout.ID)
	assert.Equal(t, "Leg Day", workout.Name)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/workouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []WorkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/workouts/"+workout.ID, gin.H{"name": "Leg Day A"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated WorkoutResponse
	decodeData(t, rec, &updated)
	assert.Equal(t, "Leg Day A", updated.Name)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/workouts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/workouts", gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/workouts/"+workout.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/v1/workouts/"+workout.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateWorkoutEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	workout := createWorkout(t, router, "Push Day")
	addExercise(t, router, workout.ID, gin.H{"name": "Bench", "sets": 3, "reps": 8, "weight": 60})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/workouts/"+workout.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var dup WorkoutResponse
	decodeData(t, rec, &dup)
	assert.Equal(t, "Push Day (Copy)", dup.Name)
	assert.NotEqual(t, workout.ID, dup.ID)
	require.Len(t, dup.Exercises, 1)
}

func TestExerciseEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	workout := createWorkout(t, router, "Full Body")

	squat := addExercise(t, router, workout.ID, gin.H{"name": "Squat", "sets": 3, "reps": 5, "weight": 100, "restTime": 120})
	bench := addExercise(t, router, workout.ID, gin.H{"name": "Bench", "sets": 3, "reps": 8})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/workouts/"+workout.ID+"/exercises", gin.H{"name": "Row", "sets": 0, "reps": 8})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "binding rejects zero sets")

	rec = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/workouts/%s/exercises/%s", workout.ID, bench.ID),
		gin.H{"name": "Incline Bench", "sets": 4, "reps": 8})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated ExerciseResponse
	decodeData(t, rec, &updated)
	assert.Equal(t, bench.ID, updated.ID)
	assert.Equal(t, "Incline Bench", updated.Name)

	rec = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/workouts/%s/exercises/%s/move", workout.ID, bench.ID),
		gin.H{"index": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/workouts/"+workout.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got WorkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Exercises, 2)
	assert.Equal(t, bench.ID, got.Exercises[0].ID)
	assert.Equal(t, squat.ID, got.Exercises[1].ID)

	rec = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/workouts/%s/exercises/%s", workout.ID, squat.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	workout := createWorkout(t, router, "Leg Day")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/schedule/monday", gin.H{"workoutId": workout.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var schedule domain.Schedule
	decodeData(t, rec, &schedule)
	assert.Equal(t, []string{workout.ID}, schedule[domain.Monday])

	rec = doJSON(t, router, http.MethodPost, "/api/v1/schedule/funday", gin.H{"workoutId": workout.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/schedule/monday", gin.H{"workoutId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/schedule/monday/"+workout.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &schedule)
	assert.Empty(t, schedule[domain.Monday])
}

func TestMeasurementEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/measurements", gin.H{"weight": 82.5, "notes": "morning"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var measurement domain.BodyMeasurement
	decodeData(t, rec, &measurement)
	assert.NotEmpty(t, measurement.ID)
	assert.Equal(t, 82.5, measurement.Weight)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/measurements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.BodyMeasurement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestExecutionFlow(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	workout := createWorkout(t, router, "Leg Day")
	addExercise(t, router, workout.ID, gin.H{"name": "Squat", "sets": 2, "reps": 5, "weight": 100, "restTime": 90})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/execution", gin.H{"workoutId": workout.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session SessionResponse
	decodeData(t, rec, &session)
	assert.Equal(t, execution.PhaseAwaitingSet, session.Phase)
	require.NotNil(t, session.CurrentExercise)
	assert.Equal(t, "Squat", session.CurrentExercise.Name)

	// Complete the first set with actuals recorded; rest begins.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/execution/"+session.ID+"/complete-set", gin.H{"reps": 4, "weight": 102.5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &session)
	assert.Equal(t, execution.PhaseResting, session.Phase)
	assert.Equal(t, 90, session.RestSeconds)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/execution/"+session.ID+"/timer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var timer TimerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timer))
	assert.Equal(t, execution.TimerRunning, timer.State)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/execution/"+session.ID+"/timer/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timer))
	assert.Equal(t, execution.TimerPaused, timer.State)

	// Dismiss the rest break and finish the workout.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/execution/"+session.ID+"/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, execution.PhaseAwaitingSet, session.Phase)
	assert.Equal(t, 1, session.SetIndex)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/execution/"+session.ID+"/complete-set", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &session)
	assert.Equal(t, execution.PhaseComplete, session.Phase)
	require.NotNil(t, session.Result)
	assert.Equal(t, 2, session.Result.Exercises[0].ActualSets)
	assert.Equal(t, 4, session.Result.Exercises[0].ActualReps)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []domain.CompletedWorkout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, workout.ID, history[0].WorkoutID)
}

func TestAbandonExecutionEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	workout := createWorkout(t, router, "Leg Day")
	addExercise(t, router, workout.ID, gin.H{"name": "Squat", "sets": 2, "reps": 5})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/execution", gin.H{"workoutId": workout.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session SessionResponse
	decodeData(t, rec, &session)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/execution/"+session.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/execution/"+session.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/history", nil)
	var history []domain.CompletedWorkout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history, "abandoning records nothing")
}

func TestExportImportEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	workout := createWorkout(t, router, "Leg Day")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ironlog-export.json")
	exported := rec.Body.Bytes()

	other, otherTracker := newTestRouter(t, config.AuthConfig{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader(exported))
	importRec := httptest.NewRecorder()
	other.ServeHTTP(importRec, req)
	require.Equal(t, http.StatusOK, importRec.Code, importRec.Body.String())

	workouts := otherTracker.Workouts()
	require.Len(t, workouts, 1)
	assert.Equal(t, workout.ID, workouts[0].ID)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/import", gin.H{"workouts": []gin.H{{"id": "bad", "name": ""}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupUnconfigured(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/backup", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	authCfg := config.AuthConfig{
		Enabled:       true,
		PasswordHash:  string(hash),
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
	}
	router, _ := newTestRouter(t, authCfg)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/workouts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{"password": "open sesame"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	authed := httptest.NewRecorder()
	router.ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)

	req.Header.Set("Authorization", "Bearer not-a-token")
	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}
