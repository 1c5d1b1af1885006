package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/tracker"
)

// WorkoutHandler holds the tracker dependency for workout CRUD.
type WorkoutHandler struct {
	tracker *tracker.Tracker
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(t *tracker.Tracker) *WorkoutHandler {
	return &WorkoutHandler{tracker: t}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateWorkoutRequest defines the expected JSON for creating a workout.
type CreateWorkoutRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateWorkoutRequest carries a partial update; absent fields stay untouched.
type UpdateWorkoutRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ExerciseRequest defines the expected JSON for creating or replacing an
// exercise within a workout.
type ExerciseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Sets     int     `json:"sets" binding:"required,min=1"`
	Reps     int     `json:"reps" binding:"required,min=1"`
	Weight   float64 `json:"weight" binding:"omitempty,gte=0"`
	Category string  `json:"category"`
	RestTime int     `json:"restTime" binding:"omitempty,gte=0"`
	Notes    string  `json:"notes"`
}

// MoveExerciseRequest defines the target position of an exercise move.
type MoveExerciseRequest struct {
	Index *int `json:"index" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight,omitempty"`
	Category string  `json:"category,omitempty"`
	RestTime int     `json:"restTime,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Exercises   []ExerciseResponse `json:"exercises"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:       ex.ID,
		Name:     ex.Name,
		Sets:     ex.Sets,
		Reps:     ex.Reps,
		Weight:   ex.Weight,
		Category: ex.Category,
		RestTime: ex.RestTime,
		Notes:    ex.Notes,
	}
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w domain.Workout) WorkoutResponse {
	exercises := make([]ExerciseResponse, len(w.Exercises))
	for i, ex := range w.Exercises {
		exercises[i] = MapExerciseToResponse(ex)
	}
	return WorkoutResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Exercises:   exercises,
		CreatedAt:   w.CreatedAt,
	}
}

// MapWorkoutsToResponse converts a slice of domain.Workout to response DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i, w := range workouts {
		responses[i] = MapWorkoutToResponse(w)
	}
	return responses
}

// --- Handler Methods ---

// ListWorkouts returns all workouts.
// GET /api/v1/workouts
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	c.JSON(http.StatusOK, MapWorkoutsToResponse(h.tracker.Workouts()))
}

// GetWorkout returns a single workout by id.
// GET /api/v1/workouts/:id
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workout, err := h.tracker.WorkoutByID(c.Param("id"))
	if err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CreateWorkout creates a new workout.
// POST /api/v1/workouts
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	workout, err := h.tracker.AddWorkout(c.Request.Context(), req.Name, req.Description)
	respondMutation(c, http.StatusCreated, MapWorkoutToResponse(workout), err)
}

// UpdateWorkout merges a patch into an existing workout.
// PUT /api/v1/workouts/:id
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	workout, err := h.tracker.UpdateWorkout(c.Request.Context(), c.Param("id"), tracker.WorkoutPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	respondMutation(c, http.StatusOK, MapWorkoutToResponse(workout), err)
}

// DeleteWorkout removes a workout and prunes it from the schedule.
// DELETE /api/v1/workouts/:id
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	err := h.tracker.DeleteWorkout(c.Request.Context(), c.Param("id"))
	respondMutation(c, http.StatusOK, gin.H{"deleted": c.Param("id")}, err)
}

// DuplicateWorkout creates an independent copy of a workout.
// POST /api/v1/workouts/:id/duplicate
func (h *WorkoutHandler) DuplicateWorkout(c *gin.Context) {
	workout, err := h.tracker.DuplicateWorkout(c.Request.Context(), c.Param("id"))
	respondMutation(c, http.StatusCreated, MapWorkoutToResponse(workout), err)
}

// AddExercise appends an exercise to a workout.
// POST /api/v1/workouts/:id/exercises
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	exercise, err := h.tracker.AddExercise(c.Request.Context(), c.Param("id"), exerciseInput(req))
	respondMutation(c, http.StatusCreated, MapExerciseToResponse(exercise), err)
}

// UpdateExercise replaces the configured fields of an exercise.
// PUT /api/v1/workouts/:id/exercises/:exerciseId
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	exercise, err := h.tracker.UpdateExercise(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), exerciseInput(req))
	respondMutation(c, http.StatusOK, MapExerciseToResponse(exercise), err)
}

// RemoveExercise deletes an exercise from a workout.
// DELETE /api/v1/workouts/:id/exercises/:exerciseId
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	err := h.tracker.RemoveExercise(c.Request.Context(), c.Param("id"), c.Param("exerciseId"))
	respondMutation(c, http.StatusOK, gin.H{"deleted": c.Param("exerciseId")}, err)
}

// MoveExercise changes an exercise's position within a workout.
// POST /api/v1/workouts/:id/exercises/:exerciseId/move
func (h *WorkoutHandler) MoveExercise(c *gin.Context) {
	var req MoveExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	err := h.tracker.MoveExercise(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), *req.Index)
	respondMutation(c, http.StatusOK, gin.H{"moved": c.Param("exerciseId")}, err)
}

func exerciseInput(req ExerciseRequest) tracker.ExerciseInput {
	return tracker.ExerciseInput{
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		Weight:   req.Weight,
		Category: req.Category,
		RestTime: req.RestTime,
		Notes:    req.Notes,
	}
}
