package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/execution"
	"ironlog/workout-app/internal/tracker"
)

// ExecutionHandler drives guided workout executions over HTTP.
type ExecutionHandler struct {
	manager *execution.Manager
}

// NewExecutionHandler creates a new ExecutionHandler.
func NewExecutionHandler(m *execution.Manager) *ExecutionHandler {
	return &ExecutionHandler{manager: m}
}

// StartExecutionRequest names the workout to execute.
type StartExecutionRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

// CompleteSetRequest optionally carries the actually performed reps/weight of
// the set. An empty body means "as planned".
type CompleteSetRequest struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// SessionResponse is the DTO describing an execution session's state.
type SessionResponse struct {
	ID              string                   `json:"id"`
	WorkoutID       string                   `json:"workoutId"`
	WorkoutName     string                   `json:"workoutName"`
	Phase           execution.Phase          `json:"phase"`
	ExerciseIndex   int                      `json:"exerciseIndex"`
	SetIndex        int                      `json:"setIndex"`
	CurrentExercise *ExerciseResponse        `json:"currentExercise,omitempty"`
	Progress        [][]bool                 `json:"progress"`
	RestSeconds     int                      `json:"restSeconds,omitempty"`
	Result          *domain.CompletedWorkout `json:"result,omitempty"`
}

// TimerResponse is the DTO describing a rest timer's state.
type TimerResponse struct {
	State     execution.TimerState `json:"state"`
	Remaining int                  `json:"remaining"`
}

// MapSessionToResponse converts a session to its response DTO.
func MapSessionToResponse(s *execution.Session) SessionResponse {
	workout := s.Workout()
	exerciseIdx, setIdx := s.Position()
	resp := SessionResponse{
		ID:            s.ID(),
		WorkoutID:     workout.ID,
		WorkoutName:   workout.Name,
		Phase:         s.Phase(),
		ExerciseIndex: exerciseIdx,
		SetIndex:      setIdx,
		Progress:      s.Progress(),
	}
	if ex, ok := s.CurrentExercise(); ok {
		dto := MapExerciseToResponse(ex)
		resp.CurrentExercise = &dto
	}
	if resp.Phase == execution.PhaseResting {
		resp.RestSeconds = s.RestSeconds()
	}
	if result, ok := s.Result(); ok {
		resp.Result = &result
	}
	return resp
}

// StartExecution begins a session for a workout. A workout with zero
// exercises comes back already complete.
// POST /api/v1/execution
func (h *ExecutionHandler) StartExecution(c *gin.Context) {
	var req StartExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	session, err := h.manager.Start(c.Request.Context(), req.WorkoutID)
	if err != nil && !errors.Is(err, tracker.ErrPersistence) {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	respondMutation(c, http.StatusCreated, MapSessionToResponse(session), err)
}

// GetExecution returns the session's current state.
// GET /api/v1/execution/:sessionId
func (h *ExecutionHandler) GetExecution(c *gin.Context) {
	session, err := h.manager.Get(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// CompleteSet marks the current set done, optionally with actuals.
// POST /api/v1/execution/:sessionId/complete-set
func (h *ExecutionHandler) CompleteSet(c *gin.Context) {
	var actual *execution.SetActual
	var req CompleteSetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Reps != nil || req.Weight != nil {
		actual = &execution.SetActual{}
		if req.Reps != nil {
			actual.Reps = *req.Reps
		}
		if req.Weight != nil {
			actual.Weight = *req.Weight
		}
	}

	session, err := h.manager.CompleteSet(c.Request.Context(), c.Param("sessionId"), actual)
	if err != nil && !errors.Is(err, tracker.ErrPersistence) {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	respondMutation(c, http.StatusOK, MapSessionToResponse(session), err)
}

// SkipSet marks the current set as explicitly skipped; never rests.
// POST /api/v1/execution/:sessionId/skip-set
func (h *ExecutionHandler) SkipSet(c *gin.Context) {
	session, err := h.manager.SkipSet(c.Request.Context(), c.Param("sessionId"))
	if err != nil && !errors.Is(err, tracker.ErrPersistence) {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	respondMutation(c, http.StatusOK, MapSessionToResponse(session), err)
}

// Resume dismisses the rest timer and moves to the next set. Dismissal and a
// naturally finished timer behave identically.
// POST /api/v1/execution/:sessionId/resume
func (h *ExecutionHandler) Resume(c *gin.Context) {
	session, err := h.manager.Resume(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// GetTimer returns the running rest timer's state.
// GET /api/v1/execution/:sessionId/timer
func (h *ExecutionHandler) GetTimer(c *gin.Context) {
	timer, err := h.manager.Timer(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, TimerResponse{State: timer.State(), Remaining: timer.Remaining()})
}

// ToggleTimer pauses or resumes the running rest timer.
// POST /api/v1/execution/:sessionId/timer/toggle
func (h *ExecutionHandler) ToggleTimer(c *gin.Context) {
	timer, err := h.manager.Timer(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	state := timer.Toggle()
	c.JSON(http.StatusOK, TimerResponse{State: state, Remaining: timer.Remaining()})
}

// ResetTimer restarts the rest countdown from its configured duration.
// POST /api/v1/execution/:sessionId/timer/reset
func (h *ExecutionHandler) ResetTimer(c *gin.Context) {
	timer, err := h.manager.Timer(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	timer.Reset()
	c.JSON(http.StatusOK, TimerResponse{State: timer.State(), Remaining: timer.Remaining()})
}

// AbandonExecution discards a session mid-way. No partial history record is
// written.
// DELETE /api/v1/execution/:sessionId
func (h *ExecutionHandler) AbandonExecution(c *gin.Context) {
	if err := h.manager.Abandon(c.Param("sessionId")); err != nil {
		abortWithError(c, statusForError(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"abandoned": c.Param("sessionId")})
}
