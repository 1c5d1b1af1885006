package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/tracker"
)

// ScheduleHandler holds the tracker dependency for schedule operations.
type ScheduleHandler struct {
	tracker *tracker.Tracker
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(t *tracker.Tracker) *ScheduleHandler {
	return &ScheduleHandler{tracker: t}
}

// ScheduleEntryRequest names the workout to schedule or unschedule on a day.
type ScheduleEntryRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

// GetSchedule returns the full weekly schedule, all seven days present.
// GET /api/v1/schedule
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Schedule())
}

// ScheduleWorkout adds a workout to a day. Scheduling a workout already on
// that day is a no-op.
// POST /api/v1/schedule/:day
func (h *ScheduleHandler) ScheduleWorkout(c *gin.Context) {
	var req ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	day := domain.Day(c.Param("day"))
	err := h.tracker.ScheduleWorkout(c.Request.Context(), day, req.WorkoutID)
	respondMutation(c, http.StatusOK, h.tracker.Schedule(), err)
}

// UnscheduleWorkout removes a workout from a day; a no-op if absent.
// DELETE /api/v1/schedule/:day/:workoutId
func (h *ScheduleHandler) UnscheduleWorkout(c *gin.Context) {
	day := domain.Day(c.Param("day"))
	err := h.tracker.UnscheduleWorkout(c.Request.Context(), day, c.Param("workoutId"))
	respondMutation(c, http.StatusOK, h.tracker.Schedule(), err)
}
