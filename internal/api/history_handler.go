package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/tracker"
)

// HistoryHandler serves the append-only histories: completed workouts and body
// measurements.
type HistoryHandler struct {
	tracker *tracker.Tracker
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(t *tracker.Tracker) *HistoryHandler {
	return &HistoryHandler{tracker: t}
}

// MeasurementRequest defines the expected JSON for recording a measurement.
type MeasurementRequest struct {
	Weight     float64 `json:"weight" binding:"omitempty,gte=0"`
	BodyFat    float64 `json:"bodyFat" binding:"omitempty,gte=0"`
	MuscleMass float64 `json:"muscleMass" binding:"omitempty,gte=0"`
	Notes      string  `json:"notes"`
}

// ListCompletedWorkouts returns the workout history, oldest first.
// GET /api/v1/history
func (h *HistoryHandler) ListCompletedWorkouts(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.CompletedWorkouts())
}

// ListMeasurements returns the measurement history, oldest first.
// GET /api/v1/measurements
func (h *HistoryHandler) ListMeasurements(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Measurements())
}

// AddMeasurement records a new body measurement.
// POST /api/v1/measurements
func (h *HistoryHandler) AddMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	measurement, err := h.tracker.AddMeasurement(c.Request.Context(), tracker.MeasurementInput{
		Weight:     req.Weight,
		BodyFat:    req.BodyFat,
		MuscleMass: req.MuscleMass,
		Notes:      req.Notes,
	})
	respondMutation(c, http.StatusCreated, measurement, err)
}
