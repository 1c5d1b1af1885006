package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/execution"
	"ironlog/workout-app/internal/tracker"
)

// statusForError maps tracker and execution errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, tracker.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, execution.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, execution.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondMutation writes a mutation result. A persistence failure is NOT a
// failed mutation: the in-memory change applied, so the response still carries
// the payload, with a warning the client is expected to surface.
func respondMutation(c *gin.Context, successStatus int, payload any, err error) {
	if err == nil {
		c.JSON(successStatus, gin.H{"data": payload})
		return
	}
	if errors.Is(err, tracker.ErrPersistence) {
		c.JSON(successStatus, gin.H{"data": payload, "warning": err.Error()})
		return
	}
	abortWithError(c, statusForError(err), err.Error())
}
