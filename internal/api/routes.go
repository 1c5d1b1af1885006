package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/config"
	"ironlog/workout-app/internal/execution"
	"ironlog/workout-app/internal/storage"
	"ironlog/workout-app/internal/tracker"
)

// SetupRoutes wires all handlers onto the router. When auth is enabled, every
// route except /ping and /api/v1/auth/login requires a bearer token.
func SetupRoutes(
	router *gin.Engine,
	authCfg config.AuthConfig,
	t *tracker.Tracker,
	manager *execution.Manager,
	backup storage.BackupStorage,
) {
	workoutHandler := NewWorkoutHandler(t)
	scheduleHandler := NewScheduleHandler(t)
	historyHandler := NewHistoryHandler(t)
	executionHandler := NewExecutionHandler(manager)
	exportHandler := NewExportHandler(t, backup)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "ready": t.Ready()})
	})

	apiV1 := router.Group("/api/v1")

	if authCfg.Enabled {
		authHandler := NewAuthHandler(authCfg)
		apiV1.POST("/auth/login", authHandler.Login)
		apiV1.Use(AuthMiddleware(authCfg.JWTSecret))
	}

	// --- Workout Routes ---
	workoutGroup := apiV1.Group("/workouts")
	{
		workoutGroup.GET("", workoutHandler.ListWorkouts)
		workoutGroup.POST("", workoutHandler.CreateWorkout)
		workoutGroup.GET("/:id", workoutHandler.GetWorkout)
		workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
		workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		workoutGroup.POST("/:id/duplicate", workoutHandler.DuplicateWorkout)

		workoutGroup.POST("/:id/exercises", workoutHandler.AddExercise)
		workoutGroup.PUT("/:id/exercises/:exerciseId", workoutHandler.UpdateExercise)
		workoutGroup.DELETE("/:id/exercises/:exerciseId", workoutHandler.RemoveExercise)
		workoutGroup.POST("/:id/exercises/:exerciseId/move", workoutHandler.MoveExercise)
	}

	// --- Schedule Routes ---
	scheduleGroup := apiV1.Group("/schedule")
	{
		scheduleGroup.GET("", scheduleHandler.GetSchedule)
		scheduleGroup.POST("/:day", scheduleHandler.ScheduleWorkout)
		scheduleGroup.DELETE("/:day/:workoutId", scheduleHandler.UnscheduleWorkout)
	}

	// --- History & Measurements ---
	apiV1.GET("/history", historyHandler.ListCompletedWorkouts)
	apiV1.GET("/measurements", historyHandler.ListMeasurements)
	apiV1.POST("/measurements", historyHandler.AddMeasurement)

	// --- Execution Routes ---
	executionGroup := apiV1.Group("/execution")
	{
		executionGroup.POST("", executionHandler.StartExecution)
		executionGroup.GET("/:sessionId", executionHandler.GetExecution)
		executionGroup.POST("/:sessionId/complete-set", executionHandler.CompleteSet)
		executionGroup.POST("/:sessionId/skip-set", executionHandler.SkipSet)
		executionGroup.POST("/:sessionId/resume", executionHandler.Resume)
		executionGroup.GET("/:sessionId/timer", executionHandler.GetTimer)
		executionGroup.POST("/:sessionId/timer/toggle", executionHandler.ToggleTimer)
		executionGroup.POST("/:sessionId/timer/reset", executionHandler.ResetTimer)
		executionGroup.DELETE("/:sessionId", executionHandler.AbandonExecution)
	}

	// --- Export / Import / Backup ---
	apiV1.GET("/export", exportHandler.Export)
	apiV1.POST("/import", exportHandler.Import)
	apiV1.POST("/backup", exportHandler.Backup)
}
