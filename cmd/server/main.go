package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ironlog/workout-app/internal/api"
	"ironlog/workout-app/internal/config"
	"ironlog/workout-app/internal/execution"
	"ironlog/workout-app/internal/storage"
	"ironlog/workout-app/internal/store"
	filestore "ironlog/workout-app/internal/store/file"
	mongostore "ironlog/workout-app/internal/store/mongo"
	"ironlog/workout-app/internal/tracker"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.Info("Starting IronLog server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.WithError(err).Fatal("could not load config")
	}
	logger.WithField("backend", cfg.Storage.Backend).Info("configuration loaded")

	// --- Persistence backend ---
	var st store.Store
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		dbClient, err := mongostore.ConnectDB(cfg.Storage.Mongo.URI)
		if err != nil {
			logger.WithError(err).Fatal("could not connect to MongoDB")
		}
		defer func() {
			logger.Info("disconnecting MongoDB...")
			if err := mongostore.DisconnectDB(dbClient); err != nil {
				logger.WithError(err).Error("failed to disconnect MongoDB")
			}
		}()
		appDB := dbClient.Database(cfg.Storage.Mongo.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongostore.EnsureIndexes(ctx, appDB); err != nil {
				logger.WithError(err).Warn("failed to create indexes")
			}
		}()
		st = mongostore.New(appDB, logger)
	case config.BackendFile:
		fileStore, err := filestore.New(cfg.Storage.DataDir, logger)
		if err != nil {
			logger.WithError(err).Fatal("could not open file storage")
		}
		st = fileStore
	}

	// --- Backup storage (optional) ---
	var backup storage.BackupStorage
	if cfg.Backup.Enabled {
		backup, err = storage.NewS3Storage(cfg.Backup, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to initialize S3 backup storage")
		}
	}

	// --- State manager ---
	t := tracker.New(st, logger)
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := t.Initialize(loadCtx); err != nil {
		// Collections that failed to load already fell back to their empty
		// defaults; startup continues.
		logger.WithError(err).Warn("initial load was partial")
	}
	loadCancel()
	logger.Info("state loaded")

	// --- Execution sessions ---
	manager := execution.NewManager(t, t, logger)

	// --- HTTP surface ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.Auth, t, manager, backup)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.WithField("address", cfg.Server.Address).Info("server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exiting")
}
