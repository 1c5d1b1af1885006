package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ironlog/workout-app/internal/export"
	"ironlog/workout-app/internal/storage"
	"ironlog/workout-app/internal/tracker"
)

// ExportHandler serves the full-state export/import boundary and the optional
// S3 backup of export documents.
type ExportHandler struct {
	tracker *tracker.Tracker
	backup  storage.BackupStorage // nil when backup is not configured
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(t *tracker.Tracker, backup storage.BackupStorage) *ExportHandler {
	return &ExportHandler{tracker: t, backup: backup}
}

// Export returns the full state as a single JSON document.
// GET /api/v1/export
func (h *ExportHandler) Export(c *gin.Context) {
	doc := export.Export(h.tracker)
	c.Header("Content-Disposition", `attachment; filename="ironlog-export.json"`)
	c.JSON(http.StatusOK, doc)
}

// Import reads an export document and overwrites the collections whose keys
// are present, leaving the rest untouched.
// POST /api/v1/import
func (h *ExportHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}
	err = export.Import(c.Request.Context(), h.tracker, data)
	respondMutation(c, http.StatusOK, gin.H{"imported": true}, err)
}

// BackupResponse carries the object key and a presigned download URL of a
// stored backup.
type BackupResponse struct {
	Key         string `json:"key"`
	DownloadURL string `json:"downloadUrl"`
}

// Backup uploads the current export document to the configured S3 bucket and
// returns a presigned download URL for it.
// POST /api/v1/backup
func (h *ExportHandler) Backup(c *gin.Context) {
	if h.backup == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Backup storage is not configured")
		return
	}

	data, err := export.Marshal(export.Export(h.tracker))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to encode export document")
		return
	}

	key := fmt.Sprintf("backups/ironlog-%s.json", time.Now().UTC().Format("20060102-150405"))
	if err := h.backup.PutBackup(c.Request.Context(), key, "application/json", data); err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to upload backup: "+err.Error())
		return
	}

	url, err := h.backup.GeneratePresignedDownloadURL(c.Request.Context(), key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Backup stored but presigning failed: "+err.Error())
		return
	}
	c.JSON(http.StatusCreated, BackupResponse{Key: key, DownloadURL: url})
}
