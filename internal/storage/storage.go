package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// BackupStorage defines the interface for off-device backup of export
// documents. The actual documents live in object storage; the app only ever
// holds keys and presigned URLs.
type BackupStorage interface {
	// PutBackup uploads an export document under the given object key.
	PutBackup(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading a backup directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteBackup removes a backup object from the storage provider.
	DeleteBackup(ctx context.Context, objectKey string) error
}
