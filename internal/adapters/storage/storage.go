// Package storage provides S3-compatible object storage for lead
// documents through presigned URLs. The service never proxies file
// bytes; clients talk to the object store directly.
package storage

import (
	"context"
	"time"
)

// PresignedURL is a time-limited URL for one upload or download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service is the object storage surface the documents module consumes.
type Service interface {
	// GenerateUploadURL returns a presigned PUT URL. The folder becomes
	// the key prefix (one folder per lead).
	GenerateUploadURL(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)

	// GenerateDownloadURL returns a presigned GET URL for an existing key.
	GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error)

	// DeleteObject removes the object behind a key.
	DeleteObject(ctx context.Context, fileKey string) error

	// EnsureBucket creates the configured bucket when missing.
	EnsureBucket(ctx context.Context) error
}
