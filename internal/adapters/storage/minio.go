package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wholesale_crm_backend/platform/config"
)

// presignedURLTTL bounds how long an issued URL stays usable.
const presignedURLTTL = 15 * time.Minute

// allowedContentTypes lists what a lead file can be: photos of the
// property, contracts, title work, spreadsheets.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,

	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
}

// MinIOService implements Service against a MinIO/S3 endpoint.
type MinIOService struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	return &MinIOService{
		client:      client,
		bucket:      cfg.GetMinioBucketLeadDocuments(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

func (s *MinIOService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinIOService) GenerateUploadURL(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := s.validateContentType(contentType); err != nil {
		return nil, err
	}
	if err := s.validateFileSize(sizeBytes); err != nil {
		return nil, err
	}

	// Key gets a UUID fragment so same-named uploads never collide.
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(path.Base(fileName), ext)
	fileKey := path.Join(folder, fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext))

	expiresAt := time.Now().Add(presignedURLTTL)
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, fileKey, presignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload for %s: %w", fileKey, err)
	}

	return &PresignedURL{URL: presigned.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

func (s *MinIOService) GenerateDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(presignedURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, presignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign download for %s: %w", fileKey, err)
	}
	return &PresignedURL{URL: presigned.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

func (s *MinIOService) DeleteObject(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", fileKey, err)
	}
	return nil
}

func (s *MinIOService) validateContentType(contentType string) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !allowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func (s *MinIOService) validateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}

var _ Service = (*MinIOService)(nil)
