package service

import (
	"context"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/adapters/storage"
	"wholesale_crm_backend/internal/documents/repository"
	"wholesale_crm_backend/internal/documents/transport"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
)

// DocumentStore is the repository surface the service uses.
type DocumentStore interface {
	Create(ctx context.Context, params repository.CreateDocumentParams) (repository.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (repository.Document, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]repository.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo    DocumentStore
	storage storage.Service
	log     *logger.Logger
}

func New(repo DocumentStore, store storage.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: store, log: log}
}

// RequestUpload presigns a PUT URL and records the document row. The
// client uploads directly to object storage afterwards.
func (s *Service) RequestUpload(ctx context.Context, leadID uuid.UUID, req transport.RequestUploadRequest, actor uuid.UUID) (*transport.UploadURLResponse, error) {
	if s.storage == nil {
		return nil, apperr.Internal("document storage is not configured")
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, leadID.String(), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	doc, err := s.repo.Create(ctx, repository.CreateDocumentParams{
		LeadID:      leadID,
		FileName:    req.FileName,
		FileKey:     presigned.FileKey,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  actor,
	})
	if err != nil {
		appErr := apperr.Internal("failed to record document").WithOp("documents.RequestUpload")
		appErr.Err = err
		return nil, appErr
	}

	return &transport.UploadURLResponse{
		Document:  transport.FromRow(doc),
		UploadURL: presigned.URL,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (*transport.DownloadURLResponse, error) {
	if s.storage == nil {
		return nil, apperr.Internal("document storage is not configured")
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, doc.FileKey)
	if err != nil {
		appErr := apperr.Internal("failed to presign download").WithOp("documents.DownloadURL")
		appErr.Err = err
		return nil, appErr
	}

	return &transport.DownloadURLResponse{
		DownloadURL: presigned.URL,
		FileName:    doc.FileName,
		ExpiresAt:   presigned.ExpiresAt,
	}, nil
}

func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) (*transport.DocumentListResponse, error) {
	docs, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		appErr := apperr.Internal("failed to list documents").WithOp("documents.ListByLead")
		appErr.Err = err
		return nil, appErr
	}

	items := make([]transport.DocumentResponse, len(docs))
	for i, doc := range docs {
		items[i] = transport.FromRow(doc)
	}
	return &transport.DocumentListResponse{Items: items, Total: len(items)}, nil
}

// Delete removes the row first, then the object. An orphaned object is
// preferable to a row pointing at nothing.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.DeleteObject(ctx, doc.FileKey); err != nil {
			s.log.Warn("deleting stored object failed",
				"file_key", doc.FileKey,
				"error", err.Error(),
			)
		}
	}
	return nil
}
