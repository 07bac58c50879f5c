package transport

import (
	"time"

	"wholesale_crm_backend/internal/documents/repository"
)

type RequestUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type UploadURLResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"uploadUrl"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

type DownloadURLResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	FileName    string    `json:"fileName"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type DocumentResponse struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"leadId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Total int                `json:"total"`
}

func FromRow(doc repository.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID.String(),
		LeadID:      doc.LeadID.String(),
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		UploadedBy:  doc.UploadedBy.String(),
		CreatedAt:   doc.CreatedAt,
	}
}
