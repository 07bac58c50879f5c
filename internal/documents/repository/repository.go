package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/platform/apperr"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Document is a stored file reference; the bytes live in object storage.
type Document struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	FileName    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}

type CreateDocumentParams struct {
	LeadID      uuid.UUID
	FileName    string
	FileKey     string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
}

const documentColumns = `id, lead_id, file_name, file_key, content_type, size_bytes, uploaded_by, created_at`

func scanDocument(row pgx.Row) (Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID, &doc.LeadID, &doc.FileName, &doc.FileKey,
		&doc.ContentType, &doc.SizeBytes, &doc.UploadedBy, &doc.CreatedAt,
	)
	return doc, err
}

func (r *Repository) Create(ctx context.Context, params CreateDocumentParams) (Document, error) {
	query := `
		INSERT INTO wcrm_lead_documents (lead_id, file_name, file_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns

	doc, err := scanDocument(r.pool.QueryRow(ctx, query,
		params.LeadID, params.FileName, params.FileKey,
		params.ContentType, params.SizeBytes, params.UploadedBy))
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM wcrm_lead_documents WHERE id = $1`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, apperr.NotFound("document not found")
		}
		return Document{}, fmt.Errorf("find document by id: %w", err)
	}
	return doc, nil
}

func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM wcrm_lead_documents
		WHERE lead_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wcrm_lead_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("document not found")
	}
	return nil
}
