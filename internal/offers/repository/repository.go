package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/offers/domain"
	"wholesale_crm_backend/platform/apperr"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type CreateOfferParams struct {
	LeadID  uuid.UUID
	BuyerID uuid.UUID
	Amount  float64
	Notes   *string
}

type ListFilter struct {
	LeadID  *uuid.UUID
	BuyerID *uuid.UUID
	Status  *domain.Status
}

const offerColumns = `id, lead_id, buyer_id, amount::float8, status, notes, created_at, updated_at`

func scanOffer(row pgx.Row) (domain.Offer, error) {
	var offer domain.Offer
	var status string
	err := row.Scan(
		&offer.ID, &offer.LeadID, &offer.BuyerID, &offer.Amount,
		&status, &offer.Notes, &offer.CreatedAt, &offer.UpdatedAt,
	)
	if err != nil {
		return domain.Offer{}, err
	}
	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return domain.Offer{}, fmt.Errorf("stored offer status %q is not recognized", status)
	}
	offer.Status = parsed
	return offer, nil
}

func (r *Repository) Create(ctx context.Context, params CreateOfferParams) (domain.Offer, error) {
	query := `
		INSERT INTO wcrm_offers (lead_id, buyer_id, amount, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + offerColumns

	offer, err := scanOffer(r.pool.QueryRow(ctx, query,
		params.LeadID, params.BuyerID, params.Amount, string(domain.StatusDraft), params.Notes))
	if err != nil {
		return domain.Offer{}, fmt.Errorf("insert offer: %w", err)
	}
	return offer, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM wcrm_offers WHERE id = $1`

	offer, err := scanOffer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Offer{}, apperr.NotFound("offer not found")
		}
		return domain.Offer{}, fmt.Errorf("find offer by id: %w", err)
	}
	return offer, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM wcrm_offers WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.LeadID != nil {
		query += fmt.Sprintf(" AND lead_id = $%d", argPos)
		args = append(args, *filter.LeadID)
		argPos++
	}
	if filter.BuyerID != nil {
		query += fmt.Sprintf(" AND buyer_id = $%d", argPos)
		args = append(args, *filter.BuyerID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Offer, error) {
	query := `
		UPDATE wcrm_offers SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + offerColumns

	offer, err := scanOffer(r.pool.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Offer{}, apperr.NotFound("offer not found")
		}
		return domain.Offer{}, fmt.Errorf("update offer status: %w", err)
	}
	return offer, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wcrm_offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("offer not found")
	}
	return nil
}
