package repository

import (
	"context"
	"errors"
	"fmt"

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

// PropertyRow is the property subset the scorer consumes.
type PropertyRow struct {
	LeadID       uuid.UUID
	Price        *float64
	PropertyType *string
	City         string
	State        string
}

// BuyerRow carries a buyer plus their first preference record, flattened.
// HasPreference distinguishes a buyer with an all-null preference from a
// buyer with none at all.
type BuyerRow struct {
	ID            uuid.UUID
	Name          string
	CashBuyer     bool
	ProofOfFunds  *float64
	HasPreference bool
	MinPrice      *float64
	MaxPrice      *float64
	Areas         []string
	PropertyTypes []string
}

// FindPropertyByLead returns the property attached to a lead.
func (r *Repository) FindPropertyByLead(ctx context.Context, leadID uuid.UUID) (*PropertyRow, error) {
	query := `
		SELECT p.lead_id, p.price::float8, p.property_type, COALESCE(p.city, ''), COALESCE(p.state, '')
		FROM wcrm_properties p
		WHERE p.lead_id = $1`

	var row PropertyRow
	err := r.pool.QueryRow(ctx, query, leadID).Scan(
		&row.LeadID, &row.Price, &row.PropertyType, &row.City, &row.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("property not found for lead")
		}
		return nil, fmt.Errorf("find property by lead: %w", err)
	}
	return &row, nil
}

// FindBuyersWithPreferences returns every buyer joined with their first
// preference record. Buyers without one come back with HasPreference false.
func (r *Repository) FindBuyersWithPreferences(ctx context.Context) ([]BuyerRow, error) {
	query := `
		SELECT
			b.id, b.name, b.cash_buyer, b.proof_of_funds::float8,
			bp.id IS NOT NULL,
			bp.min_price::float8, bp.max_price::float8,
			COALESCE(bp.areas, '{}'), COALESCE(bp.property_types, '{}')
		FROM wcrm_buyers b
		LEFT JOIN LATERAL (
			SELECT id, min_price, max_price, areas, property_types
			FROM wcrm_buyer_preferences
			WHERE buyer_id = b.id
			ORDER BY created_at ASC
			LIMIT 1
		) bp ON true
		ORDER BY b.name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find buyers with preferences: %w", err)
	}
	defer rows.Close()

	var buyers []BuyerRow
	for rows.Next() {
		var row BuyerRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.CashBuyer, &row.ProofOfFunds,
			&row.HasPreference, &row.MinPrice, &row.MaxPrice,
			&row.Areas, &row.PropertyTypes,
		); err != nil {
			return nil, fmt.Errorf("scan buyer row: %w", err)
		}
		buyers = append(buyers, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buyer rows: %w", err)
	}
	return buyers, nil
}
