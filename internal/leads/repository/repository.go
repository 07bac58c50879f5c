package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/leads/domain"
	"wholesale_crm_backend/platform/apperr"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type CreateLeadParams struct {
	SellerName  string
	SellerPhone string
	SellerEmail *string
	Source      *string
	AssignedTo  *uuid.UUID
	Notes       *string

	AddressLine  string
	City         string
	State        string
	ZipCode      string
	PropertyType *string
	Price        *float64
	Bedrooms     *int
	Bathrooms    *int
	SquareFeet   *int
}

type UpdateLeadParams struct {
	SellerName  string
	SellerPhone string
	SellerEmail *string
	Source      *string
	AssignedTo  *uuid.UUID
	Notes       *string

	AddressLine  string
	City         string
	State        string
	ZipCode      string
	PropertyType *string
	Price        *float64
	Bedrooms     *int
	Bathrooms    *int
	SquareFeet   *int
}

type ListFilter struct {
	Status     *domain.Status
	AssignedTo *uuid.UUID
	City       string
	Search     string
	Limit      int
	Offset     int
}

const leadColumns = `
	l.id, l.seller_name, l.seller_phone, l.seller_email, l.source, l.status,
	l.assigned_to, l.notes, l.created_at, l.updated_at,
	p.id, p.address_line, p.city, p.state, p.zip_code,
	p.property_type, p.price::float8, p.bedrooms, p.bathrooms, p.square_feet`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status string
	err := row.Scan(
		&lead.ID, &lead.SellerName, &lead.SellerPhone, &lead.SellerEmail, &lead.Source, &status,
		&lead.AssignedTo, &lead.Notes, &lead.CreatedAt, &lead.UpdatedAt,
		&lead.Property.ID, &lead.Property.AddressLine, &lead.Property.City, &lead.Property.State,
		&lead.Property.ZipCode, &lead.Property.PropertyType, &lead.Property.Price,
		&lead.Property.Bedrooms, &lead.Property.Bathrooms, &lead.Property.SquareFeet,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	parsed, ok := domain.Parse(status)
	if !ok {
		return domain.Lead{}, fmt.Errorf("stored lead status %q is not recognized", status)
	}
	lead.Status = parsed
	lead.Property.LeadID = lead.ID
	return lead, nil
}

// Create inserts the lead and its property in one transaction.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("begin create lead: %w", err)
	}
	defer tx.Rollback(ctx)

	var lead domain.Lead
	var status string
	err = tx.QueryRow(ctx, `
		INSERT INTO wcrm_leads (seller_name, seller_phone, seller_email, source, status, assigned_to, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, seller_name, seller_phone, seller_email, source, status, assigned_to, notes, created_at, updated_at
	`, params.SellerName, params.SellerPhone, params.SellerEmail, params.Source,
		string(domain.StatusNew), params.AssignedTo, params.Notes,
	).Scan(
		&lead.ID, &lead.SellerName, &lead.SellerPhone, &lead.SellerEmail, &lead.Source, &status,
		&lead.AssignedTo, &lead.Notes, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	lead.Status = domain.Status(status)

	err = tx.QueryRow(ctx, `
		INSERT INTO wcrm_properties (lead_id, address_line, city, state, zip_code, property_type, price, bedrooms, bathrooms, square_feet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, address_line, city, state, zip_code, property_type, price::float8, bedrooms, bathrooms, square_feet
	`, lead.ID, params.AddressLine, params.City, params.State, params.ZipCode,
		params.PropertyType, params.Price, params.Bedrooms, params.Bathrooms, params.SquareFeet,
	).Scan(
		&lead.Property.ID, &lead.Property.AddressLine, &lead.Property.City, &lead.Property.State,
		&lead.Property.ZipCode, &lead.Property.PropertyType, &lead.Property.Price,
		&lead.Property.Bedrooms, &lead.Property.Bathrooms, &lead.Property.SquareFeet,
	)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("insert property: %w", err)
	}
	lead.Property.LeadID = lead.ID

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, fmt.Errorf("commit create lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM wcrm_leads l
		JOIN wcrm_properties p ON p.lead_id = l.id
		WHERE l.id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound("lead not found")
		}
		return domain.Lead{}, fmt.Errorf("find lead by id: %w", err)
	}
	return lead, nil
}

// List returns leads matching the filter plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]domain.Lead, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argPos))
		args = append(args, string(*filter.Status))
		argPos++
	}
	if filter.AssignedTo != nil {
		conditions = append(conditions, fmt.Sprintf("l.assigned_to = $%d", argPos))
		args = append(args, *filter.AssignedTo)
		argPos++
	}
	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("p.city ILIKE $%d", argPos))
		args = append(args, filter.City)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(l.seller_name ILIKE $%d OR l.seller_phone ILIKE $%d OR p.address_line ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM wcrm_leads l
		JOIN wcrm_properties p ON p.lead_id = l.id
		WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM wcrm_leads l
		JOIN wcrm_properties p ON p.lead_id = l.id
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, leadColumns, where, argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, total, nil
}

// Update replaces the lead's editable fields and its property attributes.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("begin update lead: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE wcrm_leads
		SET seller_name = $2, seller_phone = $3, seller_email = $4, source = $5,
			assigned_to = $6, notes = $7, updated_at = now()
		WHERE id = $1
	`, id, params.SellerName, params.SellerPhone, params.SellerEmail, params.Source,
		params.AssignedTo, params.Notes)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}

	_, err = tx.Exec(ctx, `
		UPDATE wcrm_properties
		SET address_line = $2, city = $3, state = $4, zip_code = $5,
			property_type = $6, price = $7, bedrooms = $8, bathrooms = $9, square_feet = $10
		WHERE lead_id = $1
	`, id, params.AddressLine, params.City, params.State, params.ZipCode,
		params.PropertyType, params.Price, params.Bedrooms, params.Bathrooms, params.SquareFeet)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update property: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, fmt.Errorf("commit update lead: %w", err)
	}
	return r.FindByID(ctx, id)
}

// UpdateStatus persists the status only; transition rules live in the service.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE wcrm_leads SET status = $2, updated_at = now() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

// Delete removes the lead with a manual cascade over dependent rows.
// Order matters: offers, tasks, documents, property, then lead.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete lead: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM wcrm_offers WHERE lead_id = $1`,
		`DELETE FROM wcrm_tasks WHERE lead_id = $1`,
		`DELETE FROM wcrm_lead_documents WHERE lead_id = $1`,
		`DELETE FROM wcrm_properties WHERE lead_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete lead: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM wcrm_leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete lead: %w", err)
	}
	return nil
}

// CountByStatus powers the pipeline widget on the admin dashboard.
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM wcrm_leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		parsed, ok := domain.Parse(status)
		if !ok {
			continue
		}
		counts[parsed] = n
	}
	return counts, rows.Err()
}
