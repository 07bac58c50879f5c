package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/buyers/domain"
	"wholesale_crm_backend/platform/apperr"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type CreateBuyerParams struct {
	Name         string
	Email        *string
	Phone        *string
	CashBuyer    bool
	ProofOfFunds *float64
	Notes        *string
}

type UpdateBuyerParams = CreateBuyerParams

type CreatePreferenceParams struct {
	BuyerID       uuid.UUID
	MinPrice      *float64
	MaxPrice      *float64
	Areas         []string
	PropertyTypes []string
}

const buyerColumns = `id, name, email, phone, cash_buyer, proof_of_funds::float8, notes, created_at, updated_at`

func scanBuyer(row pgx.Row) (domain.Buyer, error) {
	var buyer domain.Buyer
	err := row.Scan(
		&buyer.ID, &buyer.Name, &buyer.Email, &buyer.Phone,
		&buyer.CashBuyer, &buyer.ProofOfFunds, &buyer.Notes,
		&buyer.CreatedAt, &buyer.UpdatedAt,
	)
	return buyer, err
}

func (r *Repository) Create(ctx context.Context, params CreateBuyerParams) (domain.Buyer, error) {
	query := `
		INSERT INTO wcrm_buyers (name, email, phone, cash_buyer, proof_of_funds, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + buyerColumns

	buyer, err := scanBuyer(r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.CashBuyer, params.ProofOfFunds, params.Notes))
	if err != nil {
		return domain.Buyer{}, fmt.Errorf("insert buyer: %w", err)
	}
	buyer.Preferences = []domain.Preference{}
	return buyer, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM wcrm_buyers WHERE id = $1`

	buyer, err := scanBuyer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Buyer{}, apperr.NotFound("buyer not found")
		}
		return domain.Buyer{}, fmt.Errorf("find buyer by id: %w", err)
	}

	prefs, err := r.listPreferences(ctx, id)
	if err != nil {
		return domain.Buyer{}, err
	}
	buyer.Preferences = prefs
	return buyer, nil
}

// List returns all buyers with their preference records, ordered by name.
func (r *Repository) List(ctx context.Context) ([]domain.Buyer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+buyerColumns+` FROM wcrm_buyers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	buyers := make([]domain.Buyer, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		buyer, err := scanBuyer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		buyer.Preferences = []domain.Preference{}
		index[buyer.ID] = len(buyers)
		buyers = append(buyers, buyer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buyers: %w", err)
	}
	if len(buyers) == 0 {
		return buyers, nil
	}

	prefRows, err := r.pool.Query(ctx, `
		SELECT id, buyer_id, min_price::float8, max_price::float8,
			COALESCE(areas, '{}'), COALESCE(property_types, '{}'), created_at
		FROM wcrm_buyer_preferences
		ORDER BY buyer_id, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list buyer preferences: %w", err)
	}
	defer prefRows.Close()

	for prefRows.Next() {
		var pref domain.Preference
		if err := prefRows.Scan(
			&pref.ID, &pref.BuyerID, &pref.MinPrice, &pref.MaxPrice,
			&pref.Areas, &pref.PropertyTypes, &pref.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan buyer preference: %w", err)
		}
		if i, ok := index[pref.BuyerID]; ok {
			buyers[i].Preferences = append(buyers[i].Preferences, pref)
		}
	}
	return buyers, prefRows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateBuyerParams) (domain.Buyer, error) {
	query := `
		UPDATE wcrm_buyers
		SET name = $2, email = $3, phone = $4, cash_buyer = $5, proof_of_funds = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + buyerColumns

	buyer, err := scanBuyer(r.pool.QueryRow(ctx, query, id,
		params.Name, params.Email, params.Phone, params.CashBuyer, params.ProofOfFunds, params.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Buyer{}, apperr.NotFound("buyer not found")
		}
		return domain.Buyer{}, fmt.Errorf("update buyer: %w", err)
	}

	prefs, err := r.listPreferences(ctx, id)
	if err != nil {
		return domain.Buyer{}, err
	}
	buyer.Preferences = prefs
	return buyer, nil
}

// Delete removes the buyer with a manual cascade: offers and preference
// records go first.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete buyer: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM wcrm_offers WHERE buyer_id = $1`,
		`UPDATE wcrm_tasks SET buyer_id = NULL WHERE buyer_id = $1`,
		`DELETE FROM wcrm_buyer_preferences WHERE buyer_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete buyer: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM wcrm_buyers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete buyer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("buyer not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete buyer: %w", err)
	}
	return nil
}

func (r *Repository) AddPreference(ctx context.Context, params CreatePreferenceParams) (domain.Preference, error) {
	var pref domain.Preference
	err := r.pool.QueryRow(ctx, `
		INSERT INTO wcrm_buyer_preferences (buyer_id, min_price, max_price, areas, property_types)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, buyer_id, min_price::float8, max_price::float8,
			COALESCE(areas, '{}'), COALESCE(property_types, '{}'), created_at
	`, params.BuyerID, params.MinPrice, params.MaxPrice, params.Areas, params.PropertyTypes,
	).Scan(
		&pref.ID, &pref.BuyerID, &pref.MinPrice, &pref.MaxPrice,
		&pref.Areas, &pref.PropertyTypes, &pref.CreatedAt,
	)
	if err != nil {
		return domain.Preference{}, fmt.Errorf("insert buyer preference: %w", err)
	}
	return pref, nil
}

func (r *Repository) DeletePreference(ctx context.Context, buyerID, prefID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM wcrm_buyer_preferences WHERE id = $1 AND buyer_id = $2
	`, prefID, buyerID)
	if err != nil {
		return fmt.Errorf("delete buyer preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("preference not found")
	}
	return nil
}

// Count powers the dashboard buyer widget.
func (r *Repository) Count(ctx context.Context) (total int, cash int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE cash_buyer)
		FROM wcrm_buyers`).Scan(&total, &cash)
	if err != nil {
		return 0, 0, fmt.Errorf("count buyers: %w", err)
	}
	return total, cash, nil
}

func (r *Repository) listPreferences(ctx context.Context, buyerID uuid.UUID) ([]domain.Preference, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, buyer_id, min_price::float8, max_price::float8,
			COALESCE(areas, '{}'), COALESCE(property_types, '{}'), created_at
		FROM wcrm_buyer_preferences
		WHERE buyer_id = $1
		ORDER BY created_at ASC`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	prefs := make([]domain.Preference, 0)
	for rows.Next() {
		var pref domain.Preference
		if err := rows.Scan(
			&pref.ID, &pref.BuyerID, &pref.MinPrice, &pref.MaxPrice,
			&pref.Areas, &pref.PropertyTypes, &pref.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}
