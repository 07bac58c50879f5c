package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/tasks/domain"
	"wholesale_crm_backend/platform/apperr"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type CreateTaskParams struct {
	LeadID      *uuid.UUID
	BuyerID     *uuid.UUID
	Title       string
	Description string
	AssignedTo  *uuid.UUID
	Priority    domain.Priority
	DueDate     *time.Time
}

type ListFilter struct {
	LeadID     *uuid.UUID
	BuyerID    *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *domain.Status
	Limit      int
	Offset     int
}

const taskColumns = `
	id, lead_id, buyer_id, title, description, assigned_to,
	priority, status, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var priority, status string
	err := row.Scan(
		&task.ID, &task.LeadID, &task.BuyerID, &task.Title, &task.Description,
		&task.AssignedTo, &priority, &status, &task.DueDate,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}

	parsedPriority, ok := domain.ParsePriority(priority)
	if !ok {
		return domain.Task{}, fmt.Errorf("stored task priority %q is not recognized", priority)
	}
	parsedStatus, ok := domain.ParseStatus(status)
	if !ok {
		return domain.Task{}, fmt.Errorf("stored task status %q is not recognized", status)
	}
	task.Priority = parsedPriority
	task.Status = parsedStatus
	return task, nil
}

func (r *Repository) Create(ctx context.Context, params CreateTaskParams) (domain.Task, error) {
	query := `
		INSERT INTO wcrm_tasks (lead_id, buyer_id, title, description, assigned_to, priority, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query,
		params.LeadID, params.BuyerID, params.Title, params.Description,
		params.AssignedTo, string(params.Priority), string(domain.StatusPending), params.DueDate,
	))
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM wcrm_tasks WHERE id = $1`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, apperr.NotFound("task not found")
		}
		return domain.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return task, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM wcrm_tasks WHERE 1=1`
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
	if filter.AssignedTo != nil {
		query += fmt.Sprintf(" AND assigned_to = $%d", argPos)
		args = append(args, *filter.AssignedTo)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY due_date ASC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	return r.queryTasks(ctx, query, args...)
}

// ListOpenWithDueDates returns every task the dueness classifier could
// bucket: not completed, not cancelled, due date set.
func (r *Repository) ListOpenWithDueDates(ctx context.Context) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM wcrm_tasks
		WHERE due_date IS NOT NULL AND status IN ('PENDING', 'IN_PROGRESS')
		ORDER BY due_date ASC`
	return r.queryTasks(ctx, query)
}

// OpenTaskExists reports whether an open task with this title is already
// attached to the lead. It backs the generation dedup policy.
func (r *Repository) OpenTaskExists(ctx context.Context, leadID uuid.UUID, title string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM wcrm_tasks
			WHERE lead_id = $1 AND title = $2 AND status IN ('PENDING', 'IN_PROGRESS')
		)`, leadID, title).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open task exists: %w", err)
	}
	return exists, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Task, error) {
	query := `
		UPDATE wcrm_tasks SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, apperr.NotFound("task not found")
		}
		return domain.Task{}, fmt.Errorf("update task status: %w", err)
	}
	return task, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wcrm_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

// CountByStatus powers the dashboard task widget.
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM wcrm_tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan task status count: %w", err)
		}
		parsed, ok := domain.ParseStatus(status)
		if !ok {
			continue
		}
		counts[parsed] = n
	}
	return counts, rows.Err()
}

func (r *Repository) queryTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}
