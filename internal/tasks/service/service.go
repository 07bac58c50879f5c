package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/events"
	leaddomain "wholesale_crm_backend/internal/leads/domain"
	"wholesale_crm_backend/internal/tasks/domain"
	"wholesale_crm_backend/internal/tasks/repository"
	"wholesale_crm_backend/internal/tasks/rules"
	"wholesale_crm_backend/internal/tasks/transport"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
)

// TaskStore is the repository surface the service uses.
type TaskStore interface {
	Create(ctx context.Context, params repository.CreateTaskParams) (domain.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Task, error)
	ListOpenWithDueDates(ctx context.Context) ([]domain.Task, error)
	OpenTaskExists(ctx context.Context, leadID uuid.UUID, title string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReminderScheduler enqueues a due-date reminder for a task. The asynq
// client implements it; a nil scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleDueReminder(ctx context.Context, task domain.Task) error
}

type Service struct {
	repo      TaskStore
	reminders ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
}

func New(repo TaskStore, reminders ReminderScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		reminders: reminders,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create persists a manually entered task.
func (s *Service) Create(ctx context.Context, req transport.CreateTaskRequest) (*transport.TaskResponse, error) {
	leadID, err := parseOptionalUUID(req.LeadID)
	if err != nil {
		return nil, apperr.Validation("leadId is not a valid id")
	}
	buyerID, err := parseOptionalUUID(req.BuyerID)
	if err != nil {
		return nil, apperr.Validation("buyerId is not a valid id")
	}
	if leadID == nil && buyerID == nil {
		return nil, apperr.Validation("a task must reference a lead or a buyer")
	}
	assignedTo, err := parseOptionalUUID(req.AssignedTo)
	if err != nil {
		return nil, apperr.Validation("assignedTo is not a valid id")
	}

	priority, ok := domain.ParsePriority(req.Priority)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown priority %q", req.Priority))
	}

	task, err := s.repo.Create(ctx, repository.CreateTaskParams{
		LeadID:      leadID,
		BuyerID:     buyerID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignedTo,
		Priority:    priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		appErr := apperr.Internal("failed to create task").WithOp("tasks.Create")
		appErr.Err = err
		return nil, appErr
	}

	s.afterCreate(ctx, task)
	resp := transport.FromDomain(task)
	return &resp, nil
}

// GenerateForTransition runs the lead transition rule and persists the
// resulting draft. Generation is deduplicated: an open task with the
// same title on the same lead suppresses a second insert.
func (s *Service) GenerateForTransition(ctx context.Context, leadID uuid.UUID, newStatus leaddomain.Status, assignee uuid.UUID) (bool, error) {
	draft, ok := rules.ForLeadTransition(leadID, newStatus, assignee, s.now())
	if !ok {
		return false, nil
	}

	exists, err := s.repo.OpenTaskExists(ctx, leadID, draft.Title)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	task, err := s.persistDraft(ctx, draft)
	if err != nil {
		return false, err
	}
	s.afterCreate(ctx, task)
	return true, nil
}

// GenerateForNewBuyer persists the buyer onboarding follow-up.
func (s *Service) GenerateForNewBuyer(ctx context.Context, buyerID uuid.UUID, buyerName string, assignee uuid.UUID) error {
	draft := rules.ForNewBuyer(buyerID, buyerName, assignee, s.now())
	task, err := s.persistDraft(ctx, draft)
	if err != nil {
		return err
	}
	s.afterCreate(ctx, task)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(task)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req transport.ListTasksRequest) (*transport.TaskListResponse, error) {
	filter := repository.ListFilter{Limit: req.Limit, Offset: req.Offset}

	var err error
	if filter.LeadID, err = parseOptionalUUIDString(req.LeadID); err != nil {
		return nil, apperr.Validation("leadId is not a valid id")
	}
	if filter.BuyerID, err = parseOptionalUUIDString(req.BuyerID); err != nil {
		return nil, apperr.Validation("buyerId is not a valid id")
	}
	if filter.AssignedTo, err = parseOptionalUUIDString(req.AssignedTo); err != nil {
		return nil, apperr.Validation("assignedTo is not a valid id")
	}
	if req.Status != "" {
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
		}
		filter.Status = &status
	}

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		appErr := apperr.Internal("failed to list tasks").WithOp("tasks.List")
		appErr.Err = err
		return nil, appErr
	}

	items := transport.FromDomainList(tasks)
	return &transport.TaskListResponse{Items: items, Total: len(items)}, nil
}

// Overdue returns open tasks whose due date has passed, most overdue first.
func (s *Service) Overdue(ctx context.Context) (*transport.DuenessResponse, error) {
	buckets, now, err := s.classify(ctx)
	if err != nil {
		return nil, err
	}
	items := transport.FromDomainList(buckets.Overdue)
	return &transport.DuenessResponse{Items: items, Total: len(items), AsOf: now}, nil
}

// DueToday returns open tasks due within today's calendar day, highest
// priority first.
func (s *Service) DueToday(ctx context.Context) (*transport.DuenessResponse, error) {
	buckets, now, err := s.classify(ctx)
	if err != nil {
		return nil, err
	}
	items := transport.FromDomainList(buckets.DueToday)
	return &transport.DuenessResponse{Items: items, Total: len(items), AsOf: now}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*transport.TaskResponse, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown status %q", rawStatus))
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.IsOpen() && status != current.Status {
		return nil, apperr.Conflict(fmt.Sprintf("task is already %s", current.Status))
	}

	task, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(task)
	return &resp, nil
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*transport.TaskResponse, error) {
	return s.UpdateStatus(ctx, id, string(domain.StatusCompleted))
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*transport.TaskResponse, error) {
	return s.UpdateStatus(ctx, id, string(domain.StatusCancelled))
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) classify(ctx context.Context) (rules.Buckets, time.Time, error) {
	tasks, err := s.repo.ListOpenWithDueDates(ctx)
	if err != nil {
		appErr := apperr.Internal("failed to load tasks").WithOp("tasks.classify")
		appErr.Err = err
		return rules.Buckets{}, time.Time{}, appErr
	}
	now := s.now()
	return rules.ClassifyByDueness(tasks, now), now, nil
}

func (s *Service) persistDraft(ctx context.Context, draft rules.Draft) (domain.Task, error) {
	assignedTo := draft.AssignedTo
	due := draft.DueDate
	return s.repo.Create(ctx, repository.CreateTaskParams{
		LeadID:      draft.LeadID,
		BuyerID:     draft.BuyerID,
		Title:       draft.Title,
		Description: draft.Description,
		AssignedTo:  &assignedTo,
		Priority:    draft.Priority,
		DueDate:     &due,
	})
}

// afterCreate publishes TaskCreated and schedules the due reminder.
// Both are best-effort side effects of an already committed insert.
func (s *Service) afterCreate(ctx context.Context, task domain.Task) {
	leadID := uuid.Nil
	if task.LeadID != nil {
		leadID = *task.LeadID
	}
	s.bus.Publish(ctx, events.TaskCreated{
		BaseEvent:  events.NewBaseEvent(),
		TaskID:     task.ID,
		LeadID:     leadID,
		AssignedTo: task.AssignedTo,
		Title:      task.Title,
		Priority:   string(task.Priority),
		DueDate:    task.DueDate,
	})

	if s.reminders == nil || task.DueDate == nil {
		return
	}
	if err := s.reminders.ScheduleDueReminder(ctx, task); err != nil {
		s.log.Warn("scheduling due reminder failed",
			"task_id", task.ID.String(),
			"error", err.Error(),
		)
	}
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalUUIDString(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
