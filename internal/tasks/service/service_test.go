package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/events"
	leaddomain "wholesale_crm_backend/internal/leads/domain"
	"wholesale_crm_backend/internal/tasks/domain"
	"wholesale_crm_backend/internal/tasks/repository"
	"wholesale_crm_backend/internal/tasks/transport"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
)

type fakeTaskStore struct {
	tasks map[uuid.UUID]domain.Task
}

func newFakeTaskStore(tasks ...domain.Task) *fakeTaskStore {
	store := &fakeTaskStore{tasks: make(map[uuid.UUID]domain.Task)}
	for _, task := range tasks {
		store.tasks[task.ID] = task
	}
	return store
}

func (f *fakeTaskStore) Create(_ context.Context, params repository.CreateTaskParams) (domain.Task, error) {
	task := domain.Task{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		BuyerID:     params.BuyerID,
		Title:       params.Title,
		Description: params.Description,
		AssignedTo:  params.AssignedTo,
		Priority:    params.Priority,
		Status:      domain.StatusPending,
		DueDate:     params.DueDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskStore) FindByID(_ context.Context, id uuid.UUID) (domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, apperr.NotFound("task not found")
	}
	return task, nil
}

func (f *fakeTaskStore) List(_ context.Context, filter repository.ListFilter) ([]domain.Task, error) {
	out := make([]domain.Task, 0)
	for _, task := range f.tasks {
		if filter.LeadID != nil && (task.LeadID == nil || *task.LeadID != *filter.LeadID) {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTaskStore) ListOpenWithDueDates(_ context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, 0)
	for _, task := range f.tasks {
		if task.DueDate != nil && task.Status.IsOpen() {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) OpenTaskExists(_ context.Context, leadID uuid.UUID, title string) (bool, error) {
	for _, task := range f.tasks {
		if task.LeadID != nil && *task.LeadID == leadID && task.Title == title && task.Status.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, apperr.NotFound("task not found")
	}
	task.Status = status
	f.tasks[id] = task
	return task, nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return apperr.NotFound("task not found")
	}
	delete(f.tasks, id)
	return nil
}

type fakeScheduler struct {
	scheduled []domain.Task
}

func (f *fakeScheduler) ScheduleDueReminder(_ context.Context, task domain.Task) error {
	f.scheduled = append(f.scheduled, task)
	return nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)           {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateForTransitionNewLead(t *testing.T) {
	store := newFakeTaskStore()
	scheduler := &fakeScheduler{}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := New(store, scheduler, nopBus{}, logger.New("development")).WithClock(fixedClock(now))

	leadID := uuid.New()
	created, err := svc.GenerateForTransition(context.Background(), leadID, leaddomain.StatusNew, uuid.New())
	if err != nil {
		t.Fatalf("GenerateForTransition: %v", err)
	}
	if !created {
		t.Fatal("expected a task for NEW")
	}

	if len(store.tasks) != 1 {
		t.Fatalf("expected 1 persisted task, got %d", len(store.tasks))
	}
	for _, task := range store.tasks {
		if task.Title != "Contact lead within 1 hour" {
			t.Errorf("unexpected title %q", task.Title)
		}
		if task.Priority != domain.PriorityHigh {
			t.Errorf("expected HIGH priority, got %s", task.Priority)
		}
		if task.DueDate == nil || !task.DueDate.Equal(now.Add(time.Hour)) {
			t.Errorf("expected due exactly 1h from clock, got %v", task.DueDate)
		}
	}
	if len(scheduler.scheduled) != 1 {
		t.Errorf("expected a due reminder to be scheduled, got %d", len(scheduler.scheduled))
	}
}

func TestGenerateForTransitionNoRuleStatus(t *testing.T) {
	store := newFakeTaskStore()
	svc := New(store, nil, nopBus{}, logger.New("development"))

	for _, status := range []leaddomain.Status{
		leaddomain.StatusNegotiating,
		leaddomain.StatusClosedWon,
		leaddomain.StatusClosedLost,
	} {
		created, err := svc.GenerateForTransition(context.Background(), uuid.New(), status, uuid.New())
		if err != nil {
			t.Fatalf("%s: %v", status, err)
		}
		if created {
			t.Errorf("%s must not generate a task", status)
		}
	}
	if len(store.tasks) != 0 {
		t.Errorf("expected no persisted tasks, got %d", len(store.tasks))
	}
}

func TestGenerateForTransitionDeduplicates(t *testing.T) {
	store := newFakeTaskStore()
	svc := New(store, nil, nopBus{}, logger.New("development"))
	leadID := uuid.New()

	first, err := svc.GenerateForTransition(context.Background(), leadID, leaddomain.StatusQualified, uuid.New())
	if err != nil || !first {
		t.Fatalf("first generation failed: created=%v err=%v", first, err)
	}

	second, err := svc.GenerateForTransition(context.Background(), leadID, leaddomain.StatusQualified, uuid.New())
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}
	if second {
		t.Error("open task with same title must suppress a duplicate")
	}
	if len(store.tasks) != 1 {
		t.Errorf("expected 1 task after dedup, got %d", len(store.tasks))
	}
}

func TestGenerateForTransitionAllowsRegenerationAfterCompletion(t *testing.T) {
	leadID := uuid.New()
	done := domain.Task{
		ID:       uuid.New(),
		LeadID:   &leadID,
		Title:    "Schedule property visit",
		Priority: domain.PriorityMedium,
		Status:   domain.StatusCompleted,
	}
	store := newFakeTaskStore(done)
	svc := New(store, nil, nopBus{}, logger.New("development"))

	created, err := svc.GenerateForTransition(context.Background(), leadID, leaddomain.StatusQualified, uuid.New())
	if err != nil {
		t.Fatalf("GenerateForTransition: %v", err)
	}
	if !created {
		t.Error("a completed task must not block regeneration")
	}
}

func TestGenerateForNewBuyer(t *testing.T) {
	store := newFakeTaskStore()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := New(store, nil, nopBus{}, logger.New("development")).WithClock(fixedClock(now))

	buyerID := uuid.New()
	if err := svc.GenerateForNewBuyer(context.Background(), buyerID, "Lone Star Capital", uuid.New()); err != nil {
		t.Fatalf("GenerateForNewBuyer: %v", err)
	}

	if len(store.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(store.tasks))
	}
	for _, task := range store.tasks {
		if task.BuyerID == nil || *task.BuyerID != buyerID {
			t.Errorf("expected task tied to buyer, got %v", task.BuyerID)
		}
		if task.LeadID != nil {
			t.Errorf("buyer onboarding task must not carry a lead")
		}
		if task.DueDate == nil || !task.DueDate.Equal(now.Add(72*time.Hour)) {
			t.Errorf("expected due in 3 days, got %v", task.DueDate)
		}
	}
}

func TestOverdueAndDueTodayUseInjectedClock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	leadID := uuid.New()

	overdueDate := now.Add(-48 * time.Hour)
	todayDate := now.Add(3 * time.Hour)
	futureDate := now.Add(72 * time.Hour)

	store := newFakeTaskStore(
		domain.Task{ID: uuid.New(), LeadID: &leadID, Title: "old", Priority: domain.PriorityLow, Status: domain.StatusPending, DueDate: &overdueDate},
		domain.Task{ID: uuid.New(), LeadID: &leadID, Title: "today", Priority: domain.PriorityHigh, Status: domain.StatusPending, DueDate: &todayDate},
		domain.Task{ID: uuid.New(), LeadID: &leadID, Title: "future", Priority: domain.PriorityUrgent, Status: domain.StatusPending, DueDate: &futureDate},
	)
	svc := New(store, nil, nopBus{}, logger.New("development")).WithClock(fixedClock(now))

	overdue, err := svc.Overdue(context.Background())
	if err != nil {
		t.Fatalf("Overdue: %v", err)
	}
	if overdue.Total != 1 || overdue.Items[0].Title != "old" {
		t.Errorf("expected only the past-due task, got %+v", overdue.Items)
	}
	if !overdue.AsOf.Equal(now) {
		t.Errorf("expected asOf from injected clock, got %v", overdue.AsOf)
	}

	dueToday, err := svc.DueToday(context.Background())
	if err != nil {
		t.Fatalf("DueToday: %v", err)
	}
	if dueToday.Total != 1 || dueToday.Items[0].Title != "today" {
		t.Errorf("expected only today's task, got %+v", dueToday.Items)
	}
}

func TestCreateRequiresLeadOrBuyer(t *testing.T) {
	svc := New(newFakeTaskStore(), nil, nopBus{}, logger.New("development"))

	_, err := svc.Create(context.Background(), transport.CreateTaskRequest{
		Title:    "Orphan task",
		Priority: "LOW",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusRejectsReopeningCompleted(t *testing.T) {
	leadID := uuid.New()
	task := domain.Task{
		ID:       uuid.New(),
		LeadID:   &leadID,
		Title:    "done",
		Priority: domain.PriorityLow,
		Status:   domain.StatusCompleted,
	}
	store := newFakeTaskStore(task)
	svc := New(store, nil, nopBus{}, logger.New("development"))

	_, err := svc.UpdateStatus(context.Background(), task.ID, "PENDING")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
