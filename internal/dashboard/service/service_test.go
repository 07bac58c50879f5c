package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	leaddomain "wholesale_crm_backend/internal/leads/domain"
	taskdomain "wholesale_crm_backend/internal/tasks/domain"
)

type fakeLeadCounter map[leaddomain.Status]int

func (f fakeLeadCounter) CountByStatus(context.Context) (map[leaddomain.Status]int, error) {
	return f, nil
}

type fakeTaskCounter struct {
	counts map[taskdomain.Status]int
	open   []taskdomain.Task
}

func (f fakeTaskCounter) CountByStatus(context.Context) (map[taskdomain.Status]int, error) {
	return f.counts, nil
}

func (f fakeTaskCounter) ListOpenWithDueDates(context.Context) ([]taskdomain.Task, error) {
	return f.open, nil
}

type fakeBuyerCounter struct {
	total, cash int
}

func (f fakeBuyerCounter) Count(context.Context) (int, int, error) {
	return f.total, f.cash, nil
}

func TestStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	leadID := uuid.New()
	overdueDate := now.Add(-24 * time.Hour)
	todayDate := now.Add(2 * time.Hour)

	leads := fakeLeadCounter{
		leaddomain.StatusNew:        3,
		leaddomain.StatusQualified:  2,
		leaddomain.StatusClosedWon:  5,
		leaddomain.StatusClosedLost: 1,
	}
	tasks := fakeTaskCounter{
		counts: map[taskdomain.Status]int{
			taskdomain.StatusPending:   4,
			taskdomain.StatusCompleted: 9,
		},
		open: []taskdomain.Task{
			{ID: uuid.New(), LeadID: &leadID, Priority: taskdomain.PriorityHigh, Status: taskdomain.StatusPending, DueDate: &overdueDate},
			{ID: uuid.New(), LeadID: &leadID, Priority: taskdomain.PriorityLow, Status: taskdomain.StatusPending, DueDate: &todayDate},
		},
	}
	buyers := fakeBuyerCounter{total: 12, cash: 7}

	svc := New(leads, tasks, buyers).WithClock(func() time.Time { return now })
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.OpenLeads != 5 {
		t.Errorf("expected 5 open leads (closed statuses excluded), got %d", stats.OpenLeads)
	}
	if stats.Pipeline["NEW"] != 3 || stats.Pipeline["CONTACTED"] != 0 {
		t.Errorf("pipeline must cover every status: %+v", stats.Pipeline)
	}
	if stats.TasksOverdue != 1 || stats.TasksDueToday != 1 {
		t.Errorf("expected 1 overdue and 1 due today, got %d/%d", stats.TasksOverdue, stats.TasksDueToday)
	}
	if stats.BuyersTotal != 12 || stats.BuyersCash != 7 {
		t.Errorf("unexpected buyer counts %d/%d", stats.BuyersTotal, stats.BuyersCash)
	}
	if !stats.GeneratedAt.Equal(now) {
		t.Errorf("expected generatedAt from injected clock, got %v", stats.GeneratedAt)
	}
}
