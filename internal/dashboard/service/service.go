package service

import (
	"context"
	"time"

	leaddomain "wholesale_crm_backend/internal/leads/domain"
	taskdomain "wholesale_crm_backend/internal/tasks/domain"
	"wholesale_crm_backend/internal/tasks/rules"
	"wholesale_crm_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

// LeadCounter, TaskCounter, and BuyerCounter are the narrow read
// surfaces the dashboard pulls from the owning modules' repositories.
type LeadCounter interface {
	CountByStatus(ctx context.Context) (map[leaddomain.Status]int, error)
}

type TaskCounter interface {
	CountByStatus(ctx context.Context) (map[taskdomain.Status]int, error)
	ListOpenWithDueDates(ctx context.Context) ([]taskdomain.Task, error)
}

type BuyerCounter interface {
	Count(ctx context.Context) (total int, cash int, err error)
}

// Stats is the admin dashboard read model.
type Stats struct {
	Pipeline      map[string]int `json:"pipeline"`
	OpenLeads     int            `json:"openLeads"`
	TasksByStatus map[string]int `json:"tasksByStatus"`
	TasksOverdue  int            `json:"tasksOverdue"`
	TasksDueToday int            `json:"tasksDueToday"`
	BuyersTotal   int            `json:"buyersTotal"`
	BuyersCash    int            `json:"buyersCash"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}

type Service struct {
	leads  LeadCounter
	tasks  TaskCounter
	buyers BuyerCounter
	now    func() time.Time
}

func New(leads LeadCounter, tasks TaskCounter, buyers BuyerCounter) *Service {
	return &Service{leads: leads, tasks: tasks, buyers: buyers, now: time.Now}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Stats assembles the dashboard read model. The four source reads are
// independent, so they run concurrently.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		leadCounts              map[leaddomain.Status]int
		taskCounts              map[taskdomain.Status]int
		openTasks               []taskdomain.Task
		buyersTotal, buyersCash int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.leads.CountByStatus(gctx)
		if err != nil {
			return internal("failed to count leads", err)
		}
		leadCounts = counts
		return nil
	})
	g.Go(func() error {
		counts, err := s.tasks.CountByStatus(gctx)
		if err != nil {
			return internal("failed to count tasks", err)
		}
		taskCounts = counts
		return nil
	})
	g.Go(func() error {
		open, err := s.tasks.ListOpenWithDueDates(gctx)
		if err != nil {
			return internal("failed to load open tasks", err)
		}
		openTasks = open
		return nil
	})
	g.Go(func() error {
		total, cash, err := s.buyers.Count(gctx)
		if err != nil {
			return internal("failed to count buyers", err)
		}
		buyersTotal, buyersCash = total, cash
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pipeline := make(map[string]int, len(leaddomain.All()))
	openLeads := 0
	for _, status := range leaddomain.All() {
		n := leadCounts[status]
		pipeline[string(status)] = n
		if !status.IsClosed() {
			openLeads += n
		}
	}

	tasksByStatus := make(map[string]int, len(taskCounts))
	for status, n := range taskCounts {
		tasksByStatus[string(status)] = n
	}

	now := s.now()
	buckets := rules.ClassifyByDueness(openTasks, now)

	return &Stats{
		Pipeline:      pipeline,
		OpenLeads:     openLeads,
		TasksByStatus: tasksByStatus,
		TasksOverdue:  len(buckets.Overdue),
		TasksDueToday: len(buckets.DueToday),
		BuyersTotal:   buyersTotal,
		BuyersCash:    buyersCash,
		GeneratedAt:   now,
	}, nil
}

func internal(msg string, err error) *apperr.Error {
	appErr := apperr.Internal(msg).WithOp("dashboard.Stats")
	appErr.Err = err
	return appErr
}
