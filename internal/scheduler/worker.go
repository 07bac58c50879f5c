package scheduler

import (
	"context"
	"fmt"

	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/internal/tasks/repository"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/config"
	"wholesale_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskDueReminder, w.handleDueReminder)

	return w, nil
}

// handleDueReminder re-reads the task before publishing. Reminders scheduled
// for tasks that were since completed, cancelled, deleted, or rescheduled are
// dropped silently.
func (w *Worker) handleDueReminder(ctx context.Context, job *asynq.Task) error {
	payload, err := ParseDueReminderPayload(job)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return err
	}

	task, err := w.repo.FindByID(ctx, taskID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	if !task.Status.IsOpen() {
		return nil
	}
	if task.DueDate == nil || !task.DueDate.Equal(payload.DueDate) {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	leadID := uuid.Nil
	if task.LeadID != nil {
		leadID = *task.LeadID
	}

	return w.bus.PublishSync(ctx, events.TaskDue{
		BaseEvent:  events.NewBaseEvent(),
		TaskID:     task.ID,
		LeadID:     leadID,
		AssignedTo: task.AssignedTo,
		Title:      task.Title,
		Priority:   string(task.Priority),
		DueDate:    *task.DueDate,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
