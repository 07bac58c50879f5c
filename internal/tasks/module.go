package tasks

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/events"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/internal/tasks/handler"
	"wholesale_crm_backend/internal/tasks/repository"
	"wholesale_crm_backend/internal/tasks/service"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	svc     *service.Service
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, reminders service.ReminderScheduler, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, reminders, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, svc: svc, repo: repo}
}

func (m *Module) Name() string {
	return "tasks"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/tasks")
	m.handler.RegisterRoutes(group)
}

// Service exposes the task service for adapters (lead follow-up
// generation, buyer onboarding) and the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Repository exposes the task store for read-model modules (dashboard).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

var _ apphttp.Module = (*Module)(nil)
