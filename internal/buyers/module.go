package buyers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/buyers/handler"
	"wholesale_crm_backend/internal/buyers/ports"
	"wholesale_crm_backend/internal/buyers/repository"
	"wholesale_crm_backend/internal/buyers/service"
	"wholesale_crm_backend/internal/events"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, onboarding ports.OnboardingGenerator, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, onboarding, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo}
}

func (m *Module) Name() string {
	return "buyers"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/buyers")
	m.handler.RegisterRoutes(group)
}

// Repository exposes the buyer store for read-model modules (dashboard).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

var _ apphttp.Module = (*Module)(nil)
