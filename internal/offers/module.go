package offers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/events"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/internal/offers/handler"
	"wholesale_crm_backend/internal/offers/repository"
	"wholesale_crm_backend/internal/offers/service"
	"wholesale_crm_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "offers"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/offers")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
