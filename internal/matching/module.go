package matching

import (
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/internal/matching/handler"
	"wholesale_crm_backend/internal/matching/repository"
	"wholesale_crm_backend/internal/matching/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "matching"
}

// RegisterRoutes mounts the match list under the leads resource; the
// route reads lead and buyer data but the leads module does not own it.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
