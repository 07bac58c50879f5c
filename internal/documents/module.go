package documents

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/adapters/storage"
	"wholesale_crm_backend/internal/documents/handler"
	"wholesale_crm_backend/internal/documents/repository"
	"wholesale_crm_backend/internal/documents/service"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, store storage.Service, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "documents"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterLeadRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterDocumentRoutes(ctx.Protected.Group("/documents"))
}

var _ apphttp.Module = (*Module)(nil)
