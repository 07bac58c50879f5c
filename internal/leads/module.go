package leads

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wholesale_crm_backend/internal/events"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/internal/leads/handler"
	"wholesale_crm_backend/internal/leads/ports"
	"wholesale_crm_backend/internal/leads/repository"
	"wholesale_crm_backend/internal/leads/service"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	svc     *service.Service
	repo    *repository.Repository
	log     *logger.Logger
}

func NewModule(pool *pgxpool.Pool, followUp ports.FollowUpGenerator, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, followUp, bus, log)
	h := handler.New(svc, val)

	m := &Module{handler: h, svc: svc, repo: repo, log: log}
	m.subscribe(bus)
	return m
}

func (m *Module) Name() string {
	return "leads"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

// Repository exposes the lead store for read-model modules (dashboard).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// subscribe moves a lead under contract when one of its offers is accepted.
func (m *Module) subscribe(bus events.Bus) {
	bus.Subscribe("offers.accepted", events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		accepted, ok := e.(events.OfferAccepted)
		if !ok {
			return nil
		}
		if err := m.svc.MarkUnderContract(ctx, accepted.LeadID, accepted.AcceptedBy); err != nil {
			m.log.Warn("moving lead under contract after accepted offer failed",
				"lead_id", accepted.LeadID.String(),
				"offer_id", accepted.OfferID.String(),
				"error", err.Error(),
			)
		}
		return nil
	}))
}

var _ apphttp.Module = (*Module)(nil)
