package dashboard

import (
	"github.com/gin-gonic/gin"

	"wholesale_crm_backend/internal/dashboard/service"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/platform/httpkit"
)

type Module struct {
	svc *service.Service
}

func NewModule(leads service.LeadCounter, tasks service.TaskCounter, buyers service.BuyerCounter) *Module {
	return &Module{svc: service.New(leads, tasks, buyers)}
}

func (m *Module) Name() string {
	return "dashboard"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/dashboard", m.stats)
}

func (m *Module) stats(c *gin.Context) {
	stats, err := m.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

var _ apphttp.Module = (*Module)(nil)
