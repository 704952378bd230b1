package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/http/response"
	"github.com/yungbote/petlabel-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /api/metrics
func (h *DashboardHandler) Metrics(c *gin.Context) {
	out, err := h.dashboard.Metrics(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
