package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/http"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      cfg.ServiceName,
		Tracing:          cfg.OtelEnabled,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   middleware.Auth,
		LabelHandler:     handlers.Label,
		ActivityHandler:  handlers.Activity,
		DashboardHandler: handlers.Dashboard,
		ImageHandler:     handlers.Image,
		UserHandler:      handlers.User,
		HealthHandler:    handlers.Health,
	})
}
