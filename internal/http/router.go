package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/petlabel-backend/internal/http/handlers"
	httpMW "github.com/yungbote/petlabel-backend/internal/http/middleware"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	Tracing     bool
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	LabelHandler     *httpH.LabelHandler
	ActivityHandler  *httpH.ActivityHandler
	DashboardHandler *httpH.DashboardHandler
	ImageHandler     *httpH.ImageHandler
	UserHandler      *httpH.UserHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = "petlabel-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.AttachIdentity())
	}
	{
		// Labels
		if cfg.LabelHandler != nil {
			api.POST("/labels", cfg.LabelHandler.Submit)
		}

		// Activity
		if cfg.ActivityHandler != nil {
			api.GET("/activity", cfg.ActivityHandler.SystemFeed)
			api.GET("/users/:userId/activity", cfg.ActivityHandler.UserFeed)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			api.GET("/metrics", cfg.DashboardHandler.Metrics)
		}

		// Images
		if cfg.ImageHandler != nil {
			api.GET("/images", cfg.ImageHandler.List)
			api.GET("/upload-url", cfg.ImageHandler.UploadURL)
			api.POST("/internal/storage-events", cfg.ImageHandler.StorageEvent)
		}

		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users/:userId", cfg.UserHandler.Get)
			api.GET("/users/:userId/statistics", cfg.UserHandler.Statistics)
			api.GET("/admin/users", cfg.UserHandler.List)
			api.PUT("/admin/users/:userId/role", cfg.UserHandler.UpdateRole)
		}
	}

	return r
}
