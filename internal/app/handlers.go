package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/petlabel-backend/internal/http/handlers"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Label     *httpH.LabelHandler
	Activity  *httpH.ActivityHandler
	Dashboard *httpH.DashboardHandler
	Image     *httpH.ImageHandler
	User      *httpH.UserHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(pingDB(db)),
		Label:     httpH.NewLabelHandler(services.Submissions),
		Activity:  httpH.NewActivityHandler(services.Activity),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
		Image:     httpH.NewImageHandler(services.Images, cfg.StorageEventsToken),
		User:      httpH.NewUserHandler(services.Users, services.Statistics),
	}
}

func pingDB(db *gorm.DB) httpH.Pinger {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
