package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
	"github.com/yungbote/petlabel-backend/internal/services"
)

type Services struct {
	Notifier    services.Notifier
	Submissions services.LabelSubmissionService
	Activity    services.ActivityService
	Statistics  services.StatisticsService
	Dashboard   services.DashboardService
	Images      services.ImageService
	Users       services.UserService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	notifier := services.NewNotifier(clients.Bus, log, cfg.ServiceName)
	observer := services.MultiObserver{
		services.NewMetricsObserver(metrics),
		services.NewNotificationObserver(notifier, metrics, log),
	}

	submissions := services.NewLabelSubmissionService(
		db,
		log,
		reposet.Label,
		reposet.Image,
		observer,
		services.NewLabelIDGenerator(),
		services.LabelSubmissionConfig{
			Atomic:       cfg.LabelSubmissionAtomic,
			WriteTimeout: cfg.WriteTimeout,
			Fanout:       cfg.WriteFanout,
		},
	)
	activity := services.NewActivityService(log, reposet.Image, reposet.Label, metrics, services.ActivityConfig{
		UploadLimit: cfg.ActivityUploadLimit,
		LabelLimit:  cfg.ActivityLabelLimit,
		FeedLimit:   cfg.ActivityFeedLimit,
	})

	return Services{
		Notifier:    notifier,
		Submissions: submissions,
		Activity:    activity,
		Statistics:  services.NewStatisticsService(log, reposet.Image, reposet.Label, metrics),
		Dashboard: services.NewCachedDashboard(
			services.NewDashboardService(log, reposet.Image, reposet.Label, activity),
			cfg.DashboardCacheTTL,
		),
		Images: services.NewImageService(log, reposet.Image, clients.Signer, notifier, metrics, services.ImageConfig{
			ViewURLTTL:   cfg.SignedURLTTL,
			UploadURLTTL: cfg.UploadURLTTL,
		}),
		Users: services.NewUserService(log, reposet.User),
	}
}
