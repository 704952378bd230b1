package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type Repos struct {
	Label repos.LabelRepo
	Image repos.ImageRepo
	User  repos.UserRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Label: repos.NewLabelRepo(db, log),
		Image: repos.NewImageRepo(db, log),
		User:  repos.NewUserRepo(db, log),
	}
}
