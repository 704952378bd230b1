package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/petlabel-backend/internal/data/repos/labeling"
	"github.com/yungbote/petlabel-backend/internal/data/repos/user"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type LabelRepo = labeling.LabelRepo
type ImageRepo = labeling.ImageRepo
type UserRepo = user.UserRepo

func NewLabelRepo(db *gorm.DB, log *logger.Logger) LabelRepo {
	return labeling.NewLabelRepo(db, log)
}

func NewImageRepo(db *gorm.DB, log *logger.Logger) ImageRepo {
	return labeling.NewImageRepo(db, log)
}

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return user.NewUserRepo(db, log)
}
