package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type UserRepo interface {
	// Upsert creates the profile or overwrites name/email/role.
	Upsert(dbc dbctx.Context, p *types.UserProfile) error
	GetByID(dbc dbctx.Context, userID string) (*types.UserProfile, error)
	List(dbc dbctx.Context, limit int) ([]*types.UserProfile, error)
	// UpdateRole reports false when no profile matched.
	UpdateRole(dbc dbctx.Context, userID, role string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Upsert(dbc dbctx.Context, p *types.UserProfile) error {
	if p == nil || p.UserID == "" {
		return nil
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return dbc.Conn(ur.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "updated_at"}),
		}).
		Create(p).Error
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID string) (*types.UserProfile, error) {
	if userID == "" {
		return nil, nil
	}
	var p types.UserProfile
	err := dbc.Conn(ur.db).Where("user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (ur *userRepo) List(dbc dbctx.Context, limit int) ([]*types.UserProfile, error) {
	var out []*types.UserProfile
	q := dbc.Conn(ur.db).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (ur *userRepo) UpdateRole(dbc dbctx.Context, userID, role string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	res := dbc.Conn(ur.db).
		Model(&types.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
