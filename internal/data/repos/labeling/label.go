package labeling

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type LabelRepo interface {
	// Create inserts one label row.
	Create(dbc dbctx.Context, label *types.Label) error
	// CreateBatch inserts all rows in a single statement.
	CreateBatch(dbc dbctx.Context, labels []*types.Label) error
	ListByImage(dbc dbctx.Context, imageID string) ([]*types.Label, error)
	// ListRecent returns the newest rows across all labelers.
	ListRecent(dbc dbctx.Context, limit int) ([]*types.Label, error)
	// ListByLabeler returns a labeler's newest rows.
	ListByLabeler(dbc dbctx.Context, labeledBy string, limit int) ([]*types.Label, error)
	// ImageIDsByLabeler returns the image id of every row by labeledBy, duplicates included.
	ImageIDsByLabeler(dbc dbctx.Context, labeledBy string) ([]string, error)
	TypeValueCounts(dbc dbctx.Context) ([]types.TypeValueCount, error)
}

type labelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLabelRepo(db *gorm.DB, baseLog *logger.Logger) LabelRepo {
	return &labelRepo{
		db:  db,
		log: baseLog.With("repo", "LabelRepo"),
	}
}

func (r *labelRepo) Create(dbc dbctx.Context, label *types.Label) error {
	if label == nil {
		return nil
	}
	if err := dbc.Conn(r.db).Create(label).Error; err != nil {
		return fmt.Errorf("create label %s: %w", label.LabelID, err)
	}
	return nil
}

func (r *labelRepo) CreateBatch(dbc dbctx.Context, labels []*types.Label) error {
	if len(labels) == 0 {
		return nil
	}
	if err := dbc.Conn(r.db).Create(&labels).Error; err != nil {
		return fmt.Errorf("create %d labels: %w", len(labels), err)
	}
	return nil
}

func (r *labelRepo) ListByImage(dbc dbctx.Context, imageID string) ([]*types.Label, error) {
	var out []*types.Label
	if imageID == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("image_id = ?", imageID).
		Order("labeled_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *labelRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.Label, error) {
	var out []*types.Label
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Order("labeled_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *labelRepo) ListByLabeler(dbc dbctx.Context, labeledBy string, limit int) ([]*types.Label, error) {
	var out []*types.Label
	if labeledBy == "" || limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("labeled_by = ?", labeledBy).
		Order("labeled_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *labelRepo) ImageIDsByLabeler(dbc dbctx.Context, labeledBy string) ([]string, error) {
	var out []string
	if labeledBy == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.Label{}).
		Where("labeled_by = ?", labeledBy).
		Pluck("image_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *labelRepo) TypeValueCounts(dbc dbctx.Context) ([]types.TypeValueCount, error) {
	var out []types.TypeValueCount
	if err := dbc.Conn(r.db).
		Model(&types.Label{}).
		Select("label_type, label_value, COUNT(*) AS count").
		Group("label_type, label_value").
		Order("label_type, label_value").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
