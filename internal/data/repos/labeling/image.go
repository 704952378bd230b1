package labeling

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type ImageRepo interface {
	Get(dbc dbctx.Context, imageID string) (*types.Image, error)
	// Register upserts an image from the upload pipeline. On conflict the
	// upload fields are refreshed and the label status is left alone.
	Register(dbc dbctx.Context, img *types.Image) error
	// MarkLabeled sets status to labeled and stamps the last-labeled fields,
	// creating the record if the pipeline never registered it.
	MarkLabeled(dbc dbctx.Context, mark types.StatusMark) error
	ListRecentUploads(dbc dbctx.Context, limit int) ([]*types.Image, error)
	ListRecentUploadsByUser(dbc dbctx.Context, uploadedBy string, limit int) ([]*types.Image, error)
	ListByStatus(dbc dbctx.Context, status types.LabelStatus, uploadedBy string, limit int) ([]*types.Image, error)
	CountByUploader(dbc dbctx.Context, uploadedBy string) (int64, error)
	CountAll(dbc dbctx.Context) (int64, error)
	CountByStatus(dbc dbctx.Context, status types.LabelStatus) (int64, error)
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{
		db:  db,
		log: baseLog.With("repo", "ImageRepo"),
	}
}

func (r *imageRepo) Get(dbc dbctx.Context, imageID string) (*types.Image, error) {
	if imageID == "" {
		return nil, nil
	}
	var img types.Image
	err := dbc.Conn(r.db).Where("image_id = ?", imageID).Take(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepo) Register(dbc dbctx.Context, img *types.Image) error {
	if img == nil || img.ImageID == "" {
		return fmt.Errorf("register image: missing image id")
	}
	if !img.LabelStatus.Valid() {
		img.LabelStatus = types.StatusUnlabeled
	}
	if img.UploadedAt.IsZero() {
		img.UploadedAt = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "image_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"original_key",
				"thumbnail_key",
				"content_type",
				"uploaded_by",
				"uploaded_by_name",
				"uploaded_at",
				"metadata",
			}),
		}).
		Create(img).Error
}

func (r *imageRepo) MarkLabeled(dbc dbctx.Context, mark types.StatusMark) error {
	if mark.ImageID == "" {
		return fmt.Errorf("mark labeled: missing image id")
	}
	at := mark.LastLabeledAt.UTC()
	row := &types.Image{
		ImageID:           mark.ImageID,
		LabelStatus:       types.StatusLabeled,
		LastLabeledAt:     &at,
		LastLabeledBy:     mark.LastLabeledBy,
		LastLabeledByName: mark.LastLabeledByName,
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "image_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"label_status",
				"last_labeled_at",
				"last_labeled_by",
				"last_labeled_by_name",
			}),
		}).
		Create(row).Error
}

// uploaded restricts to rows the upload pipeline actually registered.
func uploaded(q *gorm.DB) *gorm.DB {
	return q.Where("uploaded_at > ?", time.Time{})
}

func (r *imageRepo) ListRecentUploads(dbc dbctx.Context, limit int) ([]*types.Image, error) {
	var out []*types.Image
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Scopes(uploaded).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageRepo) ListRecentUploadsByUser(dbc dbctx.Context, uploadedBy string, limit int) ([]*types.Image, error) {
	var out []*types.Image
	if uploadedBy == "" || limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Scopes(uploaded).
		Where("uploaded_by = ?", uploadedBy).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageRepo) ListByStatus(dbc dbctx.Context, status types.LabelStatus, uploadedBy string, limit int) ([]*types.Image, error) {
	var out []*types.Image
	if limit <= 0 {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("label_status = ?", status)
	if uploadedBy != "" {
		q = q.Where("uploaded_by = ?", uploadedBy)
	}
	if err := q.Order("uploaded_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageRepo) CountByUploader(dbc dbctx.Context, uploadedBy string) (int64, error) {
	var n int64
	if uploadedBy == "" {
		return 0, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.Image{}).
		Where("uploaded_by = ?", uploadedBy).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *imageRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.Image{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *imageRepo) CountByStatus(dbc dbctx.Context, status types.LabelStatus) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).
		Model(&types.Image{}).
		Where("label_status = ?", status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
