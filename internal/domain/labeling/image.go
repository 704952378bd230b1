package labeling

import (
	"time"

	"gorm.io/datatypes"
)

type LabelStatus string

const (
	StatusUnlabeled LabelStatus = "unlabeled"
	StatusLabeled   LabelStatus = "labeled"
)

func (s LabelStatus) Valid() bool {
	return s == StatusUnlabeled || s == StatusLabeled
}

// Image is the single mutable record per uploaded image. The upload pipeline
// creates it; label submission is the only writer of the status fields.
type Image struct {
	ImageID        string      `gorm:"primaryKey;column:image_id" json:"imageId"`
	OriginalKey    string      `gorm:"column:original_key" json:"originalKey,omitempty"`
	ThumbnailKey   string      `gorm:"column:thumbnail_key" json:"thumbnailKey,omitempty"`
	ContentType    string      `gorm:"column:content_type" json:"contentType,omitempty"`
	LabelStatus    LabelStatus `gorm:"not null;index;column:label_status" json:"labelStatus"`
	UploadedBy     string      `gorm:"index:idx_image_uploader_time,priority:1;column:uploaded_by" json:"uploadedBy"`
	UploadedByName string      `gorm:"column:uploaded_by_name" json:"uploadedByName"`
	UploadedAt     time.Time   `gorm:"index;index:idx_image_uploader_time,priority:2;column:uploaded_at" json:"uploadedAt"`

	LastLabeledAt     *time.Time `gorm:"column:last_labeled_at" json:"lastLabeledAt,omitempty"`
	LastLabeledBy     string     `gorm:"column:last_labeled_by" json:"lastLabeledBy,omitempty"`
	LastLabeledByName string     `gorm:"column:last_labeled_by_name" json:"lastLabeledByName,omitempty"`

	Metadata datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
}

func (Image) TableName() string { return "image" }

// StatusMark is the stamp a label batch leaves on its image.
type StatusMark struct {
	ImageID           string
	LastLabeledAt     time.Time
	LastLabeledBy     string
	LastLabeledByName string
}
