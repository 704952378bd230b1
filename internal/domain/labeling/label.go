package labeling

import "time"

// Label is one attribute/value annotation on an image. Rows are append-only.
type Label struct {
	LabelID       string    `gorm:"primaryKey;column:label_id" json:"labelId"`
	ImageID       string    `gorm:"not null;index;column:image_id" json:"imageId"`
	LabelType     string    `gorm:"not null;column:label_type" json:"labelType"`
	LabelValue    string    `gorm:"not null;column:label_value" json:"labelValue"`
	Confidence    float64   `gorm:"not null;column:confidence" json:"confidence"`
	LabeledBy     string    `gorm:"not null;index:idx_label_labeler_time,priority:1;column:labeled_by" json:"labeledBy"`
	LabeledByName string    `gorm:"column:labeled_by_name" json:"labeledByName"`
	LabeledAt     time.Time `gorm:"not null;index;index:idx_label_labeler_time,priority:2;column:labeled_at" json:"labeledAt"`
}

func (Label) TableName() string { return "label" }

// LabelInput is a label as submitted by a client.
type LabelInput struct {
	Type       string   `json:"type"`
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// DefaultConfidence applies when a submission omits confidence or sends 0.
const DefaultConfidence = 1.0

// TypeValueCount is one (type, value) bucket of the label distribution.
type TypeValueCount struct {
	LabelType  string `gorm:"column:label_type"`
	LabelValue string `gorm:"column:label_value"`
	Count      int64  `gorm:"column:count"`
}
