package domain

import (
	"github.com/yungbote/petlabel-backend/internal/domain/labeling"
	"github.com/yungbote/petlabel-backend/internal/domain/user"
)

type (
	Label          = labeling.Label
	LabelInput     = labeling.LabelInput
	TypeValueCount = labeling.TypeValueCount
	Image          = labeling.Image
	LabelStatus    = labeling.LabelStatus
	StatusMark     = labeling.StatusMark

	UserProfile = user.Profile
)

const (
	StatusUnlabeled = labeling.StatusUnlabeled
	StatusLabeled   = labeling.StatusLabeled

	DefaultConfidence = labeling.DefaultConfidence
)

// Models lists every persisted type, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Image{},
		&Label{},
		&UserProfile{},
	}
}
