package user

import "time"

// Profile mirrors an identity provider user in the local directory.
type Profile struct {
	UserID    string    `gorm:"primaryKey;column:user_id" json:"userId"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"index;column:email" json:"email"`
	Role      string    `gorm:"not null;column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (Profile) TableName() string { return "user_profile" }
