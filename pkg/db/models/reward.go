package models

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a redeemable catalog item.
type Reward struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"type:text;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	PointsRequired int       `gorm:"column:points_required;not null" json:"points_required"`
	Category       string    `gorm:"column:category;not null;index" json:"category"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
