package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mzansigreen/office-backend/pkg/enums"
)

// User represents the canonical identity entity. Role is stored both as the
// enum column and as a foreign key into the roles catalog; every write path
// updates the two together inside one transaction.
type User struct {
	ID                 uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email              string           `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash       string           `gorm:"column:password_hash;not null" json:"-"`
	FirstName          string           `gorm:"column:first_name;not null" json:"first_name"`
	LastName           string           `gorm:"column:last_name;not null" json:"last_name"`
	Phone              *string          `gorm:"column:phone" json:"phone,omitempty"`
	Role               enums.Role       `gorm:"column:role;type:role_enum;not null;default:'resident'" json:"role"`
	RoleID             *uuid.UUID       `gorm:"column:role_id;type:uuid" json:"role_id,omitempty"`
	Status             enums.UserStatus `gorm:"column:status;type:user_status_enum;not null;default:'pending_approval'" json:"status"`
	IsApproved         bool             `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	ApprovalDate       *time.Time       `gorm:"column:approval_date" json:"approval_date,omitempty"`
	MustChangePassword bool             `gorm:"column:must_change_password;not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Role is a catalog row backing User.RoleID.
type Role struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        enums.Role `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
