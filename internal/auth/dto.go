package auth

import (
	"github.com/google/uuid"

	"github.com/mzansigreen/office-backend/pkg/enums"
)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the minted token plus the flags the dashboard needs
// to route the session. When MustChangePassword is set, AccessToken is empty
// and the client has to call change-password first.
type LoginResponse struct {
	AccessToken        string     `json:"access_token,omitempty"`
	MustChangePassword bool       `json:"must_change_password"`
	UserID             uuid.UUID  `json:"user_id"`
	Email              string     `json:"email"`
	Role               enums.Role `json:"role"`
}

// ChangePasswordRequest rotates a credential, clearing the temp-password flag.
type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=10"`
}
