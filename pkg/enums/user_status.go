package enums

import "fmt"

// UserStatus maps to the user_status_enum type in Postgres.
type UserStatus string

const (
	UserStatusPendingApproval UserStatus = "pending_approval"
	UserStatusPending         UserStatus = "pending"
	UserStatusActive          UserStatus = "active"
)

var validUserStatuses = []UserStatus{
	UserStatusPendingApproval,
	UserStatusPending,
	UserStatusActive,
}

// IsValid reports whether the value matches the canonical user status enum.
func (s UserStatus) IsValid() bool {
	for _, candidate := range validUserStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// AwaitingApproval reports whether an account may still be approved.
func (s UserStatus) AwaitingApproval() bool {
	return s == UserStatusPendingApproval || s == UserStatusPending
}

// ParseUserStatus converts raw input into UserStatus.
func ParseUserStatus(value string) (UserStatus, error) {
	for _, candidate := range validUserStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q", value)
}
