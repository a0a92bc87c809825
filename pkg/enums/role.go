package enums

import (
	"fmt"
	"strings"
)

// Role maps to the role_enum type in Postgres and is the single
// authoritative role representation; display text derives from it.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
	RoleAdminManager Role = "admin_manager"
	RoleStaff        Role = "staff"
	RoleCollector    Role = "collector"
	RoleResident     Role = "resident"
)

var validRoles = []Role{
	RoleAdmin,
	RoleSuperAdmin,
	RoleAdminManager,
	RoleStaff,
	RoleCollector,
	RoleResident,
}

// roleAliases folds the historical spellings seen in imported data onto the
// canonical enum. Matching happens after lowercasing and stripping
// underscores, so "SUPER_ADMIN", "superadmin" and "Super_Admin" all resolve.
var roleAliases = map[string]Role{
	"admin":        RoleAdmin,
	"superadmin":   RoleSuperAdmin,
	"adminmanager": RoleAdminManager,
	"staff":        RoleStaff,
	"collector":    RoleCollector,
	"resident":     RoleResident,
	// legacy spelling from the first import
	"member": RoleResident,
}

// IsValid reports whether the value matches the canonical role enum.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdministrative reports whether the role grants office-app access.
func (r Role) IsAdministrative() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleAdminManager:
		return true
	}
	return false
}

// ParseRole resolves raw input, including alias spellings, into a Role.
func ParseRole(value string) (Role, error) {
	folded := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "")
	if role, ok := roleAliases[folded]; ok {
		return role, nil
	}
	return "", fmt.Errorf("invalid role %q, allowed roles: %s", value, strings.Join(RoleNames(), ", "))
}

// RoleNames returns the canonical role names in declaration order.
func RoleNames() []string {
	names := make([]string, 0, len(validRoles))
	for _, role := range validRoles {
		names = append(names, string(role))
	}
	return names
}
