package rbac

import "projecthub/internal/model"

// Role-gated permissions. Everything else in the API is ownership based and
// does not go through this table.
const (
	PermissionListUsers   = "users:list"
	PermissionManageRoles = "users:manage_roles"
)

var rolePermissions = map[string][]string{
	model.RoleUser: {},
	model.RoleAdmin: {
		PermissionListUsers,
		PermissionManageRoles,
	},
}

// HasPermission reports whether role grants permission.
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission is HasPermission returning an error, for middleware use.
func CheckPermission(userID int, role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			UserID:     userID,
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

type PermissionDeniedError struct {
	UserID     int
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
