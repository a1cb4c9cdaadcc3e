package rbac

import (
	"errors"
	"testing"

	"projecthub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{model.RoleAdmin, PermissionListUsers, true},
		{model.RoleAdmin, PermissionManageRoles, true},
		{model.RoleUser, PermissionListUsers, false},
		{model.RoleUser, PermissionManageRoles, false},
		{"guest", PermissionListUsers, false},
		{model.RoleAdmin, "projects:delete_any", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.permission, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestCheckPermission(t *testing.T) {
	require.NoError(t, CheckPermission(1, model.RoleAdmin, PermissionListUsers))

	err := CheckPermission(2, model.RoleUser, PermissionListUsers)
	var denied *PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, 2, denied.UserID)
	assert.Equal(t, PermissionListUsers, denied.Permission)
}
