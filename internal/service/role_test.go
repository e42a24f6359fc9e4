package service

import (
	"testing"

	"github.com/chopie/restaurant/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role string
		perm Permission
		want bool
	}{
		{"admin_lists_all", models.RoleAdmin, PermListAllOrders, true},
		{"admin_deletes", models.RoleAdmin, PermDeleteOrder, true},
		{"admin_manages_users", models.RoleAdmin, PermManageUsers, true},
		{"manager_lists_all", models.RoleManager, PermListAllOrders, true},
		{"manager_advances_any", models.RoleManager, PermAdvanceAnyOrder, true},
		{"manager_cannot_delete", models.RoleManager, PermDeleteOrder, false},
		{"manager_cannot_manage_users", models.RoleManager, PermManageUsers, false},
		{"staff_accepts", models.RoleStaff, PermAcceptOrder, true},
		{"staff_rejects", models.RoleStaff, PermRejectOrder, true},
		{"staff_advances_own_only", models.RoleStaff, PermAdvanceAnyOrder, false},
		{"staff_cannot_list_all", models.RoleStaff, PermListAllOrders, false},
		{"staff_cannot_view_audit", models.RoleStaff, PermViewAudit, false},
		{"unknown_role_has_nothing", "waiter", PermAcceptOrder, false},
		{"empty_role_has_nothing", "", PermAcceptOrder, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.perm))
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(models.RoleAdmin))
	assert.True(t, ValidRole(models.RoleManager))
	assert.True(t, ValidRole(models.RoleStaff))
	assert.False(t, ValidRole("SuperAdmin"))
	assert.False(t, ValidRole(""))
}
