package service

import "github.com/chopie/restaurant/internal/models"

// Permission is single gated operation
type Permission int

const (
	// PermListAllOrders lists orders without the per-staff queue filter
	PermListAllOrders Permission = iota
	// PermAcceptOrder claims a pending order
	PermAcceptOrder
	// PermRejectOrder rejects a pending order
	PermRejectOrder
	// PermAdvanceOrder advances an order the staff member owns
	PermAdvanceOrder
	// PermAdvanceAnyOrder advances orders regardless of assignment
	PermAdvanceAnyOrder
	// PermDeleteOrder removes an order unconditionally
	PermDeleteOrder
	// PermManageUsers provisions and toggles staff accounts
	PermManageUsers
	// PermAwardStar awards performance stars
	PermAwardStar
	// PermViewAudit reads the audit log
	PermViewAudit
	// PermClearRejections wipes the rejection ledger
	PermClearRejections
)

// rolePermissions is the closed role x operation table
var rolePermissions = map[string]map[Permission]bool{
	models.RoleAdmin: {
		PermListAllOrders:   true,
		PermAcceptOrder:     true,
		PermRejectOrder:     true,
		PermAdvanceOrder:    true,
		PermAdvanceAnyOrder: true,
		PermDeleteOrder:     true,
		PermManageUsers:     true,
		PermAwardStar:       true,
		PermViewAudit:       true,
		PermClearRejections: true,
	},
	models.RoleManager: {
		PermListAllOrders:   true,
		PermAcceptOrder:     true,
		PermRejectOrder:     true,
		PermAdvanceOrder:    true,
		PermAdvanceAnyOrder: true,
		PermAwardStar:       true,
		PermViewAudit:       true,
	},
	models.RoleStaff: {
		PermAcceptOrder:  true,
		PermRejectOrder:  true,
		PermAdvanceOrder: true,
	},
}

// Allowed reports whether role may perform the operation. Unknown roles have
// no permissions.
func Allowed(role string, perm Permission) bool {
	return rolePermissions[role][perm]
}

// ValidRole reports whether role belongs to the closed role set
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}
