package models

import "time"

// audit actions
const (
	AuditActionAcceptOrder  = "ACCEPT_ORDER"
	AuditActionRejectOrder  = "REJECT_ORDER"
	AuditActionUpdateStatus = "UPDATE_STATUS"
	AuditActionDeleteOrder  = "DELETE_ORDER"
	AuditActionCreateUser   = "CREATE_USER"
	AuditActionToggleUser   = "TOGGLE_USER"
	AuditActionAwardStar    = "AWARD_STAR"
)

// AuditEntry is append-only record of staff action
type AuditEntry struct {
	ID         uint64    `json:"id"`
	StaffID    uint64    `json:"staffId"`
	OrderID    *uint64   `json:"orderId,omitempty"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	SourceAddr string    `json:"sourceAddr"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RejectionRecord marks order declined by staff member. Append-only,
// used as negative filter for the staff pending queue.
type RejectionRecord struct {
	ID        uint64    `json:"id"`
	StaffID   uint64    `json:"staffId"`
	OrderID   uint64    `json:"orderId"`
	CreatedAt time.Time `json:"createdAt"`
}
