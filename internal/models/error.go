package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrOrderNotPending    = errors.New("order no longer available")
	ErrCannotUpdateStatus = errors.New("cannot update status")
	ErrNotOrderOwner      = errors.New("order is assigned to another staff member")
	ErrPermissionDenied   = errors.New("access denied")
)

// DuplicateOrderError reports probable accidental resubmission. It carries
// existing order number and creation time so the client can ask the customer
// to confirm or cancel.
type DuplicateOrderError struct {
	OrderNumber string
	CreatedAt   time.Time
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("duplicate order detected: %s", e.OrderNumber)
}

// ValidationError is rejected request input. No side effects have occurred.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates validation error with message
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
