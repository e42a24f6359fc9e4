package service

import (
	"context"

	"github.com/chopie/restaurant/internal/models"
)

const defaultAuditLimit = 200

// AuditRepository is interface for reading the audit log back
type AuditRepository interface {
	AuditRecorder
	// GetEntries returns recent audit entries
	GetEntries(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// AuditService exposes the audit trail to elevated roles. The order lifecycle
// only ever writes to the log; reads live here.
type AuditService struct {
	repo AuditRepository
}

// NewAuditService creates new AuditService instance
func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Recent returns the newest audit entries
func (as *AuditService) Recent(ctx context.Context) ([]models.AuditEntry, error) {
	return as.repo.GetEntries(ctx, defaultAuditLimit)
}
