package handler

import (
	"context"
	"net/http"

	"github.com/chopie/restaurant/internal/models"
)

// AuditService exposes the audit trail
type AuditService interface {
	// Recent returns the newest audit entries
	Recent(ctx context.Context) ([]models.AuditEntry, error)
}

// AuditHandler represents HTTP handler for audit log requests
type AuditHandler struct {
	svc AuditService
}

// NewAuditHandler creates new AuditHandler instance
func NewAuditHandler(svc AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// ListEntries returns recent audit entries
func (ah *AuditHandler) ListEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := ah.svc.Recent(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", entries)
	}
}
