package repository

import (
	"context"

	"github.com/chopie/restaurant/internal/models"
	"github.com/chopie/restaurant/internal/repository/postgres"
)

const (
	insertAuditQuery = `
						INSERT INTO audit_log (staff_id, order_id, action, details, source_addr)
						VALUES ($1, $2, $3, $4, $5)
`
	selectAuditQuery = `
						SELECT id, staff_id, order_id, action, details, source_addr, created_at FROM audit_log
						ORDER BY created_at DESC
						LIMIT $1
`
)

// AuditRepository implements append-only audit log storage
type AuditRepository struct {
	db *postgres.DB
}

// NewAuditRepository creates new AuditRepository instance
func NewAuditRepository(db *postgres.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateEntry appends audit entry
func (ar *AuditRepository) CreateEntry(ctx context.Context, entry models.AuditEntry) error {
	_, err := ar.db.Exec(ctx, insertAuditQuery, entry.StaffID, entry.OrderID, entry.Action, entry.Details, entry.SourceAddr)
	return err
}

// GetEntries returns recent audit entries, newest first
func (ar *AuditRepository) GetEntries(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	rows, err := ar.db.Query(ctx, selectAuditQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}

	for rows.Next() {
		entry := models.AuditEntry{}
		err = rows.Scan(&entry.ID, &entry.StaffID, &entry.OrderID, &entry.Action, &entry.Details, &entry.SourceAddr, &entry.CreatedAt)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
