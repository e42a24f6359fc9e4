package repository

import (
	"context"

	"github.com/chopie/restaurant/internal/models"
	"github.com/chopie/restaurant/internal/repository/postgres"
)

const (
	insertRejectionQuery = `
						INSERT INTO rejected_orders (staff_id, order_id)
						VALUES ($1, $2)
						ON CONFLICT (staff_id, order_id) DO NOTHING
`
	selectRejectionsByStaffQuery = `
						SELECT id, staff_id, order_id, created_at FROM rejected_orders
						WHERE staff_id = $1
						ORDER BY created_at DESC
`
	deleteRejectionsQuery = `
						DELETE FROM rejected_orders
`
)

// RejectionRepository implements rejection ledger storage
type RejectionRepository struct {
	db *postgres.DB
}

// NewRejectionRepository creates new RejectionRepository instance
func NewRejectionRepository(db *postgres.DB) *RejectionRepository {
	return &RejectionRepository{db: db}
}

// CreateRejection records that staff member declined order. Repeated
// rejection of the same order is a no-op.
func (rr *RejectionRepository) CreateRejection(ctx context.Context, staffID, orderID uint64) error {
	_, err := rr.db.Exec(ctx, insertRejectionQuery, staffID, orderID)
	return err
}

// GetRejectionsByStaff returns rejection records of staff member
func (rr *RejectionRepository) GetRejectionsByStaff(ctx context.Context, staffID uint64) ([]models.RejectionRecord, error) {
	rows, err := rr.db.Query(ctx, selectRejectionsByStaffQuery, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.RejectionRecord{}

	for rows.Next() {
		rec := models.RejectionRecord{}
		err = rows.Scan(&rec.ID, &rec.StaffID, &rec.OrderID, &rec.CreatedAt)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ClearAll wipes the ledger. Administrative bulk reset.
func (rr *RejectionRepository) ClearAll(ctx context.Context) error {
	_, err := rr.db.Exec(ctx, deleteRejectionsQuery)
	return err
}
