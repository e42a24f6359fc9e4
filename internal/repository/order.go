package repository

import (
	"context"
	"errors"
	"time"

	"github.com/chopie/restaurant/internal/models"
	"github.com/chopie/restaurant/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (order_number, table_number, customer_name, customer_email, customer_phone, items, total_amount, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING id, order_number, table_number, customer_name, customer_email, COALESCE(customer_phone, ''), items, total_amount, status, assigned_to, created_at, updated_at
`
	selectOrderByIDQuery = `
						SELECT o.id, o.order_number, o.table_number, o.customer_name, o.customer_email, COALESCE(o.customer_phone, ''), o.items, o.total_amount, o.status, o.assigned_to, COALESCE(u.name, ''), o.created_at, o.updated_at
						FROM orders o
						LEFT JOIN staff_users u ON u.id = o.assigned_to
						WHERE o.id = $1
`
	selectOrderByNumberQuery = `
						SELECT o.id, o.order_number, o.table_number, o.customer_name, o.customer_email, COALESCE(o.customer_phone, ''), o.items, o.total_amount, o.status, o.assigned_to, COALESCE(u.name, ''), o.created_at, o.updated_at
						FROM orders o
						LEFT JOIN staff_users u ON u.id = o.assigned_to
						WHERE o.order_number = $1
`
	selectAllOrdersQuery = `
						SELECT o.id, o.order_number, o.table_number, o.customer_name, o.customer_email, COALESCE(o.customer_phone, ''), o.items, o.total_amount, o.status, o.assigned_to, COALESCE(u.name, ''), o.created_at, o.updated_at
						FROM orders o
						LEFT JOIN staff_users u ON u.id = o.assigned_to
						ORDER BY o.created_at DESC
`
	// staff queue: orders assigned to the staff member in any status, plus
	// pending orders the staff member has not rejected. Single predicate,
	// rejected set is excluded at query time.
	selectStaffOrdersQuery = `
						SELECT o.id, o.order_number, o.table_number, o.customer_name, o.customer_email, COALESCE(o.customer_phone, ''), o.items, o.total_amount, o.status, o.assigned_to, COALESCE(u.name, ''), o.created_at, o.updated_at
						FROM orders o
						LEFT JOIN staff_users u ON u.id = o.assigned_to
						WHERE o.assigned_to = $1
						   OR (o.status = 'pending' AND o.id NOT IN (SELECT order_id FROM rejected_orders WHERE staff_id = $1))
						ORDER BY o.created_at DESC
`
	selectRecentByCustomerQuery = `
						SELECT o.id, o.order_number, o.table_number, o.customer_name, o.customer_email, COALESCE(o.customer_phone, ''), o.items, o.total_amount, o.status, o.assigned_to, COALESCE(u.name, ''), o.created_at, o.updated_at
						FROM orders o
						LEFT JOIN staff_users u ON u.id = o.assigned_to
						WHERE o.customer_email = $1 AND o.total_amount = $2 AND o.created_at >= $3 AND o.status IN ('pending', 'preparing')
						ORDER BY o.created_at DESC
						LIMIT 1
`
	acceptOrderQuery = `
						UPDATE orders
						SET status = 'accepted', assigned_to = $2, updated_at = now()
						WHERE id = $1 AND status = 'pending'
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $3, updated_at = now()
						WHERE id = $1 AND status = $2
`
	deleteOrderQuery = `
						DELETE FROM orders WHERE id = $1
`
)

// OrderRepository implements order storage over postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(&order.ID, &order.OrderNumber, &order.TableNumber, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.Items, &order.TotalAmount, &order.Status, &order.AssignedTo, &order.AssigneeName, &order.CreatedAt, &order.UpdatedAt)
}

// CreateOrder inserts new order. Order number collision is reported as
// models.ErrConflictData so the caller can regenerate and retry.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	var phone *string
	if order.CustomerPhone != "" {
		phone = &order.CustomerPhone
	}

	err := or.db.QueryRow(ctx, insertOrderQuery, order.OrderNumber, order.TableNumber, order.CustomerName, order.CustomerEmail, phone, order.Items, order.TotalAmount, order.Status).
		Scan(&order.ID, &order.OrderNumber, &order.TableNumber, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.Items, &order.TotalAmount, &order.Status, &order.AssignedTo, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrderByNumber returns order by order number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, num string) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectOrderByNumberQuery, num), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (or *OrderRepository) queryOrders(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = scanOrder(rows, &order)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrders returns all orders, newest first
func (or *OrderRepository) GetOrders(ctx context.Context) ([]models.Order, error) {
	return or.queryOrders(ctx, selectAllOrdersQuery)
}

// GetOrdersForStaff returns staff member queue: own assigned orders plus
// pending orders not rejected by them
func (or *OrderRepository) GetOrdersForStaff(ctx context.Context, staffID uint64) ([]models.Order, error) {
	return or.queryOrders(ctx, selectStaffOrdersQuery, staffID)
}

// FindRecentByCustomer returns the latest active order with matching customer
// email and total created after since
func (or *OrderRepository) FindRecentByCustomer(ctx context.Context, email string, total float64, since time.Time) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectRecentByCustomerQuery, email, total, since), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// AcceptOrder atomically claims pending order for staff member. The update is
// conditional on current status, so of two concurrent claims exactly one
// matches a row. Zero affected rows is reported as models.ErrOrderNotPending.
func (or *OrderRepository) AcceptOrder(ctx context.Context, orderID, staffID uint64) error {
	cmd, err := or.db.Exec(ctx, acceptOrderQuery, orderID, staffID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrOrderNotPending
	}

	return nil
}

// UpdateOrderStatus moves order from one status to another with conditional
// update guarding concurrent transitions
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint64, from, to string) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, orderID, from, to)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrOrderNotPending
	}

	return nil
}

// DeleteOrder removes order unconditionally
func (or *OrderRepository) DeleteOrder(ctx context.Context, orderID uint64) error {
	cmd, err := or.db.Exec(ctx, deleteOrderQuery, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
