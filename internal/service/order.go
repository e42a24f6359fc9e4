package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chopie/restaurant/internal/logger"
	"github.com/chopie/restaurant/internal/models"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uint64) (*models.Order, error)
	// GetOrderByNumber returns order by order number
	GetOrderByNumber(ctx context.Context, num string) (*models.Order, error)
	// GetOrders returns all orders
	GetOrders(ctx context.Context) ([]models.Order, error)
	// GetOrdersForStaff returns staff member queue
	GetOrdersForStaff(ctx context.Context, staffID uint64) ([]models.Order, error)
	// FindRecentByCustomer returns latest active order matching customer email and total
	FindRecentByCustomer(ctx context.Context, email string, total float64, since time.Time) (*models.Order, error)
	// AcceptOrder atomically claims pending order for staff member
	AcceptOrder(ctx context.Context, orderID, staffID uint64) error
	// UpdateOrderStatus moves order between statuses with conditional update
	UpdateOrderStatus(ctx context.Context, orderID uint64, from, to string) error
	// DeleteOrder removes order unconditionally
	DeleteOrder(ctx context.Context, orderID uint64) error
}

// RejectionRepository is interface for the rejection ledger
type RejectionRepository interface {
	// CreateRejection records that staff member declined order
	CreateRejection(ctx context.Context, staffID, orderID uint64) error
	// GetRejectionsByStaff returns staff member rejection records
	GetRejectionsByStaff(ctx context.Context, staffID uint64) ([]models.RejectionRecord, error)
	// ClearAll wipes the ledger
	ClearAll(ctx context.Context) error
}

// AuditRecorder is append-only sink for staff actions
type AuditRecorder interface {
	CreateEntry(ctx context.Context, entry models.AuditEntry) error
}

// Notifier is best-effort fan-out to connected dashboard clients. Broadcast
// must not block and gives no delivery guarantee.
type Notifier interface {
	Broadcast(event string, payload any)
}

// Mailer queues transactional email. Enqueueing never fails the caller.
type Mailer interface {
	QueueOrderConfirmation(order *models.Order)
	QueueStatusUpdate(order *models.Order, status string)
}

// OrderService implements the order lifecycle
type OrderService struct {
	repo       OrderRepository
	rejections RejectionRepository
	audit      AuditRecorder
	notifier   Notifier
	mailer     Mailer
	window     time.Duration
	now        func() time.Time
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, rejections RejectionRepository, audit AuditRecorder, notifier Notifier, mailer Mailer, window time.Duration) *OrderService {
	return &OrderService{
		repo:       repo,
		rejections: rejections,
		audit:      audit,
		notifier:   notifier,
		mailer:     mailer,
		window:     window,
		now:        time.Now,
	}
}

func validateNewOrder(order *models.Order) error {
	if strings.TrimSpace(order.TableNumber) == "" {
		return models.NewValidationError("table number is required")
	}
	if strings.TrimSpace(order.CustomerName) == "" {
		return models.NewValidationError("customer name is required")
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		return models.NewValidationError("customer email is required")
	}
	if len(order.Items) == 0 {
		return models.NewValidationError("items are required and cannot be empty")
	}
	for _, item := range order.Items {
		if strings.TrimSpace(item.Name) == "" {
			return models.NewValidationError("item name is required")
		}
		if item.Quantity <= 0 {
			return models.NewValidationError("item quantity must be positive")
		}
	}
	if order.TotalAmount <= 0 {
		return models.NewValidationError("total amount must be positive")
	}
	return nil
}

// Create validates and persists a customer order. Without explicit
// confirmation, an active order from the same customer with the same total
// and identical item set inside the duplicate window is reported as
// models.DuplicateOrderError.
//
// TotalAmount is taken from the client as-is and not recomputed from items;
// the ordering frontend owns the pricing snapshot.
func (os *OrderService) Create(ctx context.Context, order *models.Order, confirmDuplicate bool) (*models.Order, error) {
	if err := validateNewOrder(order); err != nil {
		return nil, err
	}

	if !confirmDuplicate {
		since := os.now().Add(-os.window)
		existing, err := os.repo.FindRecentByCustomer(ctx, order.CustomerEmail, order.TotalAmount, since)
		if err != nil && !errors.Is(err, models.ErrDataNotFound) {
			return nil, err
		}
		if existing != nil && sameItems(existing.Items, order.Items) {
			return nil, &models.DuplicateOrderError{
				OrderNumber: existing.OrderNumber,
				CreatedAt:   existing.CreatedAt,
			}
		}
	}

	order.Status = models.OrderStatusPending
	order.AssignedTo = nil

	order.OrderNumber = GenerateOrderNumber(os.now())
	created, err := os.repo.CreateOrder(ctx, order)
	if errors.Is(err, models.ErrConflictData) {
		// number collision, retry once with a fresh suffix
		order.OrderNumber = GenerateOrderNumber(os.now())
		created, err = os.repo.CreateOrder(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	os.mailer.QueueOrderConfirmation(created)

	os.notifier.Broadcast(models.EventNewOrder, models.NewOrderEvent{
		OrderID:      created.ID,
		OrderNumber:  created.OrderNumber,
		CustomerName: created.CustomerName,
		TotalAmount:  created.TotalAmount,
		TableNumber:  created.TableNumber,
	})

	return created, nil
}

// Accept claims pending order for the acting staff member. Of two concurrent
// claims exactly one succeeds, the loser gets models.ErrOrderNotPending.
func (os *OrderService) Accept(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) (*models.Order, error) {
	err := os.repo.AcceptOrder(ctx, orderID, actor.UserID)
	if errors.Is(err, models.ErrOrderNotPending) {
		// distinguish a lost race from an unknown order
		if _, getErr := os.repo.GetOrderByID(ctx, orderID); getErr != nil {
			return nil, getErr
		}
		return nil, models.ErrOrderNotPending
	}
	if err != nil {
		return nil, err
	}

	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	os.recordAudit(ctx, actor.UserID, &orderID, models.AuditActionAcceptOrder,
		fmt.Sprintf("Accepted order %s", order.OrderNumber), sourceAddr)

	os.notifier.Broadcast(models.EventOrderAccepted, models.OrderAcceptedEvent{
		OrderID:    orderID,
		AssignedTo: actor.Name,
	})

	return order, nil
}

// Reject cancels pending order and records the rejection in the ledger so it
// never reappears in the rejecter's queue.
func (os *OrderService) Reject(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) error {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != models.OrderStatusPending {
		return models.ErrOrderNotPending
	}

	err = os.repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return err
	}

	if err := os.rejections.CreateRejection(ctx, actor.UserID, orderID); err != nil {
		logger.Log.Error("record rejection", zap.Uint64("order", orderID), zap.Error(err))
	}

	os.recordAudit(ctx, actor.UserID, &orderID, models.AuditActionRejectOrder,
		fmt.Sprintf("Rejected order %s", order.OrderNumber), sourceAddr)

	os.notifier.Broadcast(models.EventOrderRejected, models.OrderRejectedEvent{
		OrderID:    orderID,
		RejectedBy: actor.Name,
	})

	return nil
}

// Advance moves order along the fixed flow accepted -> preparing ->
// completed. Staff members may advance only their own orders; roles with
// PermAdvanceAnyOrder bypass the ownership check.
func (os *OrderService) Advance(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !Allowed(actor.Role, PermAdvanceAnyOrder) {
		if order.AssignedTo == nil || *order.AssignedTo != actor.UserID {
			return nil, models.ErrNotOrderOwner
		}
	}

	next, ok := NextStatus(order.Status)
	if !ok {
		return nil, models.ErrCannotUpdateStatus
	}

	err = os.repo.UpdateOrderStatus(ctx, orderID, order.Status, next)
	if errors.Is(err, models.ErrOrderNotPending) {
		// someone advanced it first
		return nil, models.ErrCannotUpdateStatus
	}
	if err != nil {
		return nil, err
	}

	order.Status = next

	os.recordAudit(ctx, actor.UserID, &orderID, models.AuditActionUpdateStatus,
		fmt.Sprintf("Updated order %s to %s", order.OrderNumber, next), sourceAddr)

	os.notifier.Broadcast(models.EventOrderStatusUpdated, models.OrderStatusEvent{
		OrderID: orderID,
		Status:  next,
	})

	os.mailer.QueueStatusUpdate(order, next)

	return order, nil
}

// List returns orders visible to the actor. Elevated roles see everything,
// staff see their filtered queue.
func (os *OrderService) List(ctx context.Context, actor models.TokenPayload) ([]models.Order, error) {
	if Allowed(actor.Role, PermListAllOrders) {
		return os.repo.GetOrders(ctx)
	}
	return os.repo.GetOrdersForStaff(ctx, actor.UserID)
}

// GetByID returns order by id
func (os *OrderService) GetByID(ctx context.Context, orderID uint64) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, orderID)
}

// Delete removes order unconditionally. Administrative operation, bypasses
// the state machine.
func (os *OrderService) Delete(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) error {
	if err := os.repo.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	os.recordAudit(ctx, actor.UserID, &orderID, models.AuditActionDeleteOrder,
		fmt.Sprintf("Deleted order %d", orderID), sourceAddr)

	return nil
}

// ListRejections returns the actor's own rejection records
func (os *OrderService) ListRejections(ctx context.Context, actor models.TokenPayload) ([]models.RejectionRecord, error) {
	return os.rejections.GetRejectionsByStaff(ctx, actor.UserID)
}

// ClearRejections wipes the rejection ledger
func (os *OrderService) ClearRejections(ctx context.Context) error {
	return os.rejections.ClearAll(ctx)
}

// recordAudit appends audit entry. Audit failure never fails the operation.
func (os *OrderService) recordAudit(ctx context.Context, staffID uint64, orderID *uint64, action, details, sourceAddr string) {
	entry := models.AuditEntry{
		StaffID:    staffID,
		OrderID:    orderID,
		Action:     action,
		Details:    details,
		SourceAddr: sourceAddr,
	}
	if err := os.audit.CreateEntry(ctx, entry); err != nil {
		logger.Log.Error("write audit entry", zap.String("action", action), zap.Error(err))
	}
}
