package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chopie/restaurant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderRepo is an in-memory store with the same conditional-update
// semantics as the postgres repository
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint64]*models.Order
	rej    *fakeRejectionRepo
	nextID uint64
}

func newFakeOrderRepo(rej *fakeRejectionRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint64]*models.Order), rej: rej}
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.orders {
		if o.OrderNumber == order.OrderNumber {
			return nil, models.ErrConflictData
		}
	}

	f.nextID++
	order.ID = f.nextID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt

	cp := *order
	f.orders[order.ID] = &cp
	return order, nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id uint64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) GetOrderByNumber(_ context.Context, num string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.orders {
		if o.OrderNumber == num {
			cp := *o
			return &cp, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (f *fakeOrderRepo) GetOrders(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	orders := []models.Order{}
	for _, o := range f.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetOrdersForStaff(_ context.Context, staffID uint64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	orders := []models.Order{}
	for _, o := range f.orders {
		if o.AssignedTo != nil && *o.AssignedTo == staffID {
			orders = append(orders, *o)
			continue
		}
		if o.Status == models.OrderStatusPending && !f.rej.has(staffID, o.ID) {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) FindRecentByCustomer(_ context.Context, email string, total float64, since time.Time) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found *models.Order
	for _, o := range f.orders {
		if o.CustomerEmail != email || o.TotalAmount != total {
			continue
		}
		if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusPreparing {
			continue
		}
		if o.CreatedAt.Before(since) {
			continue
		}
		if found == nil || o.CreatedAt.After(found.CreatedAt) {
			found = o
		}
	}
	if found == nil {
		return nil, models.ErrDataNotFound
	}
	cp := *found
	return &cp, nil
}

func (f *fakeOrderRepo) AcceptOrder(_ context.Context, orderID, staffID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok || o.Status != models.OrderStatusPending {
		return models.ErrOrderNotPending
	}

	o.Status = models.OrderStatusAccepted
	o.AssignedTo = &staffID
	o.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, orderID uint64, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok || o.Status != from {
		return models.ErrOrderNotPending
	}

	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, orderID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.orders[orderID]; !ok {
		return models.ErrDataNotFound
	}
	delete(f.orders, orderID)
	return nil
}

type fakeRejectionRepo struct {
	mu      sync.Mutex
	records map[uint64]map[uint64]struct{}
}

func newFakeRejectionRepo() *fakeRejectionRepo {
	return &fakeRejectionRepo{records: make(map[uint64]map[uint64]struct{})}
}

func (f *fakeRejectionRepo) CreateRejection(_ context.Context, staffID, orderID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.records[staffID] == nil {
		f.records[staffID] = make(map[uint64]struct{})
	}
	f.records[staffID][orderID] = struct{}{}
	return nil
}

func (f *fakeRejectionRepo) GetRejectionsByStaff(_ context.Context, staffID uint64) ([]models.RejectionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var records []models.RejectionRecord
	for orderID := range f.records[staffID] {
		records = append(records, models.RejectionRecord{StaffID: staffID, OrderID: orderID})
	}
	return records, nil
}

func (f *fakeRejectionRepo) ClearAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = make(map[uint64]map[uint64]struct{})
	return nil
}

func (f *fakeRejectionRepo) has(staffID, orderID uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.records[staffID][orderID]
	return ok
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (f *fakeAudit) CreateEntry(_ context.Context, entry models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, entry)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Broadcast(event string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
}

func (f *fakeNotifier) has(event string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.events {
		if e == event {
			return true
		}
	}
	return false
}

type fakeMailer struct {
	mu            sync.Mutex
	confirmations int
	updates       int
}

func (f *fakeMailer) QueueOrderConfirmation(_ *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
}

func (f *fakeMailer) QueueStatusUpdate(_ *models.Order, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
}

type orderFixture struct {
	svc      *OrderService
	repo     *fakeOrderRepo
	rej      *fakeRejectionRepo
	audit    *fakeAudit
	notifier *fakeNotifier
	mailer   *fakeMailer
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	rej := newFakeRejectionRepo()
	repo := newFakeOrderRepo(rej)
	audit := &fakeAudit{}
	notif := &fakeNotifier{}
	mail := &fakeMailer{}

	svc := NewOrderService(repo, rej, audit, notif, mail, 30*time.Minute)

	return &orderFixture{svc: svc, repo: repo, rej: rej, audit: audit, notifier: notif, mailer: mail}
}

func validOrder() *models.Order {
	return &models.Order{
		TableNumber:   "5",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items: []models.OrderItem{
			{Name: "Jollof Rice", Price: 12.99, Quantity: 2, TotalPrice: 25.98},
			{Name: "Suya", Price: 8.99, Quantity: 1, TotalPrice: 8.99},
		},
		TotalAmount: 34.97,
	}
}

func TestCreateOrderDefaults(t *testing.T) {
	fx := newOrderFixture(t)

	created, err := fx.svc.Create(context.Background(), validOrder(), false)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.Nil(t, created.AssignedTo)
	assert.True(t, strings.HasPrefix(created.OrderNumber, "CHO-"))
	assert.True(t, fx.notifier.has(models.EventNewOrder))
	assert.Equal(t, 1, fx.mailer.confirmations)
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *models.Order)
	}{
		{"missing_table", func(o *models.Order) { o.TableNumber = "" }},
		{"missing_name", func(o *models.Order) { o.CustomerName = "" }},
		{"missing_email", func(o *models.Order) { o.CustomerEmail = "" }},
		{"empty_items", func(o *models.Order) { o.Items = nil }},
		{"zero_quantity", func(o *models.Order) { o.Items[0].Quantity = 0 }},
		{"nameless_item", func(o *models.Order) { o.Items[0].Name = "  " }},
		{"zero_total", func(o *models.Order) { o.TotalAmount = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newOrderFixture(t)

			order := validOrder()
			tt.mutate(order)

			_, err := fx.svc.Create(context.Background(), order, false)

			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr)
			// no side effects before validation passes
			assert.Empty(t, fx.notifier.events)
			assert.Zero(t, fx.mailer.confirmations)
		})
	}
}

func TestCreateOrderDuplicate(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	// identical resubmission without confirmation conflicts
	_, err = fx.svc.Create(ctx, validOrder(), false)
	var dup *models.DuplicateOrderError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.OrderNumber, dup.OrderNumber)

	// explicit confirmation creates a second independent order
	second, err := fx.svc.Create(ctx, validOrder(), true)
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
}

func TestCreateOrderDifferentItemsNotDuplicate(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	other := validOrder()
	other.Items[1].SpecialInstructions = "no pepper"

	_, err = fx.svc.Create(ctx, other, false)
	require.NoError(t, err)
}

func TestCreateOrderOutsideWindowNotDuplicate(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	// age the first order beyond the window
	fx.repo.mu.Lock()
	fx.repo.orders[first.ID].CreatedAt = time.Now().Add(-31 * time.Minute)
	fx.repo.mu.Unlock()

	_, err = fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)
}

func TestAcceptOrder(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	actor := models.TokenPayload{UserID: 7, Name: "Chidi", Role: models.RoleStaff}

	order, err := fx.svc.Accept(ctx, created.ID, actor, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusAccepted, order.Status)
	require.NotNil(t, order.AssignedTo)
	assert.Equal(t, uint64(7), *order.AssignedTo)
	assert.True(t, fx.notifier.has(models.EventOrderAccepted))
	require.Len(t, fx.audit.entries, 1)
	assert.Equal(t, models.AuditActionAcceptOrder, fx.audit.entries[0].Action)
}

func TestAcceptOrderContention(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	staffX := models.TokenPayload{UserID: 1, Name: "X", Role: models.RoleStaff}
	staffY := models.TokenPayload{UserID: 2, Name: "Y", Role: models.RoleStaff}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for _, actor := range []models.TokenPayload{staffX, staffY} {
		go func(a models.TokenPayload) {
			defer wg.Done()
			_, err := fx.svc.Accept(ctx, created.ID, a, "10.0.0.1")
			errs <- err
		}(actor)
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, models.ErrOrderNotPending)
			losses++
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	// exactly one assignee persisted
	order, err := fx.repo.GetOrderByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, order.AssignedTo)
	assert.Contains(t, []uint64{1, 2}, *order.AssignedTo)
}

func TestAcceptUnknownOrder(t *testing.T) {
	fx := newOrderFixture(t)

	actor := models.TokenPayload{UserID: 1, Role: models.RoleStaff}
	_, err := fx.svc.Accept(context.Background(), 999, actor, "")

	require.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestRejectOrder(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	actor := models.TokenPayload{UserID: 3, Name: "Bola", Role: models.RoleStaff}

	err = fx.svc.Reject(ctx, created.ID, actor, "10.0.0.1")
	require.NoError(t, err)

	order, err := fx.repo.GetOrderByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.True(t, fx.rej.has(3, created.ID))
	assert.True(t, fx.notifier.has(models.EventOrderRejected))
}

func TestRejectNonPendingOrder(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	staff := models.TokenPayload{UserID: 1, Role: models.RoleStaff}
	_, err = fx.svc.Accept(ctx, created.ID, staff, "")
	require.NoError(t, err)

	err = fx.svc.Reject(ctx, created.ID, models.TokenPayload{UserID: 2, Role: models.RoleStaff}, "")
	require.ErrorIs(t, err, models.ErrOrderNotPending)
}

func TestRejectedOrderLeavesQueue(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	staffA := models.TokenPayload{UserID: 1, Name: "A", Role: models.RoleStaff}
	require.NoError(t, fx.svc.Reject(ctx, created.ID, staffA, ""))

	queue, err := fx.svc.List(ctx, staffA)
	require.NoError(t, err)
	for _, o := range queue {
		assert.NotEqual(t, created.ID, o.ID)
	}

	// the unfiltered administrative list still shows it
	all, err := fx.svc.List(ctx, models.TokenPayload{UserID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)
	var found bool
	for _, o := range all {
		if o.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestListRejectionsScopedToActor(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	staffA := models.TokenPayload{UserID: 1, Name: "A", Role: models.RoleStaff}
	require.NoError(t, fx.svc.Reject(ctx, created.ID, staffA, ""))

	records, err := fx.svc.ListRejections(ctx, staffA)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, created.ID, records[0].OrderID)
	assert.Equal(t, staffA.UserID, records[0].StaffID)

	// another staff member sees an empty ledger
	other, err := fx.svc.ListRejections(ctx, models.TokenPayload{UserID: 2, Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, fx.svc.ClearRejections(ctx))
	records, err = fx.svc.ListRejections(ctx, staffA)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStaffQueueKeepsOwnAssignedOrders(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	staff := models.TokenPayload{UserID: 4, Name: "D", Role: models.RoleStaff}
	_, err = fx.svc.Accept(ctx, created.ID, staff, "")
	require.NoError(t, err)

	// advance out of pending, order must still be in the owner's queue
	_, err = fx.svc.Advance(ctx, created.ID, staff, "")
	require.NoError(t, err)

	queue, err := fx.svc.List(ctx, staff)
	require.NoError(t, err)
	var found bool
	for _, o := range queue {
		if o.ID == created.ID {
			found = true
			assert.Equal(t, models.OrderStatusPreparing, o.Status)
		}
	}
	assert.True(t, found)
}

func TestAdvanceSequence(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	staff := models.TokenPayload{UserID: 5, Name: "E", Role: models.RoleStaff}

	// pending cannot be advanced, it must be claimed first
	_, err = fx.svc.Advance(ctx, created.ID, models.TokenPayload{UserID: 9, Role: models.RoleAdmin}, "")
	require.ErrorIs(t, err, models.ErrCannotUpdateStatus)

	_, err = fx.svc.Accept(ctx, created.ID, staff, "")
	require.NoError(t, err)

	order, err := fx.svc.Advance(ctx, created.ID, staff, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)

	order, err = fx.svc.Advance(ctx, created.ID, staff, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)

	// completed is terminal
	_, err = fx.svc.Advance(ctx, created.ID, staff, "")
	require.ErrorIs(t, err, models.ErrCannotUpdateStatus)

	assert.Equal(t, 2, fx.mailer.updates)
}

func TestAdvanceOwnership(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	owner := models.TokenPayload{UserID: 1, Name: "Owner", Role: models.RoleStaff}
	_, err = fx.svc.Accept(ctx, created.ID, owner, "")
	require.NoError(t, err)

	// another staff member cannot advance someone else's order
	_, err = fx.svc.Advance(ctx, created.ID, models.TokenPayload{UserID: 2, Role: models.RoleStaff}, "")
	require.ErrorIs(t, err, models.ErrNotOrderOwner)

	// a manager bypasses ownership
	_, err = fx.svc.Advance(ctx, created.ID, models.TokenPayload{UserID: 3, Role: models.RoleManager}, "")
	require.NoError(t, err)
}

func TestDeleteOrder(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, validOrder(), false)
	require.NoError(t, err)

	admin := models.TokenPayload{UserID: 9, Role: models.RoleAdmin}
	require.NoError(t, fx.svc.Delete(ctx, created.ID, admin, ""))

	_, err = fx.repo.GetOrderByID(ctx, created.ID)
	require.ErrorIs(t, err, models.ErrDataNotFound)

	require.ErrorIs(t, fx.svc.Delete(ctx, created.ID, admin, ""), models.ErrDataNotFound)
}
