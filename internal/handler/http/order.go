package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chopie/restaurant/internal/models"
	"github.com/go-chi/chi/v5"
)

// OrderService is the order lifecycle consumed by HTTP handlers
type OrderService interface {
	// Create validates, checks for duplicates and persists a customer order
	Create(ctx context.Context, order *models.Order, confirmDuplicate bool) (*models.Order, error)
	// Accept claims a pending order for the acting staff member
	Accept(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) (*models.Order, error)
	// Reject cancels a pending order and records the rejection
	Reject(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) error
	// Advance moves an order along the fixed status flow
	Advance(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) (*models.Order, error)
	// Track derives the customer-facing progress view
	Track(ctx context.Context, orderNumber string) (*models.TrackedOrder, error)
	// List returns orders visible to the actor
	List(ctx context.Context, actor models.TokenPayload) ([]models.Order, error)
	// GetByID returns order by id
	GetByID(ctx context.Context, orderID uint64) (*models.Order, error)
	// Delete removes an order unconditionally
	Delete(ctx context.Context, orderID uint64, actor models.TokenPayload, sourceAddr string) error
	// ListRejections returns the actor's own rejection records
	ListRejections(ctx context.Context, actor models.TokenPayload) ([]models.RejectionRecord, error)
	// ClearRejections wipes the rejection ledger
	ClearRejections(ctx context.Context) error
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderRequest struct {
	TableNumber      string             `json:"tableNumber"`
	CustomerName     string             `json:"customerName"`
	CustomerEmail    string             `json:"customerEmail"`
	CustomerPhone    string             `json:"customerPhone"`
	Items            []models.OrderItem `json:"items"`
	TotalAmount      float64            `json:"totalAmount"`
	ConfirmDuplicate bool               `json:"confirmDuplicate"`
}

type duplicateOrderResponse struct {
	Status        bool   `json:"status"`
	IsDuplicate   bool   `json:"isDuplicate"`
	Message       string `json:"message"`
	ExistingOrder struct {
		OrderNumber string    `json:"orderNumber"`
		CreatedAt   time.Time `json:"createdAt"`
	} `json:"existingOrder"`
}

// CreateOrder handles customer order submission
// 201 — order created;
// 400 — missing or malformed fields;
// 409 — probable duplicate, response carries the existing order;
// 500 — internal server error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondErr(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		order := models.Order{
			TableNumber:   req.TableNumber,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Items:         req.Items,
			TotalAmount:   req.TotalAmount,
		}

		created, err := oh.svc.Create(r.Context(), &order, req.ConfirmDuplicate)
		if err != nil {
			var dup *models.DuplicateOrderError
			if errors.As(err, &dup) {
				resp := duplicateOrderResponse{
					IsDuplicate: true,
					Message:     "Duplicate order detected",
				}
				resp.ExistingOrder.OrderNumber = dup.OrderNumber
				resp.ExistingOrder.CreatedAt = dup.CreatedAt
				writeJSON(w, http.StatusConflict, resp)
				return
			}
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusCreated, "Order created successfully", created)
	}
}

// TrackOrder returns the customer-facing progress view by order number
func (oh *OrderHandler) TrackOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracked, err := oh.svc.Track(r.Context(), chi.URLParam(r, "orderNumber"))
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondErr(w, http.StatusNotFound, "Order not found. Please check your tracking number and try again.")
				return
			}
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "Order tracked successfully", tracked)
	}
}

// ListOrders returns orders visible to the authenticated staff member
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		orders, err := oh.svc.List(r.Context(), *actor)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", orders)
	}
}

// GetOrder returns single order by id
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := oh.svc.GetByID(r.Context(), orderID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", order)
	}
}

// AcceptOrder claims a pending order
// 200 — order claimed;
// 404 — unknown order;
// 409 — order already accepted by someone else;
func (oh *OrderHandler) AcceptOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := oh.svc.Accept(r.Context(), orderID, *actor, r.RemoteAddr)
		if err != nil {
			if errors.Is(err, models.ErrOrderNotPending) {
				respondErr(w, http.StatusConflict, "Order already accepted")
				return
			}
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", order)
	}
}

// RejectOrder rejects a pending order
func (oh *OrderHandler) RejectOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid order id")
			return
		}

		if err := oh.svc.Reject(r.Context(), orderID, *actor, r.RemoteAddr); err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "Order rejected", nil)
	}
}

// AdvanceOrder moves an order to its next status
func (oh *OrderHandler) AdvanceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := oh.svc.Advance(r.Context(), orderID, *actor, r.RemoteAddr)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", order)
	}
}

// DeleteOrder removes an order unconditionally
func (oh *OrderHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid order id")
			return
		}

		if err := oh.svc.Delete(r.Context(), orderID, *actor, r.RemoteAddr); err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "Order deleted successfully", nil)
	}
}

// ListRejections returns orders the authenticated staff member has declined
func (oh *OrderHandler) ListRejections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		records, err := oh.svc.ListRejections(r.Context(), *actor)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", records)
	}
}

// ClearRejections wipes the rejection ledger
func (oh *OrderHandler) ClearRejections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := oh.svc.ClearRejections(r.Context()); err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "Rejection ledger cleared", nil)
	}
}

func orderIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
}
