package models

import "time"

// order status
const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is single order line. Line items are immutable after the order is created.
type OrderItem struct {
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
	TotalPrice          float64 `json:"totalPrice"`
}

// Order is order entity
type Order struct {
	ID            uint64      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	TableNumber   string      `json:"tableNumber"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Status        string      `json:"status"`
	AssignedTo    *uint64     `json:"assignedTo,omitempty"`
	AssigneeName  string      `json:"assigneeName,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// TrackedStatus is one step of customer-facing order timeline
type TrackedStatus struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

// TrackedOrder is customer-facing progress view derived from order status and age
type TrackedOrder struct {
	OrderNumber   string          `json:"orderNumber"`
	Status        string          `json:"status"`
	Items         []string        `json:"items"`
	Total         string          `json:"total"`
	EstimatedTime string          `json:"estimatedTime"`
	OrderTime     string          `json:"orderTime"`
	CustomerName  string          `json:"customerName"`
	TableNumber   string          `json:"tableNumber"`
	StatusHistory []TrackedStatus `json:"statusHistory"`
}
