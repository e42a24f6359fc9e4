package models

// event names emitted to connected dashboard clients
const (
	EventNewOrder           = "newOrder"
	EventOrderAccepted      = "orderAccepted"
	EventOrderRejected      = "orderRejected"
	EventOrderStatusUpdated = "orderStatusUpdated"
)

// NewOrderEvent carries the fields a dashboard needs to show a fresh order
// without re-fetching.
type NewOrderEvent struct {
	OrderID      uint64  `json:"orderId"`
	OrderNumber  string  `json:"orderNumber"`
	CustomerName string  `json:"customerName"`
	TotalAmount  float64 `json:"totalAmount"`
	TableNumber  string  `json:"tableNumber"`
}

// OrderAcceptedEvent announces that order has been claimed
type OrderAcceptedEvent struct {
	OrderID    uint64 `json:"orderId"`
	AssignedTo string `json:"assignedTo"`
}

// OrderRejectedEvent announces that order has been rejected
type OrderRejectedEvent struct {
	OrderID    uint64 `json:"orderId"`
	RejectedBy string `json:"rejectedBy"`
}

// OrderStatusEvent announces status change
type OrderStatusEvent struct {
	OrderID uint64 `json:"orderId"`
	Status  string `json:"status"`
}
