package service

import "github.com/chopie/restaurant/internal/models"

// statusFlow is the fixed forward map of the order lifecycle. Acceptance is
// not part of the map: pending orders leave the pool only through the
// claim/reject operations.
var statusFlow = map[string]string{
	models.OrderStatusAccepted:  models.OrderStatusPreparing,
	models.OrderStatusPreparing: models.OrderStatusCompleted,
}

// NextStatus returns the status following current one, false if the order
// cannot be advanced from current
func NextStatus(current string) (string, bool) {
	next, ok := statusFlow[current]
	return next, ok
}
