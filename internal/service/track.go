package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chopie/restaurant/internal/models"
)

const clockFormat = "3:04 PM"

// Track derives the customer-facing progress view from order status and age.
// Nothing here is persisted: the timeline and estimate are synthesized on
// every call.
func (os *OrderService) Track(ctx context.Context, orderNumber string) (*models.TrackedOrder, error) {
	order, err := os.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}

	now := os.now()

	return &models.TrackedOrder{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		Items:         items,
		Total:         fmt.Sprintf("%.2f", order.TotalAmount),
		EstimatedTime: estimateTime(order.Status, order.CreatedAt, now),
		OrderTime:     order.CreatedAt.Format(clockFormat),
		CustomerName:  order.CustomerName,
		TableNumber:   fmt.Sprintf("Table %s", order.TableNumber),
		StatusHistory: statusHistory(order.Status, order.CreatedAt, now),
	}, nil
}

// estimateTime renders remaining time for the customer. While preparing, the
// estimate decays linearly from the 15-20 minute baseline as the order ages,
// floored at 5-10 minutes.
func estimateTime(status string, createdAt, now time.Time) string {
	elapsed := int(now.Sub(createdAt).Minutes())

	switch status {
	case models.OrderStatusPending, models.OrderStatusAccepted:
		return "20-25 minutes"
	case models.OrderStatusPreparing:
		low := 15 - elapsed
		if low < 5 {
			low = 5
		}
		high := 20 - elapsed
		if high < 10 {
			high = 10
		}
		return fmt.Sprintf("%d-%d minutes", low, high)
	case models.OrderStatusCompleted:
		return "Order completed"
	case models.OrderStatusCancelled:
		return "Order cancelled"
	default:
		return "Calculating..."
	}
}

// statusHistory builds the timeline shown on the tracking page. Completed
// flags are monotonic: a later stage being reached marks all earlier stages
// complete. Acceptance is folded into the preparing step, the kitchen view of
// the lifecycle.
func statusHistory(status string, createdAt, now time.Time) []models.TrackedStatus {
	preparingReached := status == models.OrderStatusPreparing || status == models.OrderStatusCompleted

	preparingTime := ""
	if status != models.OrderStatusPending {
		preparingTime = createdAt.Add(5 * time.Minute).Format(clockFormat)
	}

	completedTime := ""
	if status == models.OrderStatusCompleted {
		completedTime = createdAt.Add(20 * time.Minute).Format(clockFormat)
	}

	history := []models.TrackedStatus{
		{
			Status:      models.OrderStatusPending,
			Time:        createdAt.Format(clockFormat),
			Completed:   true,
			Description: "Order confirmed and payment received",
		},
		{
			Status:      models.OrderStatusPreparing,
			Time:        preparingTime,
			Completed:   preparingReached,
			Description: "Kitchen is preparing your order",
		},
		{
			Status:      models.OrderStatusCompleted,
			Time:        completedTime,
			Completed:   status == models.OrderStatusCompleted,
			Description: "Order ready and delivered to your table",
		},
	}

	if status == models.OrderStatusCancelled {
		history = append(history, models.TrackedStatus{
			Status:      models.OrderStatusCancelled,
			Time:        now.Format(clockFormat),
			Completed:   true,
			Description: "Order has been cancelled",
		})
	}

	return history
}
