package mailer

import (
	"errors"
	"testing"

	"github.com/chopie/restaurant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// fakeSender fails the first failN deliveries, then succeeds
type fakeSender struct {
	failN int
	sent  []*gomail.Message
	calls int
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.calls++
	if f.calls <= f.failN {
		return errors.New("dial tcp: connection refused")
	}
	f.sent = append(f.sent, m...)
	return nil
}

func testOrder() *models.Order {
	return &models.Order{
		OrderNumber:   "CHO-20260829-A1B2C3",
		TableNumber:   "5",
		CustomerName:  "Ada Obi",
		CustomerEmail: "ada@example.com",
		Items: []models.OrderItem{
			{Name: "Jollof Rice", Price: 12.5, Quantity: 2, TotalPrice: 25.0},
		},
		TotalAmount: 25.0,
		Status:      models.OrderStatusPending,
	}
}

func TestMailer_SendsQueuedMessage(t *testing.T) {
	sender := &fakeSender{}
	m := New(sender, "noreply@chopie.example")

	m.QueueOrderConfirmation(testOrder())
	require.Equal(t, 1, len(m.queue))

	m.sweep()

	require.Equal(t, 1, len(sender.sent))
	assert.Equal(t, 0, len(m.queue))

	got := sender.sent[0].GetHeader("To")
	require.Len(t, got, 1)
	assert.Equal(t, "ada@example.com", got[0])
}

func TestMailer_RetriesFailedSend(t *testing.T) {
	sender := &fakeSender{failN: 2}
	m := New(sender, "noreply@chopie.example")

	m.QueueStatusUpdate(testOrder(), models.OrderStatusPreparing)

	// first two sweeps fail and requeue, third delivers
	m.sweep()
	assert.Equal(t, 1, len(m.queue))
	m.sweep()
	assert.Equal(t, 1, len(m.queue))
	m.sweep()

	assert.Equal(t, 1, len(sender.sent))
	assert.Equal(t, 0, len(m.queue))
}

func TestMailer_DropsAfterRetryBudget(t *testing.T) {
	sender := &fakeSender{failN: 100}
	m := New(sender, "noreply@chopie.example")

	m.QueueStaffCredentials(&models.StaffUser{Email: "chidi@example.com", Role: models.RoleStaff}, "s3cret")

	for i := 0; i < maxRetries; i++ {
		m.sweep()
	}

	assert.Equal(t, 0, len(m.queue))
	assert.Equal(t, maxRetries, sender.calls)

	// nothing left to attempt
	m.sweep()
	assert.Equal(t, maxRetries, sender.calls)
}

func TestMailer_SweepAttemptsEachTaskOnce(t *testing.T) {
	sender := &fakeSender{failN: 100}
	m := New(sender, "noreply@chopie.example")

	m.QueueOrderConfirmation(testOrder())
	m.QueueOrderConfirmation(testOrder())

	m.sweep()

	// both failed, both requeued with a smaller budget
	assert.Equal(t, 2, sender.calls)
	assert.Equal(t, 2, len(m.queue))
}
