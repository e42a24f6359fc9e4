// Package mailer delivers transactional email through SMTP with a bounded
// retry queue. Enqueueing never fails or blocks the originating operation;
// a message that exhausts its retries is dropped.
package mailer

import (
	"context"
	"time"

	"github.com/chopie/restaurant/internal/logger"
	"github.com/chopie/restaurant/internal/models"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	queueSize     = 256
	maxRetries    = 3
	sweepInterval = 5 * time.Second
)

// Sender delivers a single message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type task struct {
	msg     *gomail.Message
	retries int
}

// Mailer queues and sends transactional email
type Mailer struct {
	sender Sender
	from   string
	queue  chan task
}

// New creates new Mailer instance
func New(sender Sender, from string) *Mailer {
	return &Mailer{
		sender: sender,
		from:   from,
		queue:  make(chan task, queueSize),
	}
}

// NewSMTP creates Mailer backed by an SMTP dialer
func NewSMTP(host string, port int, user, pass, from string) *Mailer {
	return New(gomail.NewDialer(host, port, user, pass), from)
}

func (m *Mailer) enqueue(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	select {
	case m.queue <- task{msg: msg, retries: maxRetries}:
	default:
		logger.Log.Warn("mail queue full, message dropped", zap.String("to", to), zap.String("subject", subject))
	}
}

// QueueOrderConfirmation queues the customer confirmation email
func (m *Mailer) QueueOrderConfirmation(order *models.Order) {
	m.enqueue(order.CustomerEmail,
		"Order Confirmation #"+order.OrderNumber+" - Chopie Restaurant",
		orderConfirmationBody(order))
}

// QueueStatusUpdate queues the customer status notification
func (m *Mailer) QueueStatusUpdate(order *models.Order, status string) {
	m.enqueue(order.CustomerEmail,
		"Order Update #"+order.OrderNumber+" - Chopie Restaurant",
		statusUpdateBody(order, status))
}

// QueueStaffCredentials queues the welcome email with initial credentials
func (m *Mailer) QueueStaffCredentials(user *models.StaffUser, password string) {
	m.enqueue(user.Email,
		"Welcome to Chopie Restaurant Team - "+user.Role,
		staffCredentialsBody(user, password))
}

// Run sweeps the queue on a fixed interval until ctx is cancelled. Failed
// sends are requeued with a decremented retry budget.
func (m *Mailer) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("mail worker is done")
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep attempts every task currently queued, exactly once each
func (m *Mailer) sweep() {
	for n := len(m.queue); n > 0; n-- {
		var t task
		select {
		case t = <-m.queue:
		default:
			return
		}

		if err := m.sender.DialAndSend(t.msg); err != nil {
			t.retries--
			if t.retries <= 0 {
				logger.Log.Warn("mail dropped after retries", zap.Error(err))
				continue
			}
			select {
			case m.queue <- t:
			default:
				logger.Log.Warn("mail queue full on requeue, message dropped")
			}
		}
	}
}
