package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

// Сообщения RabbitMQ
type ReservationConfirmation struct {
	ReservationID int64  `json:"reservation_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Restaurant    string `json:"restaurant"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Guests        int    `json:"guests"`
	Token         string `json:"token"`
}

// Сообщения Kafka
type OrderEvent struct {
	OrderID    int64              `json:"order_id"`
	OrderToken string             `json:"order_token"`
	UserID     int64              `json:"user_id"`
	OldStatus  domain.OrderStatus `json:"old_status"`
	NewStatus  domain.OrderStatus `json:"new_status"`
	Total      string             `json:"total"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewOrderEvent describes a status change of o from oldStatus.
func NewOrderEvent(o *domain.Order, oldStatus domain.OrderStatus, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:    o.ID,
		OrderToken: o.Token,
		UserID:     o.UserID,
		OldStatus:  oldStatus,
		NewStatus:  o.Status,
		Total:      o.Total.StringFixed(2),
		OccurredAt: at,
	}
}

// Notifier is the email sink. Failures are reported to the caller, which
// logs them without failing the booking.
type Notifier interface {
	SendReservationConfirmation(ctx context.Context, msg ReservationConfirmation) error
}

type NotificationConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// PaymentMarkerStore remembers which payment status callbacks were applied.
type PaymentMarkerStore interface {
	Seen(ctx context.Context, intentID string, status domain.PaymentStatus) (bool, error)
	Mark(ctx context.Context, intentID string, status domain.PaymentStatus) error
}

type QRGenerator interface {
	Generate(content string) ([]byte, error)
}
