package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/interfaces"
)

// LocalNotifier hands confirmations straight to the handler, for running the
// API without a broker.
type LocalNotifier struct {
	handler *NotificationHandler
}

var _ interfaces.Notifier = (*LocalNotifier)(nil)

func NewLocalNotifier(handler *NotificationHandler) *LocalNotifier {
	return &LocalNotifier{handler: handler}
}

func (n *LocalNotifier) SendReservationConfirmation(ctx context.Context, msg interfaces.ReservationConfirmation) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return n.handler.HandleNotification(ctx, body)
}
