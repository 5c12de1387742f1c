package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
)

const confirmationTemplate = `To: {{.Email}}
Subject: Your table at {{.Restaurant}} is confirmed

Hello {{.Name}},

Your reservation at {{.Restaurant}} is confirmed.

  Date:   {{.Date}}
  Time:   {{.Time}}
  Guests: {{.Guests}}

Show this code at the door: {{.Token}}
`

var templates = template.Must(template.New("reservation-confirmation").Parse(confirmationTemplate))

// NotificationHandler renders reservation confirmations. Delivery to a mail
// server is out of scope; the rendered email is logged.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.ReservationConfirmation
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	email, err := Render(msg)
	if err != nil {
		h.logger.Error("template_render_failed", "Failed to render confirmation email", msg.Token, nil, err)
		return err
	}

	h.logger.Info("email_sent", fmt.Sprintf("Reservation confirmation for %s", msg.Email), msg.Token, map[string]interface{}{
		"reservation_id": msg.ReservationID,
		"template":       "reservation-confirmation",
		"body":           email,
	})
	return nil
}

// Render fills the reservation-confirmation template
func Render(msg interfaces.ReservationConfirmation) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "reservation-confirmation", msg); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
