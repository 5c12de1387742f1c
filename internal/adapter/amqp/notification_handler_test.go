package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var confirmation = interfaces.ReservationConfirmation{
	ReservationID: 3,
	Email:         "alice@example.com",
	Name:          "alice",
	Restaurant:    "Fun N Food",
	Date:          "2026-06-02",
	Time:          "19:00",
	Guests:        4,
	Token:         "RES-Q1W2E3",
}

func TestRender(t *testing.T) {
	email, err := Render(confirmation)
	require.NoError(t, err)

	assert.Contains(t, email, "To: alice@example.com")
	assert.Contains(t, email, "Subject: Your table at Fun N Food is confirmed")
	assert.Contains(t, email, "Date:   2026-06-02")
	assert.Contains(t, email, "Time:   19:00")
	assert.Contains(t, email, "Guests: 4")
	assert.Contains(t, email, "RES-Q1W2E3")
}

func TestHandleNotification_LogsRenderedEmail(t *testing.T) {
	var buf bytes.Buffer
	h := NewNotificationHandler(logger.NewWithWriter("notification-subscriber", &buf))

	body, err := json.Marshal(confirmation)
	require.NoError(t, err)
	require.NoError(t, h.HandleNotification(context.Background(), body))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "email_sent", entry["action"])
	assert.Equal(t, "RES-Q1W2E3", entry["request_id"])

	details, ok := entry["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "reservation-confirmation", details["template"])
	assert.Contains(t, details["body"], "Hello alice,")
}

func TestHandleNotification_BadPayload(t *testing.T) {
	h := NewNotificationHandler(logger.Nop())
	assert.Error(t, h.HandleNotification(context.Background(), []byte("{")))
}

func TestLocalNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLocalNotifier(NewNotificationHandler(logger.NewWithWriter("api-service", &buf)))

	require.NoError(t, n.SendReservationConfirmation(context.Background(), confirmation))
	assert.Contains(t, buf.String(), `"action":"email_sent"`)
	assert.Contains(t, buf.String(), "RES-Q1W2E3")
}
