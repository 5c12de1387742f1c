package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reservationTokenPattern = regexp.MustCompile(`^RES-[A-Z0-9]{6}$`)
	orderTokenPattern       = regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)
)

func TestTokens(t *testing.T) {
	for i := 0; i < 200; i++ {
		assert.Regexp(t, reservationTokenPattern, NewReservationToken())
		assert.Regexp(t, orderTokenPattern, NewOrderToken())

		minutes := EstimateDeliveryMinutes()
		assert.GreaterOrEqual(t, minutes, 30)
		assert.LessOrEqual(t, minutes, 60)
	}
}

func TestNewPaymentIntent(t *testing.T) {
	now := time.UnixMilli(1767225600123)

	intent, err := NewPaymentIntent(42, price("33.53"), now)
	require.NoError(t, err)
	assert.Equal(t, "pi_1767225600123", intent.ID)
	assert.Equal(t, "pi_1767225600123_secret_42", intent.ClientSecret)
	assert.Equal(t, PaymentPending, intent.Status)

	p := intent.Payment(now)
	assert.Equal(t, intent.ID, p.TransactionID)
	assert.Equal(t, int64(42), p.OrderID)

	_, err = NewPaymentIntent(42, price("0"), now)
	assert.ErrorIs(t, err, ErrValidation)
}
