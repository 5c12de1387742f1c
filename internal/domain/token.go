package domain

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const (
	reservationTokenPrefix = "RES-"
	orderTokenPrefix       = "ORD-"
	tokenAlphabet          = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	reservationTokenLength = 6
	orderTokenLength       = 8

	// MaxTokenAttempts bounds regeneration after a token collision.
	MaxTokenAttempts = 5

	minDeliveryMinutes = 30
	maxDeliveryMinutes = 60
)

// TokenGenerator produces a fresh public token
type TokenGenerator func() string

// NewReservationToken returns RES- followed by six random characters from
// [A-Z0-9].
func NewReservationToken() string {
	var b strings.Builder
	b.WriteString(reservationTokenPrefix)
	for i := 0; i < reservationTokenLength; i++ {
		b.WriteByte(tokenAlphabet[rand.IntN(len(tokenAlphabet))])
	}
	return b.String()
}

// NewOrderToken returns ORD- followed by the first eight hex characters of a
// random UUID, upper-cased.
func NewOrderToken() string {
	return orderTokenPrefix + strings.ToUpper(uuid.NewString()[:orderTokenLength])
}

// EstimateDeliveryMinutes picks a delivery estimate in [30, 60].
func EstimateDeliveryMinutes() int {
	return minDeliveryMinutes + rand.IntN(maxDeliveryMinutes-minDeliveryMinutes+1)
}
