package domain

// ReservationStatus is free-form so that managers can overwrite it, but only
// the two canonical values drive business rules.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRefunded  OrderStatus = "REFUNDED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"

	// PaymentSucceeded is the status string reported by the card processor.
	PaymentSucceeded PaymentStatus = "succeeded"
)

// IsSuccessful reports whether the status means the money was captured.
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentCompleted || s == PaymentSucceeded
}
