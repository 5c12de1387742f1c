package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a stub payment record. TransactionID holds either a gateway
// transaction id or a payment intent id and is unique.
type Payment struct {
	ID            int64
	OrderID       int64
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	Status        PaymentStatus
	RefundReason  string
	PaymentDate   time.Time
	RefundDate    *time.Time
}

// PaymentIntent is returned to the client to confirm a card payment.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	OrderID      int64
	Amount       decimal.Decimal
	Status       PaymentStatus
}

const IntentMethod = "card"

// NewPaymentIntent builds a pending intent. Ids are derived from the creation
// time in milliseconds.
func NewPaymentIntent(orderID int64, amount decimal.Decimal, now time.Time) (*PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	id := fmt.Sprintf("pi_%d", now.UnixMilli())
	return &PaymentIntent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%d", id, orderID),
		OrderID:      orderID,
		Amount:       amount,
		Status:       PaymentPending,
	}, nil
}

// Payment converts the intent to the record that is stored.
func (pi *PaymentIntent) Payment(now time.Time) *Payment {
	return &Payment{
		OrderID:       pi.OrderID,
		Amount:        pi.Amount,
		Method:        IntentMethod,
		TransactionID: pi.ID,
		Status:        pi.Status,
		PaymentDate:   now,
	}
}

// Refund marks the payment refunded with the given reason
func (p *Payment) Refund(reason string, now time.Time) {
	p.Status = PaymentRefunded
	p.RefundReason = reason
	p.RefundDate = &now
}
