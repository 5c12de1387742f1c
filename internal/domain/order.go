package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate is applied to the subtotal and rounded half-up to cents.
	TaxRate = decimal.RequireFromString("0.08")

	// FlatDeliveryFee is charged regardless of the delivery address.
	FlatDeliveryFee = decimal.RequireFromString("5.99")
)

// Order represents a food order placed with a restaurant
type Order struct {
	ID                       int64
	UserID                   int64
	RestaurantID             int64
	Items                    []OrderItem
	Token                    string
	Status                   OrderStatus
	OrderDate                time.Time
	Delivery                 DeliveryDetails
	PaymentID                *string
	PaymentStatus            PaymentStatus
	Subtotal                 decimal.Decimal
	Tax                      decimal.Decimal
	DeliveryFee              decimal.Decimal
	Total                    decimal.Decimal
	EstimatedDeliveryMinutes int
	UpdatedAt                time.Time
}

type DeliveryDetails struct {
	Address             string
	City                string
	State               string
	ZipCode             string
	ContactPhone        string
	SpecialInstructions string
}

// OrderItem is a line of an order. UnitPrice is the live menu price at the
// time totals are computed and is never persisted.
type OrderItem struct {
	ID                  int64
	OrderID             int64
	MenuItemID          int64
	Quantity            int
	SpecialInstructions string
	UnitPrice           decimal.Decimal
}

// LineTotal returns price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) Validate() error {
	if i.Quantity < 1 {
		return fmt.Errorf("%w: item quantity must be positive", ErrValidation)
	}
	return nil
}

// NewOrder creates a pending order with totals computed from items
func NewOrder(userID, restaurantID int64, items []OrderItem, delivery DeliveryDetails, now time.Time) (*Order, error) {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	order := &Order{
		UserID:        userID,
		RestaurantID:  restaurantID,
		Items:         items,
		Status:        OrderPending,
		OrderDate:     now,
		Delivery:      delivery,
		PaymentStatus: PaymentPending,
		DeliveryFee:   FlatDeliveryFee,
		UpdatedAt:     now,
	}
	order.Recalculate()

	return order, nil
}

// Recalculate recomputes subtotal, tax and total. The delivery fee is kept.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal
	o.Tax = CalculateTax(subtotal)
	o.Total = o.Subtotal.Add(o.Tax).Add(o.DeliveryFee)
}

// CalculateTax returns subtotal * TaxRate rounded half-up to two places.
func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

func (o *Order) ensurePending() error {
	if o.Status != OrderPending {
		return fmt.Errorf("%w: cannot modify an order that is %s", ErrIllegalState, o.Status)
	}
	return nil
}

// AddItem appends an item to a pending order and recomputes totals.
func (o *Order) AddItem(item OrderItem, now time.Time) error {
	if err := o.ensurePending(); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.Recalculate()
	o.UpdatedAt = now
	return nil
}

// CanRemoveItem checks that the order is pending and that item belongs to it.
func (o *Order) CanRemoveItem(item OrderItem) error {
	if err := o.ensurePending(); err != nil {
		return err
	}
	if item.OrderID != o.ID {
		return fmt.Errorf("%w: item %d does not belong to order %d", ErrOwnership, item.ID, o.ID)
	}
	return nil
}

// RemoveItem drops the item from a pending order and recomputes totals.
func (o *Order) RemoveItem(item OrderItem, now time.Time) error {
	if err := o.CanRemoveItem(item); err != nil {
		return err
	}

	kept := o.Items[:0:0]
	for _, it := range o.Items {
		if it.ID != item.ID {
			kept = append(kept, it)
		}
	}
	o.Items = kept
	o.Recalculate()
	o.UpdatedAt = now
	return nil
}

// Cancel is legal only from PENDING or CONFIRMED.
func (o *Order) Cancel(now time.Time) error {
	if o.Status != OrderPending && o.Status != OrderConfirmed {
		return fmt.Errorf("%w: cannot cancel an order that is already %s", ErrIllegalState, o.Status)
	}
	o.Status = OrderCancelled
	o.UpdatedAt = now
	return nil
}

// ApplyPayment records payment details. A successful payment marks the order
// PAID. It reports whether the order status changed.
func (o *Order) ApplyPayment(paymentID string, status PaymentStatus, now time.Time) bool {
	if paymentID != "" {
		o.PaymentID = &paymentID
	}
	o.PaymentStatus = status
	o.UpdatedAt = now

	if status.IsSuccessful() && o.Status != OrderPaid {
		o.Status = OrderPaid
		return true
	}
	return false
}

// Refund is legal only for paid orders.
func (o *Order) Refund(now time.Time) error {
	if o.Status != OrderPaid {
		return fmt.Errorf("%w: cannot refund an order that is %s", ErrIllegalState, o.Status)
	}
	o.Status = OrderRefunded
	o.PaymentStatus = PaymentRefunded
	o.UpdatedAt = now
	return nil
}

// SetStatus overwrites the status without any transition check. It reports
// whether the status changed.
func (o *Order) SetStatus(status OrderStatus, now time.Time) bool {
	if o.Status == status {
		return false
	}
	o.Status = status
	o.UpdatedAt = now
	return true
}

// FindItem returns the item with the given id
func (o *Order) FindItem(itemID int64) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return OrderItem{}, false
}
