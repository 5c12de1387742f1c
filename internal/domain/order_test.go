package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewOrder_Totals(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		items    []OrderItem
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "empty order",
			items:    nil,
			subtotal: "0",
			tax:      "0",
			total:    "5.99",
		},
		{
			name: "two lines",
			items: []OrderItem{
				{MenuItemID: 1, Quantity: 2, UnitPrice: price("10.00")},
				{MenuItemID: 2, Quantity: 1, UnitPrice: price("5.50")},
			},
			subtotal: "25.50",
			tax:      "2.04",
			total:    "33.53",
		},
		{
			name: "tax rounds half up",
			items: []OrderItem{
				{MenuItemID: 1, Quantity: 1, UnitPrice: price("10.0625")},
			},
			subtotal: "10.0625",
			tax:      "0.81",
			total:    "16.8625",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			order, err := NewOrder(1, 1, testCase.items, DeliveryDetails{}, now)
			require.NoError(t, err)

			assert.True(t, price(testCase.subtotal).Equal(order.Subtotal), "subtotal %s", order.Subtotal)
			assert.True(t, price(testCase.tax).Equal(order.Tax), "tax %s", order.Tax)
			assert.True(t, FlatDeliveryFee.Equal(order.DeliveryFee))
			assert.True(t, price(testCase.total).Equal(order.Total), "total %s", order.Total)
			assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax).Add(order.DeliveryFee)))
			assert.Equal(t, OrderPending, order.Status)
			assert.Equal(t, PaymentPending, order.PaymentStatus)
		})
	}
}

func TestNewOrder_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := NewOrder(1, 1, []OrderItem{{MenuItemID: 1, Quantity: 0, UnitPrice: price("1")}}, DeliveryDetails{}, time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrder_AddAndRemoveItem(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder(1, 1, nil, DeliveryDetails{}, now)
	require.NoError(t, err)
	order.ID = 10

	require.NoError(t, order.AddItem(OrderItem{ID: 100, MenuItemID: 1, Quantity: 2, UnitPrice: price("10.00")}, now))
	assert.True(t, price("20.00").Equal(order.Subtotal))
	assert.Equal(t, int64(10), order.Items[0].OrderID)

	foreign := OrderItem{ID: 200, OrderID: 11, Quantity: 1, UnitPrice: price("3")}
	err = order.RemoveItem(foreign, now)
	assert.ErrorIs(t, err, ErrOwnership)
	assert.Len(t, order.Items, 1)

	require.NoError(t, order.RemoveItem(order.Items[0], now))
	assert.Empty(t, order.Items)
	assert.True(t, order.Subtotal.IsZero())
	assert.True(t, price("5.99").Equal(order.Total))
}

func TestOrder_ItemMutationsRequirePending(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	order := &Order{ID: 1, Status: OrderPaid, DeliveryFee: FlatDeliveryFee}

	err := order.AddItem(OrderItem{Quantity: 1, UnitPrice: price("1")}, now)
	assert.ErrorIs(t, err, ErrIllegalState)

	err = order.RemoveItem(OrderItem{ID: 1, OrderID: 1}, now)
	assert.ErrorIs(t, err, ErrIllegalState)
}

func TestOrder_Cancel(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  OrderStatus
		wantErr bool
	}{
		{name: "pending", status: OrderPending},
		{name: "confirmed", status: OrderConfirmed},
		{name: "paid", status: OrderPaid, wantErr: true},
		{name: "refunded", status: OrderRefunded, wantErr: true},
		{name: "already cancelled", status: OrderCancelled, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			order := &Order{Status: testCase.status}
			err := order.Cancel(now)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrIllegalState)
				assert.Equal(t, testCase.status, order.Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, OrderCancelled, order.Status)
			}
		})
	}
}

func TestOrder_ApplyPayment(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	order := &Order{Status: OrderPending, PaymentStatus: PaymentPending}
	changed := order.ApplyPayment("pi_1", PaymentPending, now)
	assert.False(t, changed)
	assert.Equal(t, OrderPending, order.Status)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, "pi_1", *order.PaymentID)

	changed = order.ApplyPayment("pi_1", PaymentSucceeded, now)
	assert.True(t, changed)
	assert.Equal(t, OrderPaid, order.Status)

	changed = order.ApplyPayment("", PaymentCompleted, now)
	assert.False(t, changed)
	assert.Equal(t, "pi_1", *order.PaymentID)
}

func TestOrder_Refund(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	order := &Order{Status: OrderPending}
	assert.ErrorIs(t, order.Refund(now), ErrIllegalState)

	order.Status = OrderPaid
	require.NoError(t, order.Refund(now))
	assert.Equal(t, OrderRefunded, order.Status)
	assert.Equal(t, PaymentRefunded, order.PaymentStatus)
}

func TestOrder_SetStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	order := &Order{Status: OrderRefunded}

	assert.True(t, order.SetStatus(OrderPending, now))
	assert.False(t, order.SetStatus(OrderPending, now))
	assert.Equal(t, OrderPending, order.Status)
}
