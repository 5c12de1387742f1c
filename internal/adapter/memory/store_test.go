package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	room := store.AddRoom(domain.DiningRoom{Name: "Hall"})
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx interfaces.Store) error {
		require.NoError(t, tx.Tables().Create(ctx, &domain.DiningTable{DiningRoomID: room.ID, TableNumber: "T1", Capacity: 2}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tables, err := store.Tables().ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, tables)

	err = store.InTx(ctx, func(tx interfaces.Store) error {
		return tx.Tables().Create(ctx, &domain.DiningTable{DiningRoomID: room.ID, TableNumber: "T1", Capacity: 2})
	})
	require.NoError(t, err)

	tables, err = store.Tables().ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	table := store.AddTable(domain.DiningTable{DiningRoomID: 1, TableNumber: "T1", Capacity: 2})

	loaded, err := store.Tables().FindByID(ctx, table.ID)
	require.NoError(t, err)
	loaded.Capacity = 10

	again, err := store.Tables().FindByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Capacity)
}

func TestReservationRepository_FindConflicting(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)

	live := store.AddReservation(domain.Reservation{TableID: 1, ReservationTime: at, Status: domain.ReservationConfirmed, Token: "RES-000001"})
	store.AddReservation(domain.Reservation{TableID: 1, ReservationTime: at, Status: domain.ReservationCancelled, Token: "RES-000002"})
	store.AddReservation(domain.Reservation{TableID: 2, ReservationTime: at, Status: domain.ReservationConfirmed, Token: "RES-000003"})

	found, err := store.Reservations().FindConflicting(ctx, 1, domain.FixedWindowConflict(at.Add(30*time.Minute)), 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, live.ID, found[0].ID)

	found, err = store.Reservations().FindConflicting(ctx, 1, domain.FixedWindowConflict(at), live.ID)
	require.NoError(t, err)
	assert.Empty(t, found)

	err = store.Reservations().Create(ctx, &domain.Reservation{TableID: 3, Token: "RES-000001"})
	assert.ErrorIs(t, err, domain.ErrDuplicateToken)
}

func TestOrderRepository_ItemsAreStoredWithoutPrice(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	o := &domain.Order{Token: "ORD-00000001", Status: domain.OrderPending, Items: []domain.OrderItem{
		{MenuItemID: 1, Quantity: 1},
	}}
	o.Items[0].UnitPrice = o.Items[0].UnitPrice.Add(domain.FlatDeliveryFee)
	require.NoError(t, store.Orders().Create(ctx, o))

	loaded, err := store.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Items[0].UnitPrice.IsZero())
	assert.Equal(t, o.ID, loaded.Items[0].OrderID)
}

func TestMarkerStore(t *testing.T) {
	markers := NewMarkerStore()
	ctx := context.Background()

	seen, err := markers.Seen(ctx, "pi_1", domain.PaymentSucceeded)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, markers.Mark(ctx, "pi_1", domain.PaymentSucceeded))

	seen, err = markers.Seen(ctx, "pi_1", domain.PaymentSucceeded)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = markers.Seen(ctx, "pi_1", domain.PaymentRefunded)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestNewDemoStore(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	tables, err := s.Tables().ListByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tables, 3)

	rest, err := s.Restaurants().FindByTable(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Fun N Food", rest.Name)

	fries, err := s.MenuItems().FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "5.50", fries.Price.StringFixed(2))
}
