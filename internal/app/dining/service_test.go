package dining

import (
	"context"
	"testing"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/adapter/memory"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *memory.Store, domain.DiningRoom, domain.DiningRoom) {
	t.Helper()
	store := memory.NewStore()
	restaurant := store.AddRestaurant(domain.Restaurant{Name: "Fun N Food"})
	terrace := store.AddRoom(domain.DiningRoom{RestaurantID: restaurant.ID, Name: "Terrace"})
	hall := store.AddRoom(domain.DiningRoom{RestaurantID: restaurant.ID, Name: "Hall"})
	return NewService(store, logger.Nop()), store, terrace, hall
}

func TestService_CreateTable(t *testing.T) {
	svc, _, terrace, hall := newService(t)

	_, err := svc.CreateTable(context.Background(), interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T1", Capacity: 4})
	require.NoError(t, err)

	tests := []struct {
		name    string
		cmd     interfaces.CreateTableCommand
		wantErr error
	}{
		{
			name: "same number in another room",
			cmd:  interfaces.CreateTableCommand{DiningRoomID: hall.ID, TableNumber: "T1", Capacity: 2},
		},
		{
			name:    "duplicate number in the room",
			cmd:     interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T1", Capacity: 2},
			wantErr: domain.ErrConflict,
		},
		{
			name:    "duplicate number with padding",
			cmd:     interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: " T1 ", Capacity: 2},
			wantErr: domain.ErrConflict,
		},
		{
			name:    "zero capacity",
			cmd:     interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T9", Capacity: 0},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing number",
			cmd:     interfaces.CreateTableCommand{DiningRoomID: terrace.ID, Capacity: 2},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown room",
			cmd:     interfaces.CreateTableCommand{DiningRoomID: 404, TableNumber: "T1", Capacity: 2},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			table, err := svc.CreateTable(context.Background(), testCase.cmd)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, table)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, table.ID)
			}
		})
	}
}

func TestService_UpdateTable(t *testing.T) {
	svc, _, terrace, hall := newService(t)
	ctx := context.Background()

	t1, err := svc.CreateTable(ctx, interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T1", Capacity: 4})
	require.NoError(t, err)
	_, err = svc.CreateTable(ctx, interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T2", Capacity: 2})
	require.NoError(t, err)

	capacity := 6
	updated, err := svc.UpdateTable(ctx, t1.ID, interfaces.UpdateTableCommand{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
	assert.Equal(t, "T1", updated.TableNumber)

	taken := "T2"
	_, err = svc.UpdateTable(ctx, t1.ID, interfaces.UpdateTableCommand{TableNumber: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err = svc.UpdateTable(ctx, t1.ID, interfaces.UpdateTableCommand{TableNumber: &taken, DiningRoomID: &hall.ID})
	require.NoError(t, err)
	assert.Equal(t, hall.ID, updated.DiningRoomID)

	zero := 0
	_, err = svc.UpdateTable(ctx, t1.ID, interfaces.UpdateTableCommand{Capacity: &zero})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := svc.GetTable(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Capacity)

	missing := int64(404)
	_, err = svc.UpdateTable(ctx, t1.ID, interfaces.UpdateTableCommand{DiningRoomID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateTable(ctx, 404, interfaces.UpdateTableCommand{Capacity: &capacity})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_DeleteAndList(t *testing.T) {
	svc, store, terrace, _ := newService(t)
	ctx := context.Background()

	t1, err := svc.CreateTable(ctx, interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T1", Capacity: 4})
	require.NoError(t, err)
	t2, err := svc.CreateTable(ctx, interfaces.CreateTableCommand{DiningRoomID: terrace.ID, TableNumber: "T2", Capacity: 2})
	require.NoError(t, err)

	tables, err := svc.ListTables(ctx, terrace.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	store.AddReservation(domain.Reservation{TableID: t2.ID, ReservationTime: time.Now().Add(24 * time.Hour), Status: domain.ReservationConfirmed, Token: "RES-KEEPME"})
	assert.ErrorIs(t, svc.DeleteTable(ctx, t2.ID), domain.ErrConflict)

	require.NoError(t, svc.DeleteTable(ctx, t1.ID))
	assert.ErrorIs(t, svc.DeleteTable(ctx, t1.ID), domain.ErrNotFound)

	_, err = svc.GetTable(ctx, t1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ListTables(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
