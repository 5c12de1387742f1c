package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookingTime(t *testing.T) {
	now := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{name: "exactly six hours ahead", at: now.Add(6 * time.Hour), wantErr: false},
		{name: "just under six hours", at: now.Add(6*time.Hour - time.Second), wantErr: true},
		{name: "in the past", at: now.Add(-time.Hour), wantErr: true},
		{name: "one week ahead", at: now.AddDate(0, 0, 7), wantErr: false},
		{name: "exactly one month ahead", at: now.AddDate(0, 1, 0), wantErr: false},
		{name: "just over one month", at: now.AddDate(0, 1, 0).Add(time.Second), wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := ValidateBookingTime(testCase.at, now)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewReservation(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	table := &DiningTable{ID: 7, DiningRoomID: 1, TableNumber: "T7", Capacity: 4}
	at := now.Add(24 * time.Hour)

	r, err := NewReservation(3, table, at, 4, "window seat", now)
	require.NoError(t, err)
	assert.Equal(t, ReservationConfirmed, r.Status)
	assert.Equal(t, int64(7), r.TableID)
	assert.Equal(t, int64(3), r.UserID)
	assert.Equal(t, now, r.CreatedAt)

	_, err = NewReservation(3, table, at, 5, "", now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewReservation(3, table, at, 0, "", now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReservation_EnsureChangeable(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	r := &Reservation{ReservationTime: now.Add(2 * time.Hour)}
	assert.NoError(t, r.EnsureChangeable(now))

	r.ReservationTime = now.Add(2*time.Hour - time.Second)
	err := r.EnsureChangeable(now)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestReservation_Cancel(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	r := &Reservation{Status: ReservationConfirmed}

	r.Cancel(now)
	assert.Equal(t, ReservationCancelled, r.Status)
	assert.Equal(t, now, r.UpdatedAt)
	assert.False(t, r.IsActive())

	r.Cancel(now.Add(time.Minute))
	assert.Equal(t, now, r.UpdatedAt)
}

func TestReservation_Reschedule(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	r := &Reservation{TableID: 1, PartySize: 2, Status: ReservationConfirmed}
	small := &DiningTable{ID: 2, TableNumber: "S1", Capacity: 2}

	err := r.Reschedule(small, now.Add(48*time.Hour), 3, "", now)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(1), r.TableID)

	err = r.Reschedule(small, now.Add(48*time.Hour), 2, "birthday", now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), r.TableID)
	assert.Equal(t, "birthday", r.SpecialRequests)
}
