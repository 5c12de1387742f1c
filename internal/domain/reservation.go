package domain

import (
	"fmt"
	"time"
)

const (
	// MinBookingNotice is how far ahead a table must be booked.
	MinBookingNotice = 6 * time.Hour

	// MinChangeNotice is the latest a reservation may be cancelled or changed.
	MinChangeNotice = 2 * time.Hour
)

// Reservation represents a booked dining table
type Reservation struct {
	ID              int64
	UserID          int64
	TableID         int64
	ReservationTime time.Time
	PartySize       int
	Status          ReservationStatus
	Token           string
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation creates a confirmed reservation. The table and the time
// window are validated by the caller.
func NewReservation(userID int64, table *DiningTable, at time.Time, partySize int, specialRequests string, now time.Time) (*Reservation, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be positive", ErrValidation)
	}
	if !table.Seats(partySize) {
		return nil, fmt.Errorf("%w: table %s seats %d, party of %d requested",
			ErrValidation, table.TableNumber, table.Capacity, partySize)
	}

	return &Reservation{
		UserID:          userID,
		TableID:         table.ID,
		ReservationTime: at,
		PartySize:       partySize,
		Status:          ReservationConfirmed,
		SpecialRequests: specialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ValidateBookingTime enforces the booking horizon: at least six hours and at
// most one calendar month ahead of now.
func ValidateBookingTime(at, now time.Time) error {
	if at.Before(now.Add(MinBookingNotice)) {
		return fmt.Errorf("%w: reservations must be made at least 6 hours in advance", ErrValidation)
	}
	if at.After(now.AddDate(0, 1, 0)) {
		return fmt.Errorf("%w: reservations can only be made up to 1 month in advance", ErrValidation)
	}
	return nil
}

// EnsureChangeable rejects changes closer than two hours to the reservation.
func (r *Reservation) EnsureChangeable(now time.Time) error {
	if r.ReservationTime.Before(now.Add(MinChangeNotice)) {
		return fmt.Errorf("%w: reservations cannot be changed less than 2 hours before the reserved time", ErrValidation)
	}
	return nil
}

// Cancel moves the reservation to CANCELLED. Cancelling twice is a no-op.
func (r *Reservation) Cancel(now time.Time) {
	if r.Status == ReservationCancelled {
		return
	}
	r.Status = ReservationCancelled
	r.UpdatedAt = now
}

// Reschedule applies new booking details.
func (r *Reservation) Reschedule(table *DiningTable, at time.Time, partySize int, specialRequests string, now time.Time) error {
	if partySize < 1 {
		return fmt.Errorf("%w: party size must be positive", ErrValidation)
	}
	if !table.Seats(partySize) {
		return fmt.Errorf("%w: table %s seats %d, party of %d requested",
			ErrValidation, table.TableNumber, table.Capacity, partySize)
	}
	r.TableID = table.ID
	r.ReservationTime = at
	r.PartySize = partySize
	r.SpecialRequests = specialRequests
	r.UpdatedAt = now
	return nil
}

// IsActive reports whether the reservation still holds its table.
func (r *Reservation) IsActive() bool {
	return r.Status != ReservationCancelled
}
