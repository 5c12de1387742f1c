package domain

import "time"

const (
	// ReservationBlock is how long a table stays occupied on each side of a
	// reservation time.
	ReservationBlock = time.Hour

	// reservationLookback is how long an earlier reservation keeps a table
	// busy after its start.
	reservationLookback = 2 * time.Hour

	availabilityBuffer = 30 * time.Minute
)

// TimeWindow is a closed interval [Start, End]. When BlockOverlap is set a
// reservation also collides if its own ±1h block overlaps the interval.
type TimeWindow struct {
	Start        time.Time
	End          time.Time
	BlockOverlap bool
}

// ConflictPolicy maps a requested reservation time to the window that must be
// free of other reservations.
type ConflictPolicy func(at time.Time) TimeWindow

// FixedWindowConflict occupies [at-1h, at+1h]. Booking, rescheduling and the
// available-tables search use it.
func FixedWindowConflict(at time.Time) TimeWindow {
	return TimeWindow{Start: at.Add(-ReservationBlock), End: at.Add(ReservationBlock), BlockOverlap: true}
}

// DurationBufferConflict occupies [at-30m, at+duration+30m]. Only the
// standalone availability check uses it.
func DurationBufferConflict(duration time.Duration) ConflictPolicy {
	return func(at time.Time) TimeWindow {
		return TimeWindow{Start: at.Add(-availabilityBuffer), End: at.Add(duration + availabilityBuffer)}
	}
}

// Conflicts reports whether a live reservation at reservedAt collides with w.
// A reservation collides when it starts inside the window or when it started
// at most two hours before the window opens. Windows with BlockOverlap also
// reject a reservation whose ±1h block reaches into them.
func (w TimeWindow) Conflicts(reservedAt time.Time) bool {
	if !reservedAt.Before(w.Start) && !reservedAt.After(w.End) {
		return true
	}
	if !reservedAt.After(w.Start) && !reservedAt.Add(reservationLookback).Before(w.Start) {
		return true
	}
	if !w.BlockOverlap {
		return false
	}
	return !reservedAt.Add(-ReservationBlock).After(w.End) && !reservedAt.Add(ReservationBlock).Before(w.Start)
}

// FirstConflict returns the first live reservation in rs that collides with w,
// skipping the reservation with id exclude (0 skips nothing).
func (w TimeWindow) FirstConflict(rs []*Reservation, exclude int64) *Reservation {
	for _, r := range rs {
		if r.ID == exclude && exclude != 0 {
			continue
		}
		if r.Status == ReservationCancelled {
			continue
		}
		if w.Conflicts(r.ReservationTime) {
			return r
		}
	}
	return nil
}
