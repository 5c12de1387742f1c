package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

type reservationRepository struct{ s *Store }

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	defer r.s.lock()()

	for _, existing := range r.s.data.reservations {
		if existing.Token == res.Token {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateToken, res.Token)
		}
	}

	res.ID = r.s.data.nextID("reservations")
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer r.s.lock()()
	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
	}
	return &res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	defer r.s.lock()()
	if _, ok := r.s.data.reservations[res.ID]; !ok {
		return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, res.ID)
	}
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepository) FindConflicting(ctx context.Context, tableID int64, window domain.TimeWindow, excludeID int64) ([]*domain.Reservation, error) {
	defer r.s.lock()()
	return conflicting(r.s.data, tableID, window, excludeID), nil
}

func conflicting(data *state, tableID int64, window domain.TimeWindow, excludeID int64) []*domain.Reservation {
	var result []*domain.Reservation
	for _, res := range data.reservations {
		if res.TableID != tableID || !res.IsActive() {
			continue
		}
		if excludeID != 0 && res.ID == excludeID {
			continue
		}
		if window.Conflicts(res.ReservationTime) {
			result = append(result, &res)
		}
	}
	sortReservations(result)
	return result
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	defer r.s.lock()()
	var result []*domain.Reservation
	for _, res := range r.s.data.reservations {
		if res.UserID == userID {
			result = append(result, &res)
		}
	}
	sortReservations(result)
	return result, nil
}

func (r *reservationRepository) List(ctx context.Context) ([]*domain.Reservation, error) {
	defer r.s.lock()()
	result := make([]*domain.Reservation, 0, len(r.s.data.reservations))
	for _, res := range r.s.data.reservations {
		result = append(result, &res)
	}
	sortReservations(result)
	return result, nil
}

func sortReservations(rs []*domain.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].ReservationTime.Equal(rs[j].ReservationTime) {
			return rs[i].ReservationTime.Before(rs[j].ReservationTime)
		}
		return rs[i].ID < rs[j].ID
	})
}
