package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
)

const (
	confirmationDateLayout = "2006-01-02"
	confirmationTimeLayout = "15:04"
)

type Service struct {
	store    interfaces.Store
	notifier interfaces.Notifier
	qr       interfaces.QRGenerator
	logger   logger.Logger
	now      func() time.Time
	newToken domain.TokenGenerator
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTokenGenerator(gen domain.TokenGenerator) Option {
	return func(s *Service) { s.newToken = gen }
}

func NewService(store interfaces.Store, notifier interfaces.Notifier, qr interfaces.QRGenerator, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		qr:       qr,
		logger:   logger,
		now:      time.Now,
		newToken: domain.NewReservationToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, user domain.Identity, cmd interfaces.CreateReservationCommand) (*domain.Reservation, error) {
	now := s.now()

	// 1. Окно бронирования: не раньше чем через 6 часов и не позже месяца
	if err := domain.ValidateBookingTime(cmd.Time, now); err != nil {
		return nil, err
	}

	var (
		reservation *domain.Reservation
		customer    *domain.User
	)

	// 2. Блокировка стола, проверка вместимости и конфликтов, вставка
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		u, err := tx.Users().FindByID(ctx, user.UserID)
		if err != nil {
			return err
		}

		table, err := tx.Tables().LockByID(ctx, cmd.TableID)
		if err != nil {
			return err
		}

		r, err := domain.NewReservation(u.ID, table, cmd.Time, cmd.PartySize, cmd.SpecialRequests, now)
		if err != nil {
			return err
		}

		conflicts, err := tx.Reservations().FindConflicting(ctx, table.ID, domain.FixedWindowConflict(cmd.Time), 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("%w: table %s is already reserved at this time", domain.ErrConflict, table.TableNumber)
		}

		if err := s.insertWithToken(ctx, tx, r); err != nil {
			return err
		}

		reservation, customer = r, u
		return nil
	})
	if err != nil {
		s.logger.Error("reservation_failed", "Failed to create reservation", "", map[string]interface{}{
			"user_id":  user.UserID,
			"table_id": cmd.TableID,
		}, err)
		return nil, err
	}

	s.logger.Info("reservation_created", "Reservation confirmed", reservation.Token, map[string]interface{}{
		"reservation_id": reservation.ID,
		"table_id":       reservation.TableID,
		"party_size":     reservation.PartySize,
	})

	// 3. Письмо отправляется после коммита, ошибка только логируется
	s.sendConfirmation(ctx, customer, reservation)

	return reservation, nil
}

func (s *Service) insertWithToken(ctx context.Context, tx interfaces.Store, r *domain.Reservation) error {
	for attempt := 1; attempt <= domain.MaxTokenAttempts; attempt++ {
		r.Token = s.newToken()

		err := tx.Reservations().Create(ctx, r)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateToken) {
			return err
		}

		s.logger.Debug("token_collision", "Reservation token already taken, regenerating", r.Token, map[string]interface{}{
			"attempt": attempt,
		})
	}
	return fmt.Errorf("failed to generate a unique reservation token after %d attempts: %w",
		domain.MaxTokenAttempts, domain.ErrDuplicateToken)
}

func (s *Service) sendConfirmation(ctx context.Context, user *domain.User, r *domain.Reservation) {
	restaurant, err := s.store.Restaurants().FindByTable(ctx, r.TableID)
	if err != nil {
		s.logger.Error("notification_failed", "Failed to resolve restaurant for confirmation", r.Token, nil, err)
		return
	}

	msg := interfaces.ReservationConfirmation{
		ReservationID: r.ID,
		Email:         user.Email,
		Name:          user.Username,
		Restaurant:    restaurant.Name,
		Date:          r.ReservationTime.Format(confirmationDateLayout),
		Time:          r.ReservationTime.Format(confirmationTimeLayout),
		Guests:        r.PartySize,
		Token:         r.Token,
	}

	if err := s.notifier.SendReservationConfirmation(ctx, msg); err != nil {
		s.logger.Error("notification_failed", "Failed to send reservation confirmation", r.Token, map[string]interface{}{
			"email": user.Email,
		}, err)
		return
	}

	s.logger.Debug("notification_sent", "Reservation confirmation queued", r.Token, nil)
}

// Cancel cancels a reservation on behalf of actor, who must own it or be
// elevated.
func (s *Service) Cancel(ctx context.Context, id int64, actor domain.Identity) (*domain.Reservation, error) {
	return s.cancel(ctx, id, func(r *domain.Reservation) error {
		if !actor.CanAccess(r.UserID) {
			return fmt.Errorf("%w: reservation %d belongs to another user", domain.ErrOwnership, r.ID)
		}
		return nil
	})
}

// CancelByID cancels without an ownership check. The caller is responsible
// for authorization.
func (s *Service) CancelByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.cancel(ctx, id, nil)
}

func (s *Service) cancel(ctx context.Context, id int64, authorize func(*domain.Reservation) error) (*domain.Reservation, error) {
	now := s.now()

	var reservation *domain.Reservation
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		r, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(r); err != nil {
				return err
			}
		}

		reservation = r
		if r.Status == domain.ReservationCancelled {
			return nil
		}

		if err := r.EnsureChangeable(now); err != nil {
			return err
		}

		r.Cancel(now)
		return tx.Reservations().Update(ctx, r)
	})
	if err != nil {
		s.logger.Error("reservation_cancel_failed", "Failed to cancel reservation", "", map[string]interface{}{
			"reservation_id": id,
		}, err)
		return nil, err
	}

	s.logger.Info("reservation_cancelled", "Reservation cancelled", reservation.Token, map[string]interface{}{
		"reservation_id": reservation.ID,
	})
	return reservation, nil
}

// Update moves, resizes or re-annotates a reservation.
func (s *Service) Update(ctx context.Context, id int64, actor domain.Identity, cmd interfaces.UpdateReservationCommand) (*domain.Reservation, error) {
	now := s.now()

	var reservation *domain.Reservation
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		r, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(r.UserID) {
			return fmt.Errorf("%w: reservation %d belongs to another user", domain.ErrOwnership, r.ID)
		}
		if err := r.EnsureChangeable(now); err != nil {
			return err
		}

		tableID := r.TableID
		if cmd.TableID != nil {
			tableID = *cmd.TableID
		}

		table, err := tx.Tables().LockByID(ctx, tableID)
		if err != nil {
			return err
		}

		if tableID != r.TableID || !cmd.Time.Equal(r.ReservationTime) {
			conflicts, err := tx.Reservations().FindConflicting(ctx, table.ID, domain.FixedWindowConflict(cmd.Time), r.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return fmt.Errorf("%w: table %s is already reserved at this time", domain.ErrConflict, table.TableNumber)
			}
		}

		if err := r.Reschedule(table, cmd.Time, cmd.PartySize, cmd.SpecialRequests, now); err != nil {
			return err
		}

		reservation = r
		return tx.Reservations().Update(ctx, r)
	})
	if err != nil {
		s.logger.Error("reservation_update_failed", "Failed to update reservation", "", map[string]interface{}{
			"reservation_id": id,
		}, err)
		return nil, err
	}

	s.logger.Info("reservation_updated", "Reservation updated", reservation.Token, map[string]interface{}{
		"reservation_id": reservation.ID,
		"table_id":       reservation.TableID,
	})
	return reservation, nil
}

// UpdateStatus overwrites the status without any transition rules.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}

	var reservation *domain.Reservation
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		r, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		r.Status = status
		r.UpdatedAt = s.now()
		reservation = r
		return tx.Reservations().Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation_status_overwritten", "Reservation status set", reservation.Token, map[string]interface{}{
		"reservation_id": reservation.ID,
		"status":         status,
	})
	return reservation, nil
}

// IsTableAvailable checks the table with a 30 minute buffer on both sides of
// the requested duration.
func (s *Service) IsTableAvailable(ctx context.Context, tableID int64, at time.Time, durationMinutes int) (bool, error) {
	if durationMinutes < 0 {
		return false, fmt.Errorf("%w: duration must not be negative", domain.ErrValidation)
	}

	table, err := s.store.Tables().FindByID(ctx, tableID)
	if err != nil {
		return false, err
	}

	window := domain.DurationBufferConflict(time.Duration(durationMinutes) * time.Minute)(at)
	conflicts, err := s.store.Reservations().FindConflicting(ctx, table.ID, window, 0)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// AvailableTables lists tables in the room that seat the party and are free
// around the requested time.
func (s *Service) AvailableTables(ctx context.Context, roomID int64, at time.Time, guests int) ([]*domain.DiningTable, error) {
	if guests < 1 {
		return nil, fmt.Errorf("%w: number of guests must be positive", domain.ErrValidation)
	}
	if _, err := s.store.Rooms().FindByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.store.Tables().FindAvailable(ctx, roomID, guests, domain.FixedWindowConflict(at))
}

func (s *Service) Get(ctx context.Context, id int64, actor domain.Identity) (*domain.Reservation, error) {
	r, err := s.store.Reservations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(r.UserID) {
		return nil, fmt.Errorf("%w: reservation %d belongs to another user", domain.ErrOwnership, r.ID)
	}
	return r, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	return s.store.Reservations().ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]*domain.Reservation, error) {
	return s.store.Reservations().List(ctx)
}

// TokenQRCode renders the reservation token as a PNG QR code.
func (s *Service) TokenQRCode(ctx context.Context, id int64, actor domain.Identity) ([]byte, error) {
	r, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	png, err := s.qr.Generate(r.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
