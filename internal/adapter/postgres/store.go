package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store is the PostgreSQL implementation of interfaces.Store.
type Store struct {
	db   DB
	q    Querier
	inTx bool
}

var _ interfaces.Store = (*Store)(nil)

func NewStore(db DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Reservations() interfaces.ReservationRepository { return &reservationRepository{q: s.q} }
func (s *Store) Tables() interfaces.TableRepository             { return &tableRepository{q: s.q} }
func (s *Store) Rooms() interfaces.DiningRoomRepository         { return &roomRepository{q: s.q} }
func (s *Store) Restaurants() interfaces.RestaurantRepository   { return &restaurantRepository{q: s.q} }
func (s *Store) Users() interfaces.UserRepository               { return &userRepository{q: s.q} }
func (s *Store) MenuItems() interfaces.MenuItemRepository       { return &menuItemRepository{q: s.q} }
func (s *Store) Orders() interfaces.OrderRepository             { return &orderRepository{q: s.q} }
func (s *Store) Payments() interfaces.PaymentRepository         { return &paymentRepository{q: s.q} }

// notFound maps an empty result to domain.ErrNotFound.
func notFound(err error, what string, key any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %v", domain.ErrNotFound, what, key)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
