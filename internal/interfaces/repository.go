package interfaces

import (
	"context"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

// Интерфейсы Репозиториев (Adapter/Postgres, Adapter/Memory)
// Lookups return domain.ErrNotFound when the row does not exist.

type ReservationRepository interface {
	// Create returns domain.ErrDuplicateToken when the token is taken.
	Create(ctx context.Context, r *domain.Reservation) error
	FindByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	// FindConflicting returns live reservations on the table that collide
	// with window, ignoring excludeID when it is non-zero.
	FindConflicting(ctx context.Context, tableID int64, window domain.TimeWindow, excludeID int64) ([]*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Reservation, error)
	List(ctx context.Context) ([]*domain.Reservation, error)
}

type TableRepository interface {
	// Create returns domain.ErrConflict when the number is taken in the room.
	Create(ctx context.Context, t *domain.DiningTable) error
	FindByID(ctx context.Context, id int64) (*domain.DiningTable, error)
	// LockByID loads the table and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, id int64) (*domain.DiningTable, error)
	Update(ctx context.Context, t *domain.DiningTable) error
	Delete(ctx context.Context, id int64) error
	ListByRoom(ctx context.Context, roomID int64) ([]*domain.DiningTable, error)
	// FindAvailable returns tables in the room seating at least minCapacity
	// with no live reservation colliding with window.
	FindAvailable(ctx context.Context, roomID int64, minCapacity int, window domain.TimeWindow) ([]*domain.DiningTable, error)
}

type DiningRoomRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.DiningRoom, error)
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	FindByTable(ctx context.Context, tableID int64) (*domain.Restaurant, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type MenuItemRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type OrderFilter struct {
	UserID       *int64
	RestaurantID *int64
	Status       *domain.OrderStatus
}

type OrderRepository interface {
	// Create stores the order and its items. It returns
	// domain.ErrDuplicateToken when the token is taken.
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByToken(ctx context.Context, token string) (*domain.Order, error)
	// LockByID loads the order and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, id int64) (*domain.Order, error)
	// Update stores the order header: status, payment and totals.
	Update(ctx context.Context, o *domain.Order) error
	AddItem(ctx context.Context, item *domain.OrderItem) error
	FindItem(ctx context.Context, itemID int64) (*domain.OrderItem, error)
	RemoveItem(ctx context.Context, itemID int64) error
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
}

type PaymentRepository interface {
	// Create returns domain.ErrConflict when the transaction id is taken.
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id int64) (*domain.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
}

// Store groups the repositories. InTx runs fn as one unit of work; the Store
// passed to fn is bound to the transaction and fn's error rolls it back.
type Store interface {
	Reservations() ReservationRepository
	Tables() TableRepository
	Rooms() DiningRoomRepository
	Restaurants() RestaurantRepository
	Users() UserRepository
	MenuItems() MenuItemRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
}
