package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/shopspring/decimal"
)

// Команды для сервисов
type CreateReservationCommand struct {
	TableID         int64
	Time            time.Time
	PartySize       int
	SpecialRequests string
}

type UpdateReservationCommand struct {
	Time            time.Time
	TableID         *int64
	PartySize       int
	SpecialRequests string
}

type CreateTableCommand struct {
	DiningRoomID int64
	TableNumber  string
	Capacity     int
}

type UpdateTableCommand struct {
	DiningRoomID *int64
	TableNumber  *string
	Capacity     *int
}

type CreateOrderCommand struct {
	UserID       int64
	RestaurantID int64
	Items        []CreateOrderItemCommand
	Delivery     domain.DeliveryDetails
}

type CreateOrderItemCommand struct {
	MenuItemID          int64
	Quantity            int
	SpecialInstructions string
}

// Интерфейсы Сервисов (Business Logic)
type ReservationService interface {
	Create(ctx context.Context, user domain.Identity, cmd CreateReservationCommand) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, actor domain.Identity) (*domain.Reservation, error)
	CancelByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, id int64, actor domain.Identity, cmd UpdateReservationCommand) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error)
	IsTableAvailable(ctx context.Context, tableID int64, at time.Time, durationMinutes int) (bool, error)
	AvailableTables(ctx context.Context, roomID int64, at time.Time, guests int) ([]*domain.DiningTable, error)
	Get(ctx context.Context, id int64, actor domain.Identity) (*domain.Reservation, error)
	ListForUser(ctx context.Context, userID int64) ([]*domain.Reservation, error)
	List(ctx context.Context) ([]*domain.Reservation, error)
	TokenQRCode(ctx context.Context, id int64, actor domain.Identity) ([]byte, error)
}

type TableService interface {
	CreateTable(ctx context.Context, cmd CreateTableCommand) (*domain.DiningTable, error)
	UpdateTable(ctx context.Context, id int64, cmd UpdateTableCommand) (*domain.DiningTable, error)
	DeleteTable(ctx context.Context, id int64) error
	GetTable(ctx context.Context, id int64) (*domain.DiningTable, error)
	ListTables(ctx context.Context, roomID int64) ([]*domain.DiningTable, error)
}

type OrderService interface {
	Create(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	AddItem(ctx context.Context, orderID int64, item CreateOrderItemCommand) (*domain.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, id int64) (*domain.Order, error)
	UpdatePaymentInfo(ctx context.Context, id int64, paymentID string, status domain.PaymentStatus) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	GetByToken(ctx context.Context, token string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
}

type PaymentService interface {
	Process(ctx context.Context, orderID int64, method, transactionID string) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID int64, reason string) (*domain.Payment, error)
	CreateIntent(ctx context.Context, orderID int64, amount decimal.Decimal) (*domain.PaymentIntent, error)
	UpdateStatus(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error)
}
