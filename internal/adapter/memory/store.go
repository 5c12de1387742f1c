package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
)

type state struct {
	seq map[string]int64

	restaurants  map[int64]domain.Restaurant
	rooms        map[int64]domain.DiningRoom
	tables       map[int64]domain.DiningTable
	users        map[int64]domain.User
	menuItems    map[int64]domain.MenuItem
	reservations map[int64]domain.Reservation
	orders       map[int64]domain.Order
	orderItems   map[int64]domain.OrderItem
	payments     map[int64]domain.Payment
}

func newState() *state {
	return &state{
		seq:          make(map[string]int64),
		restaurants:  make(map[int64]domain.Restaurant),
		rooms:        make(map[int64]domain.DiningRoom),
		tables:       make(map[int64]domain.DiningTable),
		users:        make(map[int64]domain.User),
		menuItems:    make(map[int64]domain.MenuItem),
		reservations: make(map[int64]domain.Reservation),
		orders:       make(map[int64]domain.Order),
		orderItems:   make(map[int64]domain.OrderItem),
		payments:     make(map[int64]domain.Payment),
	}
}

func (s *state) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// clone copies every map. Entities are stored by value; the slices and
// pointers they carry are never mutated in place.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.seq {
		c.seq[k] = v
	}
	copyMap(c.restaurants, s.restaurants)
	copyMap(c.rooms, s.rooms)
	copyMap(c.tables, s.tables)
	copyMap(c.users, s.users)
	copyMap(c.menuItems, s.menuItems)
	copyMap(c.reservations, s.reservations)
	copyMap(c.orders, s.orders)
	copyMap(c.orderItems, s.orderItems)
	copyMap(c.payments, s.payments)
	return c
}

func copyMap[V any](dst, src map[int64]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// Store keeps everything in process memory behind one mutex. A transaction
// holds the mutex for its whole duration and restores a snapshot on error.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
}

var _ interfaces.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, data: newState()}
}

// lock takes the mutex unless the store is already inside a transaction.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) InTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true}

	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *Store) Reservations() interfaces.ReservationRepository { return &reservationRepository{s: s} }
func (s *Store) Tables() interfaces.TableRepository             { return &tableRepository{s: s} }
func (s *Store) Rooms() interfaces.DiningRoomRepository         { return &roomRepository{s: s} }
func (s *Store) Restaurants() interfaces.RestaurantRepository   { return &restaurantRepository{s: s} }
func (s *Store) Users() interfaces.UserRepository               { return &userRepository{s: s} }
func (s *Store) MenuItems() interfaces.MenuItemRepository       { return &menuItemRepository{s: s} }
func (s *Store) Orders() interfaces.OrderRepository             { return &orderRepository{s: s} }
func (s *Store) Payments() interfaces.PaymentRepository         { return &paymentRepository{s: s} }

// Seeding helpers. They assign ids when the given id is zero.

func (s *Store) AddRestaurant(r domain.Restaurant) domain.Restaurant {
	defer s.lock()()
	if r.ID == 0 {
		r.ID = s.data.nextID("restaurants")
	}
	s.data.restaurants[r.ID] = r
	return r
}

func (s *Store) AddRoom(r domain.DiningRoom) domain.DiningRoom {
	defer s.lock()()
	if r.ID == 0 {
		r.ID = s.data.nextID("rooms")
	}
	s.data.rooms[r.ID] = r
	return r
}

func (s *Store) AddUser(u domain.User) domain.User {
	defer s.lock()()
	if u.ID == 0 {
		u.ID = s.data.nextID("users")
	}
	s.data.users[u.ID] = u
	return u
}

func (s *Store) AddMenuItem(m domain.MenuItem) domain.MenuItem {
	defer s.lock()()
	if m.ID == 0 {
		m.ID = s.data.nextID("menu_items")
	}
	s.data.menuItems[m.ID] = m
	return m
}

func (s *Store) AddTable(t domain.DiningTable) domain.DiningTable {
	defer s.lock()()
	if t.ID == 0 {
		t.ID = s.data.nextID("tables")
	}
	s.data.tables[t.ID] = t
	return t
}

// AddReservation stores r as is, bypassing every booking rule.
func (s *Store) AddReservation(r domain.Reservation) domain.Reservation {
	defer s.lock()()
	if r.ID == 0 {
		r.ID = s.data.nextID("reservations")
	}
	s.data.reservations[r.ID] = r
	return r
}
