package memory

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

type roomRepository struct{ s *Store }

func (r *roomRepository) FindByID(ctx context.Context, id int64) (*domain.DiningRoom, error) {
	defer r.s.lock()()
	room, ok := r.s.data.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: dining room %d", domain.ErrNotFound, id)
	}
	return &room, nil
}

type restaurantRepository struct{ s *Store }

func (r *restaurantRepository) FindByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	defer r.s.lock()()
	return r.find(id)
}

func (r *restaurantRepository) FindByTable(ctx context.Context, tableID int64) (*domain.Restaurant, error) {
	defer r.s.lock()()
	table, ok := r.s.data.tables[tableID]
	if !ok {
		return nil, fmt.Errorf("%w: dining table %d", domain.ErrNotFound, tableID)
	}
	room, ok := r.s.data.rooms[table.DiningRoomID]
	if !ok {
		return nil, fmt.Errorf("%w: dining room %d", domain.ErrNotFound, table.DiningRoomID)
	}
	return r.find(room.RestaurantID)
}

func (r *restaurantRepository) find(id int64) (*domain.Restaurant, error) {
	restaurant, ok := r.s.data.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("%w: restaurant %d", domain.ErrNotFound, id)
	}
	return &restaurant, nil
}

type userRepository struct{ s *Store }

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	defer r.s.lock()()
	user, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return &user, nil
}

type menuItemRepository struct{ s *Store }

func (r *menuItemRepository) FindByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	defer r.s.lock()()
	item, ok := r.s.data.menuItems[id]
	if !ok {
		return nil, fmt.Errorf("%w: menu item %d", domain.ErrNotFound, id)
	}
	return &item, nil
}
