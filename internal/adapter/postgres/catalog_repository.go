package postgres

import (
	"context"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

type roomRepository struct {
	q Querier
}

func (r *roomRepository) FindByID(ctx context.Context, id int64) (*domain.DiningRoom, error) {
	query := `SELECT id, restaurant_id, name, description FROM dining_rooms WHERE id = $1`

	var room domain.DiningRoom
	err := r.q.QueryRow(ctx, query, id).Scan(&room.ID, &room.RestaurantID, &room.Name, &room.Description)
	if err != nil {
		return nil, notFound(err, "dining room", id)
	}
	return &room, nil
}

type restaurantRepository struct {
	q Querier
}

func (r *restaurantRepository) FindByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	query := `SELECT id, name, address FROM restaurants WHERE id = $1`

	var rest domain.Restaurant
	if err := r.q.QueryRow(ctx, query, id).Scan(&rest.ID, &rest.Name, &rest.Address); err != nil {
		return nil, notFound(err, "restaurant", id)
	}
	return &rest, nil
}

func (r *restaurantRepository) FindByTable(ctx context.Context, tableID int64) (*domain.Restaurant, error) {
	query := `
		SELECT rs.id, rs.name, rs.address
		FROM dining_tables t
		JOIN dining_rooms dr ON dr.id = t.dining_room_id
		JOIN restaurants rs ON rs.id = dr.restaurant_id
		WHERE t.id = $1
	`

	var rest domain.Restaurant
	if err := r.q.QueryRow(ctx, query, tableID).Scan(&rest.ID, &rest.Name, &rest.Address); err != nil {
		return nil, notFound(err, "restaurant for table", tableID)
	}
	return &rest, nil
}

type userRepository struct {
	q Querier
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, email, roles FROM users WHERE id = $1`

	var (
		user  domain.User
		roles []string
	)
	if err := r.q.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &roles); err != nil {
		return nil, notFound(err, "user", id)
	}
	for _, role := range roles {
		user.Roles = append(user.Roles, domain.Role(role))
	}
	return &user, nil
}

type menuItemRepository struct {
	q Querier
}

func (r *menuItemRepository) FindByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	query := `SELECT id, restaurant_id, name, price, available FROM menu_items WHERE id = $1`

	var item domain.MenuItem
	err := r.q.QueryRow(ctx, query, id).Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Price, &item.Available)
	if err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return &item, nil
}
