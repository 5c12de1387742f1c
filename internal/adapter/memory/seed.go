package memory

import (
	"github.com/YelzhanWeb/dinein/internal/domain"

	"github.com/shopspring/decimal"
)

// NewDemoStore returns a store holding the same demo catalog the SQL seed
// migration installs.
func NewDemoStore() *Store {
	s := NewStore()

	rest := s.AddRestaurant(domain.Restaurant{Name: "Fun N Food", Address: "12 Abay Ave, Almaty"})
	hall := s.AddRoom(domain.DiningRoom{RestaurantID: rest.ID, Name: "Main Hall", Description: "Ground floor"})
	terrace := s.AddRoom(domain.DiningRoom{RestaurantID: rest.ID, Name: "Terrace", Description: "Open air, summer only"})

	s.AddTable(domain.DiningTable{DiningRoomID: hall.ID, TableNumber: "T1", Capacity: 4})
	s.AddTable(domain.DiningTable{DiningRoomID: hall.ID, TableNumber: "T2", Capacity: 2})
	s.AddTable(domain.DiningTable{DiningRoomID: hall.ID, TableNumber: "T3", Capacity: 6})
	s.AddTable(domain.DiningTable{DiningRoomID: terrace.ID, TableNumber: "P1", Capacity: 4})

	s.AddUser(domain.User{Username: "admin", Email: "admin@funnfood.kz", Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}})
	s.AddUser(domain.User{Username: "manager", Email: "manager@funnfood.kz", Roles: []domain.Role{domain.RoleUser, domain.RoleManager}})
	s.AddUser(domain.User{Username: "guest", Email: "guest@funnfood.kz", Roles: []domain.Role{domain.RoleUser}})

	for _, item := range []struct {
		name  string
		price string
	}{{"Classic Burger", "10.00"}, {"Fries", "5.50"}, {"Lemonade", "2.75"}} {
		s.AddMenuItem(domain.MenuItem{
			RestaurantID: rest.ID,
			Name:         item.name,
			Price:        decimal.RequireFromString(item.price),
			Available:    true,
		})
	}

	return s
}
