package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID      int64
	Name    string
	Address string
}

type DiningRoom struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  string
}

// DiningTable is a bookable table; TableNumber is unique within its room.
type DiningTable struct {
	ID           int64
	DiningRoomID int64
	TableNumber  string
	Capacity     int
}

// NewDiningTable validates and builds a table for the given room
func NewDiningTable(roomID int64, number string, capacity int) (*DiningTable, error) {
	t := &DiningTable{
		DiningRoomID: roomID,
		TableNumber:  strings.TrimSpace(number),
		Capacity:     capacity,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *DiningTable) Validate() error {
	if t.TableNumber == "" {
		return fmt.Errorf("%w: table number is required", ErrValidation)
	}
	if t.Capacity < 1 {
		return fmt.Errorf("%w: table capacity must be positive", ErrValidation)
	}
	return nil
}

// Seats reports whether the table can take a party of the given size.
func (t *DiningTable) Seats(partySize int) bool {
	return partySize <= t.Capacity
}

type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Price        decimal.Decimal
	Available    bool
}
