package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
	"github.com/shopspring/decimal"
)

type orderRepository struct{ s *Store }

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	defer r.s.lock()()

	for _, existing := range r.s.data.orders {
		if existing.Token == o.Token {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateToken, o.Token)
		}
	}

	o.ID = r.s.data.nextID("orders")
	for i := range o.Items {
		o.Items[i].ID = r.s.data.nextID("order_items")
		o.Items[i].OrderID = o.ID
		r.s.data.orderItems[o.Items[i].ID] = unpriced(o.Items[i])
	}

	header := *o
	header.Items = nil
	r.s.data.orders[o.ID] = header
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	defer r.s.lock()()
	return r.load(id)
}

func (r *orderRepository) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *orderRepository) FindByToken(ctx context.Context, token string) (*domain.Order, error) {
	defer r.s.lock()()
	for id, o := range r.s.data.orders {
		if o.Token == token {
			return r.load(id)
		}
	}
	return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, token)
}

func (r *orderRepository) load(id int64) (*domain.Order, error) {
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}

	o.Items = nil
	for _, item := range r.s.data.orderItems {
		if item.OrderID == id {
			o.Items = append(o.Items, item)
		}
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ID < o.Items[j].ID })
	return &o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	defer r.s.lock()()
	if _, ok := r.s.data.orders[o.ID]; !ok {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, o.ID)
	}
	header := *o
	header.Items = nil
	r.s.data.orders[o.ID] = header
	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, item *domain.OrderItem) error {
	defer r.s.lock()()
	if _, ok := r.s.data.orders[item.OrderID]; !ok {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, item.OrderID)
	}
	item.ID = r.s.data.nextID("order_items")
	r.s.data.orderItems[item.ID] = unpriced(*item)
	return nil
}

// unpriced drops the live unit price, which is not part of the stored row.
func unpriced(item domain.OrderItem) domain.OrderItem {
	item.UnitPrice = decimal.Zero
	return item
}

func (r *orderRepository) FindItem(ctx context.Context, itemID int64) (*domain.OrderItem, error) {
	defer r.s.lock()()
	item, ok := r.s.data.orderItems[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: order item %d", domain.ErrNotFound, itemID)
	}
	return &item, nil
}

func (r *orderRepository) RemoveItem(ctx context.Context, itemID int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.orderItems[itemID]; !ok {
		return fmt.Errorf("%w: order item %d", domain.ErrNotFound, itemID)
	}
	delete(r.s.data.orderItems, itemID)
	return nil
}

func (r *orderRepository) List(ctx context.Context, filter interfaces.OrderFilter) ([]*domain.Order, error) {
	defer r.s.lock()()

	var result []*domain.Order
	for id, o := range r.s.data.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.RestaurantID != nil && o.RestaurantID != *filter.RestaurantID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		order, err := r.load(id)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}
