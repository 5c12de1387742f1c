package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, user_id, restaurant_id, token, status, order_date,
	delivery_address, city, state, zip_code, contact_phone, special_instructions,
	payment_id, payment_status, subtotal, tax, delivery_fee, total,
	estimated_delivery_minutes, updated_at`

type orderRepository struct {
	q Querier
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	// Insert order
	query := `
		INSERT INTO orders (user_id, restaurant_id, token, status, order_date,
		                    delivery_address, city, state, zip_code, contact_phone, special_instructions,
		                    payment_id, payment_status, subtotal, tax, delivery_fee, total,
		                    estimated_delivery_minutes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (token) DO NOTHING
		RETURNING id
	`
	d := order.Delivery
	err := r.q.QueryRow(ctx, query,
		order.UserID, order.RestaurantID, order.Token, order.Status, order.OrderDate,
		d.Address, d.City, d.State, d.ZipCode, d.ContactPhone, d.SpecialInstructions,
		order.PaymentID, order.PaymentStatus, order.Subtotal, order.Tax, order.DeliveryFee, order.Total,
		order.EstimatedDeliveryMinutes, order.UpdatedAt,
	).Scan(&order.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: order token %s", domain.ErrDuplicateToken, order.Token)
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// Insert order items
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := r.AddItem(ctx, &order.Items[i]); err != nil {
			return err
		}
	}

	// Log initial status
	return r.logStatus(ctx, order)
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.find(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *orderRepository) FindByToken(ctx context.Context, token string) (*domain.Order, error) {
	return r.find(ctx, `SELECT `+orderColumns+` FROM orders WHERE token = $1`, token)
}

func (r *orderRepository) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.find(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *orderRepository) find(ctx context.Context, query string, key any) (*domain.Order, error) {
	order, err := scanOrder(r.q.QueryRow(ctx, query, key))
	if err != nil {
		return nil, notFound(err, "order", key)
	}
	if err := r.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// Update writes the order header and appends to the status log when the
// status changed.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		WITH prev AS (SELECT status FROM orders WHERE id = $1)
		UPDATE orders
		SET status = $2, payment_id = $3, payment_status = $4, subtotal = $5, tax = $6,
		    delivery_fee = $7, total = $8, updated_at = $9
		FROM prev
		WHERE orders.id = $1
		RETURNING prev.status
	`
	var previous domain.OrderStatus
	err := r.q.QueryRow(ctx, query,
		order.ID, order.Status, order.PaymentID, order.PaymentStatus, order.Subtotal, order.Tax,
		order.DeliveryFee, order.Total, order.UpdatedAt,
	).Scan(&previous)
	if err != nil {
		return notFound(err, "order", order.ID)
	}

	if previous != order.Status {
		return r.logStatus(ctx, order)
	}
	return nil
}

func (r *orderRepository) logStatus(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.q.Exec(ctx, query, order.ID, order.Status, "order-service", order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}
	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, item *domain.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, menu_item_id, quantity, special_instructions)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query, item.OrderID, item.MenuItemID, item.Quantity, item.SpecialInstructions).Scan(&item.ID)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return fmt.Errorf("%w: order %d or menu item %d", domain.ErrNotFound, item.OrderID, item.MenuItemID)
		}
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

func (r *orderRepository) FindItem(ctx context.Context, itemID int64) (*domain.OrderItem, error) {
	query := `SELECT id, order_id, menu_item_id, quantity, special_instructions FROM order_items WHERE id = $1`

	var item domain.OrderItem
	err := r.q.QueryRow(ctx, query, itemID).Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.SpecialInstructions)
	if err != nil {
		return nil, notFound(err, "order item", itemID)
	}
	return &item, nil
}

func (r *orderRepository) RemoveItem(ctx context.Context, itemID int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order item %d", domain.ErrNotFound, itemID)
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, filter interfaces.OrderFilter) ([]*domain.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.RestaurantID != nil {
		args = append(args, *filter.RestaurantID)
		conditions = append(conditions, fmt.Sprintf("restaurant_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY order_date DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items for every order with a single query.
func (r *orderRepository) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	query := `
		SELECT id, order_id, menu_item_id, quantity, special_instructions
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.SpecialInstructions); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		o := byID[item.OrderID]
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func scanOrder(row Row) (*domain.Order, error) {
	var o domain.Order
	d := &o.Delivery
	err := row.Scan(
		&o.ID, &o.UserID, &o.RestaurantID, &o.Token, &o.Status, &o.OrderDate,
		&d.Address, &d.City, &d.State, &d.ZipCode, &d.ContactPhone, &d.SpecialInstructions,
		&o.PaymentID, &o.PaymentStatus, &o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&o.EstimatedDeliveryMinutes, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
