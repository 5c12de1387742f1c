package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
)

type Service struct {
	store    interfaces.Store
	events   interfaces.OrderEventPublisher
	logger   logger.Logger
	now      func() time.Time
	newToken domain.TokenGenerator
	estimate func() int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTokenGenerator(gen domain.TokenGenerator) Option {
	return func(s *Service) { s.newToken = gen }
}

func NewService(store interfaces.Store, events interfaces.OrderEventPublisher, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		events:   events,
		logger:   logger,
		now:      time.Now,
		newToken: domain.NewOrderToken,
		estimate: domain.EstimateDeliveryMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	now := s.now()

	var order *domain.Order
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		// 1. Проверка пользователя и ресторана
		if _, err := tx.Users().FindByID(ctx, cmd.UserID); err != nil {
			return err
		}
		if _, err := tx.Restaurants().FindByID(ctx, cmd.RestaurantID); err != nil {
			return err
		}

		// 2. Позиции заказа по актуальным ценам меню
		items := make([]domain.OrderItem, len(cmd.Items))
		for i, item := range cmd.Items {
			menuItem, err := tx.MenuItems().FindByID(ctx, item.MenuItemID)
			if err != nil {
				return err
			}
			items[i] = domain.OrderItem{
				MenuItemID:          menuItem.ID,
				Quantity:            item.Quantity,
				SpecialInstructions: item.SpecialInstructions,
				UnitPrice:           menuItem.Price,
			}
		}

		// 3. Доменная сущность считает суммы
		o, err := domain.NewOrder(cmd.UserID, cmd.RestaurantID, items, cmd.Delivery, now)
		if err != nil {
			return err
		}
		o.EstimatedDeliveryMinutes = s.estimate()

		// 4. Сохранение заказа и позиций одной транзакцией
		if err := s.insertWithToken(ctx, tx, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		s.logger.Error("order_creation_failed", "Failed to create order", "", map[string]interface{}{
			"user_id":       cmd.UserID,
			"restaurant_id": cmd.RestaurantID,
		}, err)
		return nil, err
	}

	s.logger.Info("order_created", "Order created", order.Token, map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total.StringFixed(2),
	})
	s.publish(ctx, order, "")

	return order, nil
}

func (s *Service) insertWithToken(ctx context.Context, tx interfaces.Store, o *domain.Order) error {
	for attempt := 1; attempt <= domain.MaxTokenAttempts; attempt++ {
		o.Token = s.newToken()

		err := tx.Orders().Create(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateToken) {
			return err
		}

		s.logger.Debug("token_collision", "Order token already taken, regenerating", o.Token, map[string]interface{}{
			"attempt": attempt,
		})
	}
	return fmt.Errorf("failed to generate a unique order token after %d attempts: %w",
		domain.MaxTokenAttempts, domain.ErrDuplicateToken)
}

// price fills the live unit price of every item from the menu.
func price(ctx context.Context, store interfaces.Store, o *domain.Order) error {
	for i := range o.Items {
		menuItem, err := store.MenuItems().FindByID(ctx, o.Items[i].MenuItemID)
		if err != nil {
			return fmt.Errorf("failed to price order item %d: %w", o.Items[i].ID, err)
		}
		o.Items[i].UnitPrice = menuItem.Price
	}
	return nil
}

func (s *Service) AddItem(ctx context.Context, orderID int64, cmd interfaces.CreateOrderItemCommand) (*domain.Order, error) {
	now := s.now()

	var order *domain.Order
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		o, err := tx.Orders().LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		menuItem, err := tx.MenuItems().FindByID(ctx, cmd.MenuItemID)
		if err != nil {
			return err
		}
		if err := price(ctx, tx, o); err != nil {
			return err
		}

		item := domain.OrderItem{
			MenuItemID:          menuItem.ID,
			Quantity:            cmd.Quantity,
			SpecialInstructions: cmd.SpecialInstructions,
			UnitPrice:           menuItem.Price,
		}
		if err := o.AddItem(item, now); err != nil {
			return err
		}
		if err := tx.Orders().AddItem(ctx, &o.Items[len(o.Items)-1]); err != nil {
			return err
		}

		order = o
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		s.logger.Error("order_item_add_failed", "Failed to add order item", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		return nil, err
	}

	s.logger.Debug("order_item_added", "Item added to order", order.Token, map[string]interface{}{
		"order_id": order.ID,
		"subtotal": order.Subtotal.StringFixed(2),
	})
	return order, nil
}

func (s *Service) RemoveItem(ctx context.Context, orderID, itemID int64) (*domain.Order, error) {
	now := s.now()

	var order *domain.Order
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		o, err := tx.Orders().LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		item, err := tx.Orders().FindItem(ctx, itemID)
		if err != nil {
			return err
		}
		if err := o.CanRemoveItem(*item); err != nil {
			return err
		}
		if err := price(ctx, tx, o); err != nil {
			return err
		}
		if err := o.RemoveItem(*item, now); err != nil {
			return err
		}
		if err := tx.Orders().RemoveItem(ctx, item.ID); err != nil {
			return err
		}

		order = o
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		s.logger.Error("order_item_remove_failed", "Failed to remove order item", "", map[string]interface{}{
			"order_id": orderID,
			"item_id":  itemID,
		}, err)
		return nil, err
	}

	s.logger.Debug("order_item_removed", "Item removed from order", order.Token, map[string]interface{}{
		"order_id": order.ID,
		"subtotal": order.Subtotal.StringFixed(2),
	})
	return order, nil
}

// UpdateStatus overwrites the status without transition rules. Setting the
// current status again changes nothing and publishes nothing.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}

	return s.mutate(ctx, id, "order_status_overwritten", func(o *domain.Order, now time.Time) (bool, error) {
		return o.SetStatus(status, now), nil
	})
}

func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	return s.mutate(ctx, id, "order_cancelled", func(o *domain.Order, now time.Time) (bool, error) {
		if err := o.Cancel(now); err != nil {
			return false, err
		}
		return true, nil
	})
}

// UpdatePaymentInfo records the payment reference. A successful payment
// status marks the order PAID.
func (s *Service) UpdatePaymentInfo(ctx context.Context, id int64, paymentID string, status domain.PaymentStatus) (*domain.Order, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: payment status is required", domain.ErrValidation)
	}

	return s.mutate(ctx, id, "order_payment_updated", func(o *domain.Order, now time.Time) (bool, error) {
		o.ApplyPayment(paymentID, status, now)
		return true, nil
	})
}

// mutate applies fn to the locked order and stores the result when fn
// reports a change. A status change is published after commit.
func (s *Service) mutate(ctx context.Context, id int64, action string, fn func(o *domain.Order, now time.Time) (bool, error)) (*domain.Order, error) {
	now := s.now()

	var (
		order     *domain.Order
		oldStatus domain.OrderStatus
	)
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		o, err := tx.Orders().LockByID(ctx, id)
		if err != nil {
			return err
		}
		oldStatus = o.Status

		changed, err := fn(o, now)
		if err != nil {
			return err
		}

		order = o
		if !changed {
			return nil
		}
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		s.logger.Error(action+"_failed", "Failed to update order", "", map[string]interface{}{
			"order_id": id,
		}, err)
		return nil, err
	}

	if order.Status != oldStatus {
		s.logger.Info(action, fmt.Sprintf("Order status changed from %s to %s", oldStatus, order.Status), order.Token, map[string]interface{}{
			"order_id": order.ID,
		})
		s.publish(ctx, order, oldStatus)
	}

	if err := price(ctx, s.store, order); err != nil {
		s.logger.Error("order_pricing_failed", "Failed to load live item prices", order.Token, nil, err)
	}
	return order, nil
}

func (s *Service) publish(ctx context.Context, o *domain.Order, oldStatus domain.OrderStatus) {
	event := interfaces.NewOrderEvent(o, oldStatus, s.now())
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("order_event_publish_failed", "Failed to publish order event", o.Token, map[string]interface{}{
			"order_id":   o.ID,
			"new_status": o.Status,
		}, err)
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := price(ctx, s.store, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) GetByToken(ctx context.Context, token string) (*domain.Order, error) {
	o, err := s.store.Orders().FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := price(ctx, s.store, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, filter interfaces.OrderFilter) ([]*domain.Order, error) {
	orders, err := s.store.Orders().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := price(ctx, s.store, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}
