package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
	"github.com/shopspring/decimal"
)

// Service is a payment gateway stub. It records payments and drives the
// order into PAID or REFUNDED; no money moves.
type Service struct {
	store   interfaces.Store
	events  interfaces.OrderEventPublisher
	markers interfaces.PaymentMarkerStore
	logger  logger.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store interfaces.Store, events interfaces.OrderEventPublisher, markers interfaces.PaymentMarkerStore, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		events:  events,
		markers: markers,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type statusChange struct {
	order     *domain.Order
	oldStatus domain.OrderStatus
}

// Process records a completed payment for the order total and marks the
// order PAID.
func (s *Service) Process(ctx context.Context, orderID int64, method, transactionID string) (*domain.Payment, error) {
	if method == "" || transactionID == "" {
		return nil, fmt.Errorf("%w: payment method and transaction id are required", domain.ErrValidation)
	}
	now := s.now()

	var (
		payment *domain.Payment
		change  statusChange
	)
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		o, err := tx.Orders().LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status == domain.OrderCancelled || o.Status == domain.OrderRefunded {
			return fmt.Errorf("%w: cannot pay for an order that is %s", domain.ErrIllegalState, o.Status)
		}
		if err := ensureNoPayment(ctx, tx, o.ID); err != nil {
			return err
		}

		p := &domain.Payment{
			OrderID:       o.ID,
			Amount:        o.Total,
			Method:        method,
			TransactionID: transactionID,
			Status:        domain.PaymentCompleted,
			PaymentDate:   now,
		}
		if err := tx.Payments().Create(ctx, p); err != nil {
			return err
		}

		change.oldStatus = o.Status
		o.ApplyPayment(transactionID, domain.PaymentCompleted, now)
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}

		payment, change.order = p, o
		return nil
	})
	if err != nil {
		s.logger.Error("payment_failed", "Failed to process payment", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		return nil, err
	}

	s.logger.Info("payment_completed", "Payment processed", change.order.Token, map[string]interface{}{
		"payment_id": payment.ID,
		"amount":     payment.Amount.StringFixed(2),
	})
	s.publish(ctx, change)
	return payment, nil
}

func ensureNoPayment(ctx context.Context, tx interfaces.Store, orderID int64) error {
	existing, err := tx.Payments().ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: a payment already exists for order %d", domain.ErrConflict, orderID)
	}
	return nil
}

// Refund refunds a payment of a PAID order.
func (s *Service) Refund(ctx context.Context, paymentID int64, reason string) (*domain.Payment, error) {
	now := s.now()

	var (
		payment *domain.Payment
		change  statusChange
	)
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		p, err := tx.Payments().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		o, err := tx.Orders().LockByID(ctx, p.OrderID)
		if err != nil {
			return err
		}

		change.oldStatus = o.Status
		if err := o.Refund(now); err != nil {
			return err
		}
		p.Refund(reason, now)

		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}

		payment, change.order = p, o
		return nil
	})
	if err != nil {
		s.logger.Error("refund_failed", "Failed to refund payment", "", map[string]interface{}{
			"payment_id": paymentID,
		}, err)
		return nil, err
	}

	s.logger.Info("payment_refunded", "Payment refunded", change.order.Token, map[string]interface{}{
		"payment_id": payment.ID,
		"reason":     reason,
	})
	s.publish(ctx, change)
	return payment, nil
}

// CreateIntent stores a pending card payment and returns the intent the
// client confirms against. Only one payment may exist per order.
func (s *Service) CreateIntent(ctx context.Context, orderID int64, amount decimal.Decimal) (*domain.PaymentIntent, error) {
	now := s.now()

	intent, err := domain.NewPaymentIntent(orderID, amount, now)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx interfaces.Store) error {
		if _, err := tx.Orders().LockByID(ctx, orderID); err != nil {
			return err
		}
		if err := ensureNoPayment(ctx, tx, orderID); err != nil {
			return err
		}
		return tx.Payments().Create(ctx, intent.Payment(now))
	})
	if err != nil {
		s.logger.Error("payment_intent_failed", "Failed to create payment intent", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		return nil, err
	}

	s.logger.Info("payment_intent_created", "Payment intent created", intent.ID, map[string]interface{}{
		"order_id": orderID,
		"amount":   amount.StringFixed(2),
	})
	return intent, nil
}

// UpdateStatus applies a status callback for an intent. A callback that was
// already applied is acknowledged without touching the store.
func (s *Service) UpdateStatus(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: payment status is required", domain.ErrValidation)
	}

	seen, err := s.markers.Seen(ctx, intentID, status)
	if err != nil {
		s.logger.Error("payment_marker_failed", "Failed to read payment marker", intentID, nil, err)
	}
	if seen {
		s.logger.Debug("payment_callback_replayed", "Payment status already applied", intentID, map[string]interface{}{
			"status": status,
		})
		return s.store.Payments().FindByTransactionID(ctx, intentID)
	}

	now := s.now()

	var (
		payment *domain.Payment
		change  statusChange
	)
	err = s.store.InTx(ctx, func(tx interfaces.Store) error {
		p, err := tx.Payments().FindByTransactionID(ctx, intentID)
		if err != nil {
			return err
		}
		p.Status = status
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		payment = p

		if !status.IsSuccessful() {
			return nil
		}

		o, err := tx.Orders().LockByID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		change.oldStatus = o.Status
		o.ApplyPayment(intentID, status, now)
		change.order = o
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		s.logger.Error("payment_status_failed", "Failed to update payment status", intentID, map[string]interface{}{
			"status": status,
		}, err)
		return nil, err
	}

	if err := s.markers.Mark(ctx, intentID, status); err != nil {
		s.logger.Error("payment_marker_failed", "Failed to store payment marker", intentID, nil, err)
	}

	s.logger.Info("payment_status_updated", "Payment status updated", intentID, map[string]interface{}{
		"payment_id": payment.ID,
		"status":     status,
	})
	s.publish(ctx, change)
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.store.Payments().FindByID(ctx, id)
}

func (s *Service) GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error) {
	if _, err := s.store.Orders().FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, fmt.Errorf("%w: no payment for order %d", domain.ErrNotFound, orderID)
	}
	return payments[len(payments)-1], nil
}

func (s *Service) publish(ctx context.Context, change statusChange) {
	if change.order == nil || change.order.Status == change.oldStatus {
		return
	}

	event := interfaces.NewOrderEvent(change.order, change.oldStatus, s.now())
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("order_event_publish_failed", "Failed to publish order event", change.order.Token, map[string]interface{}{
			"order_id": change.order.ID,
		}, err)
	}
}
