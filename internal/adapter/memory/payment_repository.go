package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

type paymentRepository struct{ s *Store }

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	defer r.s.lock()()

	if p.TransactionID != "" {
		for _, existing := range r.s.data.payments {
			if existing.TransactionID == p.TransactionID {
				return fmt.Errorf("%w: transaction %s already recorded", domain.ErrConflict, p.TransactionID)
			}
		}
	}

	p.ID = r.s.data.nextID("payments")
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	defer r.s.lock()()
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, fmt.Errorf("%w: payment %d", domain.ErrNotFound, id)
	}
	return &p, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.payments {
		if p.TransactionID == transactionID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: payment %s", domain.ErrNotFound, transactionID)
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	defer r.s.lock()()
	var result []*domain.Payment
	for _, p := range r.s.data.payments {
		if p.OrderID == orderID {
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	defer r.s.lock()()
	if _, ok := r.s.data.payments[p.ID]; !ok {
		return fmt.Errorf("%w: payment %d", domain.ErrNotFound, p.ID)
	}
	r.s.data.payments[p.ID] = *p
	return nil
}
