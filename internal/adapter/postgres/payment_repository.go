package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

const paymentColumns = `id, order_id, amount, method, COALESCE(transaction_id, ''), status,
	refund_reason, payment_date, refund_date`

type paymentRepository struct {
	q Querier
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (order_id, amount, method, transaction_id, status, refund_reason, payment_date, refund_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		p.OrderID, p.Amount, p.Method, p.TransactionID, p.Status, p.RefundReason, p.PaymentDate, p.RefundDate,
	).Scan(&p.ID)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: transaction %s already recorded", domain.ErrConflict, p.TransactionID)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, p.OrderID)
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return p, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID))
	if err != nil {
		return nil, notFound(err, "payment", transactionID)
	}
	return p, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `
		UPDATE payments
		SET amount = $2, status = $3, refund_reason = $4, refund_date = $5
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Amount, p.Status, p.RefundReason, p.RefundDate)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %d", domain.ErrNotFound, p.ID)
	}
	return nil
}

func scanPayment(row Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.TransactionID, &p.Status,
		&p.RefundReason, &p.PaymentDate, &p.RefundDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
