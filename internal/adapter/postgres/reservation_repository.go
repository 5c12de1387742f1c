package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/domain"

	"github.com/jackc/pgx/v5"
)

const reservationColumns = `id, user_id, dining_table_id, reservation_time, party_size, status,
	token, special_requests, created_at, updated_at`

// conflictClause renders the collision test of domain.TimeWindow.Conflicts
// for the reservation alias r against the window parameters.
func conflictClause(window domain.TimeWindow, start, end string) string {
	clause := fmt.Sprintf(`
		r.reservation_time BETWEEN %[1]s AND %[2]s
		OR %[1]s BETWEEN r.reservation_time AND r.reservation_time + INTERVAL '2 hours'`, start, end)
	if window.BlockOverlap {
		clause += fmt.Sprintf(`
		OR (r.reservation_time - INTERVAL '1 hour' <= %[2]s AND r.reservation_time + INTERVAL '1 hour' >= %[1]s)`, start, end)
	}
	return "(" + clause + "\n\t)"
}

type reservationRepository struct {
	q Querier
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO table_reservations (user_id, dining_table_id, reservation_time, party_size,
		                                status, token, special_requests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token) DO NOTHING
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		res.UserID, res.TableID, res.ReservationTime, res.PartySize,
		res.Status, res.Token, res.SpecialRequests, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: reservation token %s", domain.ErrDuplicateToken, res.Token)
	}
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM table_reservations WHERE id = $1`

	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "reservation", id)
	}
	return res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `
		UPDATE table_reservations
		SET dining_table_id = $2, reservation_time = $3, party_size = $4, status = $5,
		    special_requests = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		res.ID, res.TableID, res.ReservationTime, res.PartySize, res.Status, res.SpecialRequests, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, res.ID)
	}
	return nil
}

func (r *reservationRepository) FindConflicting(ctx context.Context, tableID int64, window domain.TimeWindow, excludeID int64) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM table_reservations r
		WHERE r.dining_table_id = $1
		  AND r.status <> 'CANCELLED'
		  AND ($4::bigint = 0 OR r.id <> $4::bigint)
		  AND ` + conflictClause(window, "$2::timestamptz", "$3::timestamptz") + `
		ORDER BY r.reservation_time, r.id
	`
	return r.list(ctx, query, tableID, window.Start, window.End, excludeID)
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM table_reservations WHERE user_id = $1 ORDER BY reservation_time, id`
	return r.list(ctx, query, userID)
}

func (r *reservationRepository) List(ctx context.Context) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM table_reservations ORDER BY reservation_time, id`
	return r.list(ctx, query)
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Reservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func scanReservation(row Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID, &res.UserID, &res.TableID, &res.ReservationTime, &res.PartySize, &res.Status,
		&res.Token, &res.SpecialRequests, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
