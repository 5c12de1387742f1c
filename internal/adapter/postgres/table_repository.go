package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

type tableRepository struct {
	q Querier
}

func (r *tableRepository) Create(ctx context.Context, t *domain.DiningTable) error {
	query := `
		INSERT INTO dining_tables (dining_room_id, table_number, capacity)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query, t.DiningRoomID, t.TableNumber, t.Capacity).Scan(&t.ID)
	if err != nil {
		return tableWriteError(err, t)
	}
	return nil
}

func (r *tableRepository) FindByID(ctx context.Context, id int64) (*domain.DiningTable, error) {
	return r.find(ctx, `SELECT id, dining_room_id, table_number, capacity FROM dining_tables WHERE id = $1`, id)
}

func (r *tableRepository) LockByID(ctx context.Context, id int64) (*domain.DiningTable, error) {
	return r.find(ctx, `SELECT id, dining_room_id, table_number, capacity FROM dining_tables WHERE id = $1 FOR UPDATE`, id)
}

func (r *tableRepository) find(ctx context.Context, query string, id int64) (*domain.DiningTable, error) {
	var t domain.DiningTable
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.DiningRoomID, &t.TableNumber, &t.Capacity)
	if err != nil {
		return nil, notFound(err, "table", id)
	}
	return &t, nil
}

func (r *tableRepository) Update(ctx context.Context, t *domain.DiningTable) error {
	query := `UPDATE dining_tables SET table_number = $2, capacity = $3, dining_room_id = $4 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, t.ID, t.TableNumber, t.Capacity, t.DiningRoomID)
	if err != nil {
		return tableWriteError(err, t)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: table %d", domain.ErrNotFound, t.ID)
	}
	return nil
}

func (r *tableRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return fmt.Errorf("%w: table %d has reservations", domain.ErrConflict, id)
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: table %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *tableRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.DiningTable, error) {
	query := `SELECT id, dining_room_id, table_number, capacity FROM dining_tables WHERE dining_room_id = $1 ORDER BY id`
	return r.list(ctx, query, roomID)
}

func (r *tableRepository) FindAvailable(ctx context.Context, roomID int64, minCapacity int, window domain.TimeWindow) ([]*domain.DiningTable, error) {
	query := `
		SELECT t.id, t.dining_room_id, t.table_number, t.capacity
		FROM dining_tables t
		WHERE t.dining_room_id = $1
		  AND t.capacity >= $2
		  AND NOT EXISTS (
		      SELECT 1 FROM table_reservations r
		      WHERE r.dining_table_id = t.id
		        AND r.status <> 'CANCELLED'
		        AND ` + conflictClause(window, "$3::timestamptz", "$4::timestamptz") + `
		  )
		ORDER BY t.id
	`
	return r.list(ctx, query, roomID, minCapacity, window.Start, window.End)
}

func (r *tableRepository) list(ctx context.Context, query string, args ...any) ([]*domain.DiningTable, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []*domain.DiningTable
	for rows.Next() {
		var t domain.DiningTable
		if err := rows.Scan(&t.ID, &t.DiningRoomID, &t.TableNumber, &t.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, &t)
	}
	return tables, rows.Err()
}

func tableWriteError(err error, t *domain.DiningTable) error {
	switch code, _ := pgErrorCode(err); code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: table number %s already exists in room %d", domain.ErrConflict, t.TableNumber, t.DiningRoomID)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: dining room %d", domain.ErrNotFound, t.DiningRoomID)
	}
	return fmt.Errorf("failed to save table: %w", err)
}
