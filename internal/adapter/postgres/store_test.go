package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct{}

func (fakeQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return nil, errors.New("not implemented")
}
func (fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row { return nil }
func (fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

type fakeTx struct {
	fakeQuerier
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	fakeQuerier
	begun []*fakeTx
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) {
	tx := &fakeTx{}
	db.begun = append(db.begun, tx)
	return tx, nil
}
func (db *fakeDB) Close() {}

func TestStore_InTxCommits(t *testing.T) {
	db := &fakeDB{}
	store := NewStore(db)

	err := store.InTx(context.Background(), func(tx interfaces.Store) error {
		// Nested calls join the open transaction.
		return tx.InTx(context.Background(), func(interfaces.Store) error { return nil })
	})

	require.NoError(t, err)
	require.Len(t, db.begun, 1)
	assert.True(t, db.begun[0].committed)
	assert.False(t, db.begun[0].rolledBack)
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	db := &fakeDB{}
	store := NewStore(db)

	err := store.InTx(context.Background(), func(interfaces.Store) error {
		return domain.ErrConflict
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	require.Len(t, db.begun, 1)
	assert.False(t, db.begun[0].committed)
	assert.True(t, db.begun[0].rolledBack)
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows, "table", 7), domain.ErrNotFound)

	err := notFound(errors.New("connection reset"), "table", 7)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to load table")
}

func TestTableWriteError(t *testing.T) {
	table := &domain.DiningTable{DiningRoomID: 1, TableNumber: "T1"}

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "dining_tables_room_number_key"})
	assert.ErrorIs(t, tableWriteError(unique, table), domain.ErrConflict)

	missingRoom := &pgconn.PgError{Code: pgForeignKeyViolation}
	assert.ErrorIs(t, tableWriteError(missingRoom, table), domain.ErrNotFound)

	other := tableWriteError(errors.New("timeout"), table)
	assert.NotErrorIs(t, other, domain.ErrConflict)
	assert.NotErrorIs(t, other, domain.ErrNotFound)
}

func TestConflictClause(t *testing.T) {
	at := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	fixed := conflictClause(domain.FixedWindowConflict(at), "$2::timestamptz", "$3::timestamptz")
	assert.Contains(t, fixed, "r.reservation_time BETWEEN $2::timestamptz AND $3::timestamptz")
	assert.Contains(t, fixed, "$2::timestamptz BETWEEN r.reservation_time AND r.reservation_time + INTERVAL '2 hours'")
	assert.Contains(t, fixed, "r.reservation_time - INTERVAL '1 hour' <= $3::timestamptz")

	buffered := conflictClause(domain.DurationBufferConflict(time.Hour)(at), "$2::timestamptz", "$3::timestamptz")
	assert.Contains(t, buffered, "r.reservation_time BETWEEN $2::timestamptz AND $3::timestamptz")
	assert.Contains(t, buffered, "$2::timestamptz BETWEEN r.reservation_time AND r.reservation_time + INTERVAL '2 hours'")
	assert.NotContains(t, buffered, "INTERVAL '1 hour'")
}

func TestTableRepository_UpdateMovesTableToRoom(t *testing.T) {
	q := &recordingQuerier{}
	repo := &tableRepository{q: q}

	err := repo.Update(context.Background(), &domain.DiningTable{ID: 7, DiningRoomID: 2, TableNumber: "T1", Capacity: 4})

	require.NoError(t, err)
	assert.Contains(t, q.sql, "dining_room_id = $4")
	assert.Equal(t, []any{int64(7), "T1", 4, int64(2)}, q.args)
}

type recordingQuerier struct {
	fakeQuerier
	sql  string
	args []any
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	q.sql = sql
	q.args = args
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func TestTableRepository_DeleteOfReferencedTableIsConflict(t *testing.T) {
	q := &fkQuerier{}
	repo := &tableRepository{q: q}

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

type fkQuerier struct{ fakeQuerier }

func (q *fkQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return nil, &pgconn.PgError{Code: pgForeignKeyViolation}
}
