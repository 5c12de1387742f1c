package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

type tableRepository struct{ s *Store }

func (r *tableRepository) Create(ctx context.Context, t *domain.DiningTable) error {
	defer r.s.lock()()
	if err := r.checkNumber(t); err != nil {
		return err
	}
	t.ID = r.s.data.nextID("tables")
	r.s.data.tables[t.ID] = *t
	return nil
}

func (r *tableRepository) checkNumber(t *domain.DiningTable) error {
	for _, existing := range r.s.data.tables {
		if existing.ID != t.ID && existing.DiningRoomID == t.DiningRoomID && existing.TableNumber == t.TableNumber {
			return fmt.Errorf("%w: table number %s already exists in dining room %d",
				domain.ErrConflict, t.TableNumber, t.DiningRoomID)
		}
	}
	return nil
}

func (r *tableRepository) FindByID(ctx context.Context, id int64) (*domain.DiningTable, error) {
	defer r.s.lock()()
	t, ok := r.s.data.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: dining table %d", domain.ErrNotFound, id)
	}
	return &t, nil
}

// LockByID is FindByID; inside a transaction the store mutex already
// serializes access.
func (r *tableRepository) LockByID(ctx context.Context, id int64) (*domain.DiningTable, error) {
	return r.FindByID(ctx, id)
}

func (r *tableRepository) Update(ctx context.Context, t *domain.DiningTable) error {
	defer r.s.lock()()
	if _, ok := r.s.data.tables[t.ID]; !ok {
		return fmt.Errorf("%w: dining table %d", domain.ErrNotFound, t.ID)
	}
	if err := r.checkNumber(t); err != nil {
		return err
	}
	r.s.data.tables[t.ID] = *t
	return nil
}

func (r *tableRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.tables[id]; !ok {
		return fmt.Errorf("%w: dining table %d", domain.ErrNotFound, id)
	}
	for _, res := range r.s.data.reservations {
		if res.TableID == id {
			return fmt.Errorf("%w: dining table %d has reservations", domain.ErrConflict, id)
		}
	}
	delete(r.s.data.tables, id)
	return nil
}

func (r *tableRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.DiningTable, error) {
	defer r.s.lock()()
	var result []*domain.DiningTable
	for _, t := range r.s.data.tables {
		if t.DiningRoomID == roomID {
			result = append(result, &t)
		}
	}
	sortTables(result)
	return result, nil
}

func (r *tableRepository) FindAvailable(ctx context.Context, roomID int64, minCapacity int, window domain.TimeWindow) ([]*domain.DiningTable, error) {
	defer r.s.lock()()
	var result []*domain.DiningTable
	for _, t := range r.s.data.tables {
		if t.DiningRoomID != roomID || t.Capacity < minCapacity {
			continue
		}
		if len(conflicting(r.s.data, t.ID, window, 0)) > 0 {
			continue
		}
		result = append(result, &t)
	}
	sortTables(result)
	return result, nil
}

func sortTables(ts []*domain.DiningTable) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
}
