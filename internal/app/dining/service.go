package dining

import (
	"context"
	"strings"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"
)

// Service manages the dining tables of a room.
type Service struct {
	store  interfaces.Store
	logger logger.Logger
}

func NewService(store interfaces.Store, logger logger.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) CreateTable(ctx context.Context, cmd interfaces.CreateTableCommand) (*domain.DiningTable, error) {
	table, err := domain.NewDiningTable(cmd.DiningRoomID, cmd.TableNumber, cmd.Capacity)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx interfaces.Store) error {
		if _, err := tx.Rooms().FindByID(ctx, cmd.DiningRoomID); err != nil {
			return err
		}
		return tx.Tables().Create(ctx, table)
	})
	if err != nil {
		s.logger.Error("table_create_failed", "Failed to create dining table", "", map[string]interface{}{
			"dining_room_id": cmd.DiningRoomID,
			"table_number":   cmd.TableNumber,
		}, err)
		return nil, err
	}

	s.logger.Info("table_created", "Dining table created", "", map[string]interface{}{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"capacity":     table.Capacity,
	})
	return table, nil
}

// UpdateTable applies the non-nil fields of cmd.
func (s *Service) UpdateTable(ctx context.Context, id int64, cmd interfaces.UpdateTableCommand) (*domain.DiningTable, error) {
	var table *domain.DiningTable
	err := s.store.InTx(ctx, func(tx interfaces.Store) error {
		t, err := tx.Tables().LockByID(ctx, id)
		if err != nil {
			return err
		}

		if cmd.TableNumber != nil {
			t.TableNumber = strings.TrimSpace(*cmd.TableNumber)
		}
		if cmd.Capacity != nil {
			t.Capacity = *cmd.Capacity
		}
		if cmd.DiningRoomID != nil {
			if _, err := tx.Rooms().FindByID(ctx, *cmd.DiningRoomID); err != nil {
				return err
			}
			t.DiningRoomID = *cmd.DiningRoomID
		}
		if err := t.Validate(); err != nil {
			return err
		}

		table = t
		return tx.Tables().Update(ctx, t)
	})
	if err != nil {
		s.logger.Error("table_update_failed", "Failed to update dining table", "", map[string]interface{}{
			"table_id": id,
		}, err)
		return nil, err
	}
	return table, nil
}

func (s *Service) DeleteTable(ctx context.Context, id int64) error {
	if err := s.store.Tables().Delete(ctx, id); err != nil {
		s.logger.Error("table_delete_failed", "Failed to delete dining table", "", map[string]interface{}{
			"table_id": id,
		}, err)
		return err
	}

	s.logger.Info("table_deleted", "Dining table deleted", "", map[string]interface{}{"table_id": id})
	return nil
}

func (s *Service) GetTable(ctx context.Context, id int64) (*domain.DiningTable, error) {
	return s.store.Tables().FindByID(ctx, id)
}

func (s *Service) ListTables(ctx context.Context, roomID int64) ([]*domain.DiningTable, error) {
	if _, err := s.store.Rooms().FindByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.store.Tables().ListByRoom(ctx, roomID)
}
