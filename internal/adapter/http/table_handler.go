package http

import (
	"net/http"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/gorilla/mux"
)

type TableHandler struct {
	service interfaces.TableService
	logger  logger.Logger
}

func NewTableHandler(service interfaces.TableService, logger logger.Logger) *TableHandler {
	return &TableHandler{
		service: service,
		logger:  logger,
	}
}

func (h *TableHandler) Register(r *mux.Router) {
	r.HandleFunc("/tables", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/tables/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/tables/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/tables/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/dining-rooms/{id}/tables", h.ListByRoom).Methods(http.MethodGet)
}

type CreateTableRequest struct {
	DiningRoomID int64  `json:"dining_room_id"`
	TableNumber  string `json:"table_number"`
	Capacity     int    `json:"capacity"`
}

type UpdateTableRequest struct {
	DiningRoomID *int64  `json:"dining_room_id"`
	TableNumber  *string `json:"table_number"`
	Capacity     *int    `json:"capacity"`
}

type TableResponse struct {
	ID           int64  `json:"id"`
	DiningRoomID int64  `json:"dining_room_id"`
	TableNumber  string `json:"table_number"`
	Capacity     int    `json:"capacity"`
}

func toTableResponse(t *domain.DiningTable) TableResponse {
	return TableResponse{ID: t.ID, DiningRoomID: t.DiningRoomID, TableNumber: t.TableNumber, Capacity: t.Capacity}
}

func toTableResponses(ts []*domain.DiningTable) []TableResponse {
	out := make([]TableResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTableResponse(t))
	}
	return out
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}

	var req CreateTableRequest
	if !decode(w, r, &req) {
		return
	}

	table, err := h.service.CreateTable(r.Context(), interfaces.CreateTableCommand{
		DiningRoomID: req.DiningRoomID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
	})
	if err != nil {
		fail(w, r, h.logger, "table_creation_failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, toTableResponse(table))
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	table, err := h.service.GetTable(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, "table_get_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toTableResponse(table))
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTableRequest
	if !decode(w, r, &req) {
		return
	}

	table, err := h.service.UpdateTable(r.Context(), id, interfaces.UpdateTableCommand{
		DiningRoomID: req.DiningRoomID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
	})
	if err != nil {
		fail(w, r, h.logger, "table_update_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toTableResponse(table))
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTable(r.Context(), id); err != nil {
		fail(w, r, h.logger, "table_delete_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TableHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tables, err := h.service.ListTables(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, "table_list_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toTableResponses(tables))
}
