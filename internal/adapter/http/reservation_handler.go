package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/gorilla/mux"
)

const defaultDurationMinutes = 120

type ReservationHandler struct {
	service interfaces.ReservationService
	logger  logger.Logger
}

func NewReservationHandler(service interfaces.ReservationService, logger logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReservationHandler) Register(r *mux.Router) {
	r.HandleFunc("/reservations", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/reservations", h.List).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/reservations/{id}", h.ForceCancel).Methods(http.MethodDelete)
	r.HandleFunc("/reservations/{id}/cancel", h.Cancel).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/reservations/{id}/qrcode", h.QRCode).Methods(http.MethodGet)
	r.HandleFunc("/tables/{id}/availability", h.Availability).Methods(http.MethodGet)
	r.HandleFunc("/dining-rooms/{id}/available-tables", h.AvailableTables).Methods(http.MethodGet)
}

type ReservationRequest struct {
	TableID         *int64 `json:"table_id"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReservationResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TableID         int64     `json:"table_id"`
	Time            time.Time `json:"time"`
	PartySize       int       `json:"party_size"`
	Status          string    `json:"status"`
	Token           string    `json:"token"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		TableID:         r.TableID,
		Time:            r.ReservationTime,
		PartySize:       r.PartySize,
		Status:          string(r.Status),
		Token:           r.Token,
		SpecialRequests: r.SpecialRequests,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toReservationResponses(rs []*domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResponse(r))
	}
	return out
}

func validateReservationRequest(req ReservationRequest) []ValidationError {
	var errs []ValidationError
	if req.TableID == nil {
		errs = append(errs, ValidationError{Field: "table_id", Message: "table id is required"})
	}
	if strings.TrimSpace(req.Time) == "" {
		errs = append(errs, ValidationError{Field: "time", Message: "time is required"})
	}
	if req.PartySize < 1 {
		errs = append(errs, ValidationError{Field: "party_size", Message: "party size must be positive"})
	}
	return errs
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	var req ReservationRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := validateReservationRequest(req); len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}
	at, ok := parseTime(w, "time", req.Time)
	if !ok {
		return
	}

	res, err := h.service.Create(r.Context(), identity, interfaces.CreateReservationCommand{
		TableID:         *req.TableID,
		Time:            at,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		fail(w, r, h.logger, "reservation_creation_failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, toReservationResponse(res))
}

// List returns every reservation to admins and managers, and the caller's
// own reservations to everyone else.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	var (
		rs  []*domain.Reservation
		err error
	)
	if identity.IsElevated() && r.URL.Query().Get("mine") != "true" {
		rs, err = h.service.List(r.Context())
	} else {
		rs, err = h.service.ListForUser(r.Context(), identity.UserID)
	}
	if err != nil {
		fail(w, r, h.logger, "reservation_list_failed", err)
		return
	}

	respondJSON(w, http.StatusOK, toReservationResponses(rs))
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.service.Get(r.Context(), id, identity)
	if err != nil {
		fail(w, r, h.logger, "reservation_get_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ReservationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.PartySize < 1 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field: "party_size", Message: "party size must be positive",
		}})
		return
	}
	at, ok := parseTime(w, "time", req.Time)
	if !ok {
		return
	}

	res, err := h.service.Update(r.Context(), id, identity, interfaces.UpdateReservationCommand{
		Time:            at,
		TableID:         req.TableID,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		fail(w, r, h.logger, "reservation_update_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.service.Cancel(r.Context(), id, identity)
	if err != nil {
		fail(w, r, h.logger, "reservation_cancel_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toReservationResponse(res))
}

// ForceCancel cancels without the ownership check. The two hour notice
// still applies.
func (h *ReservationHandler) ForceCancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.service.CancelByID(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, "reservation_cancel_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.UpdateStatus(r.Context(), id, domain.ReservationStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		fail(w, r, h.logger, "reservation_status_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	png, err := h.service.TokenQRCode(r.Context(), id, identity)
	if err != nil {
		fail(w, r, h.logger, "reservation_qrcode_failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type AvailabilityResponse struct {
	TableID   int64 `json:"table_id"`
	Available bool  `json:"available"`
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	at, ok := parseTime(w, "time", q.Get("time"))
	if !ok {
		return
	}

	duration := defaultDurationMinutes
	if raw := q.Get("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
				Field: "duration", Message: "duration must be a number of minutes",
			}})
			return
		}
		duration = n
	}

	available, err := h.service.IsTableAvailable(r.Context(), id, at, duration)
	if err != nil {
		fail(w, r, h.logger, "availability_check_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, AvailabilityResponse{TableID: id, Available: available})
}

func (h *ReservationHandler) AvailableTables(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	at, ok := parseTime(w, "time", q.Get("time"))
	if !ok {
		return
	}
	guests, err := strconv.Atoi(q.Get("guests"))
	if err != nil {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field: "guests", Message: "guests must be a number",
		}})
		return
	}

	tables, err := h.service.AvailableTables(r.Context(), id, at, guests)
	if err != nil {
		fail(w, r, h.logger, "available_tables_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toTableResponses(tables))
}
