package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	service interfaces.PaymentService
	orders  interfaces.OrderService
	logger  logger.Logger
}

func NewPaymentHandler(service interfaces.PaymentService, orders interfaces.OrderService, logger logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		orders:  orders,
		logger:  logger,
	}
}

func (h *PaymentHandler) Register(r *mux.Router) {
	r.HandleFunc("/payments", h.Process).Methods(http.MethodPost)
	r.HandleFunc("/payments/intents", h.CreateIntent).Methods(http.MethodPost)
	r.HandleFunc("/payments/webhook", h.Webhook).Methods(http.MethodPost)
	r.HandleFunc("/payments/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/payments/{id}/refund", h.Refund).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/payment", h.GetByOrder).Methods(http.MethodGet)
}

type ProcessPaymentRequest struct {
	OrderID       int64  `json:"order_id"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
}

type PaymentIntentRequest struct {
	OrderID int64           `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type PaymentWebhookRequest struct {
	IntentID string `json:"intent_id"`
	Status   string `json:"status"`
}

type RefundRequest struct {
	Reason string `json:"reason"`
}

type PaymentResponse struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	Amount        string     `json:"amount"`
	Method        string     `json:"method"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Status        string     `json:"status"`
	RefundReason  string     `json:"refund_reason,omitempty"`
	PaymentDate   time.Time  `json:"payment_date"`
	RefundDate    *time.Time `json:"refund_date,omitempty"`
}

type PaymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	OrderID      int64  `json:"order_id"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount.StringFixed(2),
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		RefundReason:  p.RefundReason,
		PaymentDate:   p.PaymentDate,
		RefundDate:    p.RefundDate,
	}
}

// authorizeOrder checks that the caller owns the order or is elevated.
func (h *PaymentHandler) authorizeOrder(w http.ResponseWriter, r *http.Request, orderID int64) bool {
	identity, ok := caller(w, r)
	if !ok {
		return false
	}
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		fail(w, r, h.logger, "order_get_failed", err)
		return false
	}
	if !identity.CanAccess(order.UserID) {
		respondError(w, domain.ErrOwnership.Error(), http.StatusForbidden, nil)
		return false
	}
	return true
}

func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.authorizeOrder(w, r, req.OrderID) {
		return
	}

	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = domain.IntentMethod
	}

	payment, err := h.service.Process(r.Context(), req.OrderID, method, strings.TrimSpace(req.TransactionID))
	if err != nil {
		fail(w, r, h.logger, "payment_failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req PaymentIntentRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.authorizeOrder(w, r, req.OrderID) {
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), req.OrderID, req.Amount)
	if err != nil {
		fail(w, r, h.logger, "payment_intent_failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, PaymentIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		OrderID:      intent.OrderID,
		Amount:       intent.Amount.StringFixed(2),
		Status:       string(intent.Status),
	})
}

// Webhook receives status callbacks from the card processor. Replays of an
// already applied status are acknowledged without side effects.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req PaymentWebhookRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.IntentID) == "" || strings.TrimSpace(req.Status) == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field: "intent_id", Message: "intent id and status are required",
		}})
		return
	}

	payment, err := h.service.UpdateStatus(r.Context(), req.IntentID, domain.PaymentStatus(req.Status))
	if err != nil {
		fail(w, r, h.logger, "payment_status_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	payment, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, "payment_get_failed", err)
		return
	}
	if !h.authorizeOrder(w, r, payment.OrderID) {
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.authorizeOrder(w, r, id) {
		return
	}

	payment, err := h.service.GetByOrder(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, "payment_get_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if !decode(w, r, &req) {
		return
	}

	payment, err := h.service.Refund(r.Context(), id, strings.TrimSpace(req.Reason))
	if err != nil {
		fail(w, r, h.logger, "refund_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}
