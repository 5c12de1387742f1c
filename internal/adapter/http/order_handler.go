package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/gorilla/mux"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderHandler) Register(r *mux.Router) {
	r.HandleFunc("/orders", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.List).Methods(http.MethodGet)
	r.HandleFunc("/orders/token/{token}", h.GetByToken).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/items/{itemId}", h.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id}/cancel", h.Cancel).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}/payment", h.UpdatePaymentInfo).Methods(http.MethodPut)
}

type CreateOrderRequest struct {
	UserID              *int64             `json:"user_id,omitempty"`
	RestaurantID        int64              `json:"restaurant_id"`
	Items               []OrderItemRequest `json:"items"`
	DeliveryAddress     string             `json:"delivery_address"`
	City                string             `json:"city"`
	State               string             `json:"state"`
	ZipCode             string             `json:"zip_code"`
	ContactPhone        string             `json:"contact_phone"`
	SpecialInstructions string             `json:"special_instructions"`
}

type OrderItemRequest struct {
	MenuItemID          int64  `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

type PaymentInfoRequest struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

type OrderItemResponse struct {
	ID                  int64  `json:"id"`
	MenuItemID          int64  `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	UnitPrice           string `json:"unit_price"`
	LineTotal           string `json:"line_total"`
}

type OrderResponse struct {
	ID                       int64               `json:"id"`
	Token                    string              `json:"token"`
	UserID                   int64               `json:"user_id"`
	RestaurantID             int64               `json:"restaurant_id"`
	Status                   string              `json:"status"`
	OrderDate                time.Time           `json:"order_date"`
	Items                    []OrderItemResponse `json:"items"`
	DeliveryAddress          string              `json:"delivery_address,omitempty"`
	City                     string              `json:"city,omitempty"`
	State                    string              `json:"state,omitempty"`
	ZipCode                  string              `json:"zip_code,omitempty"`
	ContactPhone             string              `json:"contact_phone,omitempty"`
	SpecialInstructions      string              `json:"special_instructions,omitempty"`
	PaymentID                *string             `json:"payment_id,omitempty"`
	PaymentStatus            string              `json:"payment_status"`
	Subtotal                 string              `json:"subtotal"`
	Tax                      string              `json:"tax"`
	DeliveryFee              string              `json:"delivery_fee"`
	Total                    string              `json:"total"`
	EstimatedDeliveryMinutes int                 `json:"estimated_delivery_minutes"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:                  it.ID,
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
			UnitPrice:           it.UnitPrice.StringFixed(2),
			LineTotal:           it.LineTotal().StringFixed(2),
		})
	}

	return OrderResponse{
		ID:                       o.ID,
		Token:                    o.Token,
		UserID:                   o.UserID,
		RestaurantID:             o.RestaurantID,
		Status:                   string(o.Status),
		OrderDate:                o.OrderDate,
		Items:                    items,
		DeliveryAddress:          o.Delivery.Address,
		City:                     o.Delivery.City,
		State:                    o.Delivery.State,
		ZipCode:                  o.Delivery.ZipCode,
		ContactPhone:             o.Delivery.ContactPhone,
		SpecialInstructions:      o.Delivery.SpecialInstructions,
		PaymentID:                o.PaymentID,
		PaymentStatus:            string(o.PaymentStatus),
		Subtotal:                 o.Subtotal.StringFixed(2),
		Tax:                      o.Tax.StringFixed(2),
		DeliveryFee:              o.DeliveryFee.StringFixed(2),
		Total:                    o.Total.StringFixed(2),
		EstimatedDeliveryMinutes: o.EstimatedDeliveryMinutes,
	}
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errs []ValidationError

	// 1. Валидация restaurant_id
	if req.RestaurantID < 1 {
		errs = append(errs, ValidationError{Field: "restaurant_id", Message: "restaurant id is required"})
	}

	// 2. Валидация позиций
	for i, item := range req.Items {
		if item.MenuItemID < 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("items[%d].menu_item_id", i),
				Message: "menu item id is required",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be positive",
			})
		}
	}

	return errs
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := validateCreateOrderRequest(req); len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	// Заказ от имени другого пользователя доступен только персоналу
	userID := identity.UserID
	if req.UserID != nil && *req.UserID != identity.UserID {
		if !identity.IsElevated() {
			respondError(w, domain.ErrOwnership.Error(), http.StatusForbidden, nil)
			return
		}
		userID = *req.UserID
	}

	items := make([]interfaces.CreateOrderItemCommand, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, interfaces.CreateOrderItemCommand{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: strings.TrimSpace(item.SpecialInstructions),
		})
	}

	order, err := h.service.Create(r.Context(), interfaces.CreateOrderCommand{
		UserID:       userID,
		RestaurantID: req.RestaurantID,
		Items:        items,
		Delivery: domain.DeliveryDetails{
			Address:             strings.TrimSpace(req.DeliveryAddress),
			City:                strings.TrimSpace(req.City),
			State:               strings.TrimSpace(req.State),
			ZipCode:             strings.TrimSpace(req.ZipCode),
			ContactPhone:        strings.TrimSpace(req.ContactPhone),
			SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		},
	})
	if err != nil {
		fail(w, r, h.logger, "order_creation_failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

// List filters by user_id, restaurant_id and status. Callers without an
// elevated role only see their own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var filter interfaces.OrderFilter
	for _, param := range []struct {
		name string
		dst  **int64
	}{{"user_id", &filter.UserID}, {"restaurant_id", &filter.RestaurantID}} {
		raw := q.Get(param.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
				Field: param.name, Message: "must be a number",
			}})
			return
		}
		*param.dst = &n
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	if !identity.IsElevated() {
		filter.UserID = &identity.UserID
	}

	orders, err := h.service.List(r.Context(), filter)
	if err != nil {
		fail(w, r, h.logger, "order_list_failed", err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	respondJSON(w, http.StatusOK, out)
}

// owned loads the order and checks the caller may act on it.
func (h *OrderHandler) owned(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	identity, ok := caller(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(w, r, h.logger, "order_get_failed", err)
		return nil, false
	}
	if !identity.CanAccess(order.UserID) {
		respondError(w, domain.ErrOwnership.Error(), http.StatusForbidden, nil)
		return nil, false
	}
	return order, true
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.owned(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

// GetByToken serves order tracking; the token acts as the credential.
func (h *OrderHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetByToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		fail(w, r, h.logger, "order_get_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	order, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req OrderItemRequest
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.service.AddItem(r.Context(), order.ID, interfaces.CreateOrderItemCommand{
		MenuItemID:          req.MenuItemID,
		Quantity:            req.Quantity,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
	})
	if err != nil {
		fail(w, r, h.logger, "order_item_add_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	order, ok := h.owned(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}

	updated, err := h.service.RemoveItem(r.Context(), order.ID, itemID)
	if err != nil {
		fail(w, r, h.logger, "order_item_remove_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, ok := h.owned(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Cancel(r.Context(), order.ID)
	if err != nil {
		fail(w, r, h.logger, "order_cancel_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status == "" {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field: "status", Message: "status is required",
		}})
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, status)
	if err != nil {
		fail(w, r, h.logger, "order_status_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdatePaymentInfo(w http.ResponseWriter, r *http.Request) {
	if _, ok := elevated(w, r); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req PaymentInfoRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.service.UpdatePaymentInfo(r.Context(), id, req.PaymentID, domain.PaymentStatus(req.Status))
	if err != nil {
		fail(w, r, h.logger, "order_payment_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}
