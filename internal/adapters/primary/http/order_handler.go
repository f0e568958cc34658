package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/menulink/emenu-backend/internal/adapters/primary/http/middleware"
	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// OrderHandler handles order creation and lifecycle transitions.
type OrderHandler struct {
	service      ports.OrderService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service ports.OrderService, errorHandler *ErrorHandler, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes registers the order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreate)
	r.Patch("/{orderID}/status", h.HandleUpdateStatus)
}

// CreateOrderRequest is the body for creating an order.
type CreateOrderRequest struct {
	VenueID      uuid.UUID          `json:"venue_id"`
	TableID      *uuid.UUID         `json:"table_id,omitempty"`
	Items        []domain.OrderItem `json:"items"`
	CustomerName string             `json:"customer_name,omitempty"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	VenueID         uuid.UUID          `json:"venue_id"`
	TableID         *uuid.UUID         `json:"table_id,omitempty"`
	OrderNumber     string             `json:"order_number"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	Items           []domain.OrderItem `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	CustomerName    string             `json:"customer_name,omitempty"`
	ActualReadyTime *string            `json:"actual_ready_time,omitempty"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       *string            `json:"updated_at,omitempty"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		VenueID:       o.VenueID,
		TableID:       o.TableID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Items:         o.Items,
		TotalAmount:   o.TotalAmount,
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt.UTC().Format(timeLayout),
	}
	if o.UpdatedAt != nil {
		updatedAt := o.UpdatedAt.UTC().Format(timeLayout)
		resp.UpdatedAt = &updatedAt
	}
	if o.ActualReadyTime != nil {
		readyAt := o.ActualReadyTime.UTC().Format(timeLayout)
		resp.ActualReadyTime = &readyAt
	}
	return resp
}

// HandleCreate creates a new order and notifies the venue's staff.
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	order, err := h.service.CreateOrder(r.Context(), ports.CreateOrderParams{
		VenueID:      req.VenueID,
		TableID:      req.TableID,
		Items:        req.Items,
		CustomerName: req.CustomerName,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusCreated, SuccessResponse{Data: toOrderResponse(order)})
}

// UpdateOrderStatusRequest is the body for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus applies a lifecycle transition to an order.
func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := mw.GetIdentity(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrOrderNotFound)
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), ports.UpdateOrderStatusParams{
		OrderID: orderID,
		Status:  domain.OrderStatus(req.Status),
		Actor:   identity,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteSuccess(w, toOrderResponse(order))
}
