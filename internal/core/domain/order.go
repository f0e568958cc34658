package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
)

// OrderStatus represents the possible states of an order.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderServed         OrderStatus = "served"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// orderTransitions defines the allowed status transitions. Served, delivered
// and cancelled are terminal: no outbound transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReady, OrderCancelled},
	OrderReady:          {OrderServed, OrderDelivered},
	OrderOutForDelivery: {OrderDelivered, OrderCancelled},
	OrderServed:         {},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

// IsValid reports whether the status is a known order status.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether the status permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	allowed, ok := orderTransitions[s]
	return ok && len(allowed) == 0
}

// IsActive reports whether an order in this status still needs kitchen
// attention. Used by the venue status snapshot.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// It is a pure predicate: callers surface the failure as an error.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	MenuItemName string    `json:"menu_item_name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalPrice   float64   `json:"total_price"`
}

// Order is the core domain entity the notification layer reads.
type Order struct {
	ID              uuid.UUID
	VenueID         uuid.UUID
	TableID         *uuid.UUID
	OrderNumber     string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	TotalAmount     float64
	Items           []OrderItem
	CustomerName    string
	ActualReadyTime *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// OrderParams defines the input for creating a new order.
type OrderParams struct {
	VenueID      uuid.UUID
	TableID      *uuid.UUID
	Items        []OrderItem
	CustomerName string
}

// NewOrder creates a valid new order in the initial pending state.
// The total is derived from the items; callers never choose the status.
func NewOrder(params OrderParams) (*Order, error) {
	if params.VenueID == uuid.Nil {
		return nil, apperrors.ErrVenueIDRequired
	}
	if len(params.Items) == 0 {
		return nil, apperrors.ErrOrderItemsRequired
	}

	var total float64
	for _, item := range params.Items {
		total += item.TotalPrice
	}

	return &Order{
		ID:            uuid.New(),
		VenueID:       params.VenueID,
		TableID:       params.TableID,
		OrderNumber:   newOrderNumber(),
		Status:        OrderPending,
		PaymentStatus: PaymentPending,
		TotalAmount:   total,
		Items:         params.Items,
		CustomerName:  params.CustomerName,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// UpdateStatus moves the order to a new status, enforcing the transition
// table. Entering ready stamps the actual ready time; no other transition
// touches the record beyond the status itself.
func (o *Order) UpdateStatus(newStatus OrderStatus) error {
	if !CanTransition(o.Status, newStatus) {
		return apperrors.ErrInvalidStatusTransition
	}

	o.Status = newStatus
	now := time.Now().UTC()
	o.UpdatedAt = &now

	if newStatus == OrderReady {
		o.ActualReadyTime = &now
	}
	return nil
}

// newOrderNumber generates a human-readable order number.
func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("200601021504"), suffix)
}
