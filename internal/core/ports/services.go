package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/menulink/emenu-backend/internal/core/domain"
)

// Authenticator resolves a bearer token into a session identity before a
// real-time connection is admitted. An empty token is only acceptable when
// JWT enforcement is disabled.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

// EventPublisher fans domain events out to connected clients. Publishing is
// fire-and-forget with respect to the caller: no method returns an error, and
// a delivery failure must never fail the business operation that triggered
// the event.
type EventPublisher interface {
	PublishOrderCreated(order *domain.Order, tableNumber string)
	PublishOrderStatusChanged(order *domain.Order, oldStatus, newStatus domain.OrderStatus, tableNumber string)
	PublishTableStatusChanged(table *domain.Table, oldStatus, newStatus domain.TableStatus)
	PublishSystemNotice(venueID uuid.UUID, title, body string, extra map[string]interface{})
	SendDirect(userID uuid.UUID, payload interface{})
}

// VenueStatus is a lightweight live snapshot of a venue, computed on demand
// for connected dashboards.
type VenueStatus struct {
	VenueID        uuid.UUID
	ActiveOrders   int
	TotalTables    int
	OccupiedTables int
}

// VenueStatusProvider computes the venue snapshot directly from the order and
// table collaborators, bypassing any cache.
type VenueStatusProvider interface {
	VenueStatus(ctx context.Context, venueID uuid.UUID) (*VenueStatus, error)
}

// CreateOrderParams defines the input for creating a new order.
type CreateOrderParams struct {
	VenueID      uuid.UUID
	TableID      *uuid.UUID
	Items        []domain.OrderItem
	CustomerName string
}

// UpdateOrderStatusParams defines the input for changing an order's status.
type UpdateOrderStatusParams struct {
	OrderID uuid.UUID
	Status  domain.OrderStatus
	Actor   domain.Identity
}

// OrderService is the mutation boundary where lifecycle validation and
// notification meet persistence.
type OrderService interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, params UpdateOrderStatusParams) (*domain.Order, error)
}

// UpdateTableStatusParams defines the input for changing a table's status.
type UpdateTableStatusParams struct {
	TableID uuid.UUID
	Status  domain.TableStatus
	Actor   domain.Identity
}

// TableService handles table status mutations and their notifications.
type TableService interface {
	UpdateTableStatus(ctx context.Context, params UpdateTableStatusParams) (*domain.Table, error)
}
