package services

import (
	"context"
	"log/slog"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// OrderService is the mutation boundary for orders: it validates the
// lifecycle transition, persists the authoritative write, and only then
// announces the result. Publishing is fire-and-forget; an order mutation
// never fails because a dashboard was unreachable.
type OrderService struct {
	orders    ports.OrderRepository
	tables    ports.TableRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
}

var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService creates the order mutation service.
func NewOrderService(orders ports.OrderRepository, tables ports.TableRepository, publisher ports.EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		tables:    tables,
		publisher: publisher,
		logger:    logger.With("component", "order_service"),
	}
}

// CreateOrder validates and persists a new order, then notifies venue staff.
func (s *OrderService) CreateOrder(ctx context.Context, params ports.CreateOrderParams) (*domain.Order, error) {
	var tableNumber string
	if params.TableID != nil {
		table, err := s.tables.GetByID(ctx, *params.TableID)
		if err != nil {
			return nil, err
		}
		if table.VenueID != params.VenueID {
			return nil, apperrors.ErrTableVenueMismatch
		}
		tableNumber = table.Number
	}

	order, err := domain.NewOrder(domain.OrderParams{
		VenueID:      params.VenueID,
		TableID:      params.TableID,
		Items:        params.Items,
		CustomerName: params.CustomerName,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishOrderCreated(created, tableNumber)

	s.logger.Info("order created",
		"order_id", created.ID,
		"order_number", created.OrderNumber,
		"venue_id", created.VenueID,
	)
	return created, nil
}

// UpdateOrderStatus applies a lifecycle transition. The transition check
// happens before any write or broadcast; an invalid transition leaves both
// the record and the connections untouched.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, params ports.UpdateOrderStatusParams) (*domain.Order, error) {
	if !params.Status.IsValid() {
		return nil, apperrors.NewBadRequestError(apperrors.ErrInvalidStatus, "Unknown order status: "+string(params.Status))
	}

	order, err := s.orders.GetByID(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}

	if !params.Actor.Role.IsStaff() || !params.Actor.CanAccessVenue(order.VenueID) {
		return nil, apperrors.ErrForbidden
	}

	oldStatus := order.Status
	if err := order.UpdateStatus(params.Status); err != nil {
		return nil, apperrors.NewInvalidTransitionError(string(oldStatus), string(params.Status))
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	tableNumber := s.tableNumberFor(ctx, order)
	s.publisher.PublishOrderStatusChanged(order, oldStatus, order.Status, tableNumber)

	s.logger.Info("order status updated",
		"order_id", order.ID,
		"old_status", oldStatus,
		"new_status", order.Status,
	)
	return order, nil
}

// tableNumberFor best-effort resolves the human-readable table number used
// in event payloads. Missing tables degrade to an empty number, never an
// error: the notification must not depend on it.
func (s *OrderService) tableNumberFor(ctx context.Context, order *domain.Order) string {
	if order.TableID == nil {
		return ""
	}
	table, err := s.tables.GetByID(ctx, *order.TableID)
	if err != nil {
		s.logger.Warn("failed to resolve table number", "table_id", *order.TableID, "error", err)
		return ""
	}
	return table.Number
}
