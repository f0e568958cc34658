package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/menulink/emenu-backend/internal/core/domain"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// VenueStatusService computes the lightweight live snapshot behind the
// get_venue_status frame. It queries the order and table repositories
// directly so dashboards always see fresh counts.
type VenueStatusService struct {
	orders ports.OrderRepository
	tables ports.TableRepository
	logger *slog.Logger
}

var _ ports.VenueStatusProvider = (*VenueStatusService)(nil)

// NewVenueStatusService creates the snapshot provider.
func NewVenueStatusService(orders ports.OrderRepository, tables ports.TableRepository, logger *slog.Logger) *VenueStatusService {
	return &VenueStatusService{
		orders: orders,
		tables: tables,
		logger: logger.With("component", "venue_status_service"),
	}
}

// VenueStatus returns the current active order count and table occupancy for
// a venue.
func (s *VenueStatusService) VenueStatus(ctx context.Context, venueID uuid.UUID) (*ports.VenueStatus, error) {
	orders, err := s.orders.ListByVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	tables, err := s.tables.ListByVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	status := &ports.VenueStatus{
		VenueID:     venueID,
		TotalTables: len(tables),
	}
	for _, order := range orders {
		if order.Status.IsActive() {
			status.ActiveOrders++
		}
	}
	for _, table := range tables {
		if table.Status == domain.TableOccupied {
			status.OccupiedTables++
		}
	}
	return status, nil
}
