package services

import (
	"context"
	"log/slog"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// TableService handles table status mutations and their notifications.
type TableService struct {
	tables    ports.TableRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
}

var _ ports.TableService = (*TableService)(nil)

// NewTableService creates the table mutation service.
func NewTableService(tables ports.TableRepository, publisher ports.EventPublisher, logger *slog.Logger) *TableService {
	return &TableService{
		tables:    tables,
		publisher: publisher,
		logger:    logger.With("component", "table_service"),
	}
}

// UpdateTableStatus persists a table status change and broadcasts it to the
// venue.
func (s *TableService) UpdateTableStatus(ctx context.Context, params ports.UpdateTableStatusParams) (*domain.Table, error) {
	table, err := s.tables.GetByID(ctx, params.TableID)
	if err != nil {
		return nil, err
	}

	if !params.Actor.Role.IsStaff() || !params.Actor.CanAccessVenue(table.VenueID) {
		return nil, apperrors.ErrForbidden
	}

	oldStatus := table.Status
	if err := table.UpdateStatus(params.Status); err != nil {
		return nil, apperrors.NewBadRequestError(err, "Unknown table status: "+string(params.Status))
	}

	if err := s.tables.UpdateStatus(ctx, table); err != nil {
		return nil, err
	}

	s.publisher.PublishTableStatusChanged(table, oldStatus, table.Status)

	s.logger.Info("table status updated",
		"table_id", table.ID,
		"venue_id", table.VenueID,
		"old_status", oldStatus,
		"new_status", table.Status,
	)
	return table, nil
}
