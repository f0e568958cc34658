package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/mocks"
	"github.com/menulink/emenu-backend/internal/core/services"
)

func TestVenueStatusService_VenueStatus(t *testing.T) {
	venueID := uuid.New()

	orders := mocks.NewMockOrderRepository()
	tables := mocks.NewMockTableRepository()

	orders.On("ListByVenue", mock.Anything, venueID).Return([]*domain.Order{
		{Status: domain.OrderPending},
		{Status: domain.OrderPreparing},
		{Status: domain.OrderReady},
		{Status: domain.OrderServed},    // terminal, not active
		{Status: domain.OrderCancelled}, // terminal, not active
	}, nil)
	tables.On("ListByVenue", mock.Anything, venueID).Return([]*domain.Table{
		{Status: domain.TableOccupied},
		{Status: domain.TableOccupied},
		{Status: domain.TableAvailable},
		{Status: domain.TableCleaning},
	}, nil)

	svc := services.NewVenueStatusService(orders, tables, testLogger())
	status, err := svc.VenueStatus(context.Background(), venueID)

	require.NoError(t, err)
	assert.Equal(t, venueID, status.VenueID)
	assert.Equal(t, 3, status.ActiveOrders)
	assert.Equal(t, 4, status.TotalTables)
	assert.Equal(t, 2, status.OccupiedTables)
}

func TestVenueStatusService_VenueStatus_EmptyVenue(t *testing.T) {
	venueID := uuid.New()

	orders := mocks.NewMockOrderRepository()
	tables := mocks.NewMockTableRepository()

	orders.On("ListByVenue", mock.Anything, venueID).Return([]*domain.Order{}, nil)
	tables.On("ListByVenue", mock.Anything, venueID).Return([]*domain.Table{}, nil)

	svc := services.NewVenueStatusService(orders, tables, testLogger())
	status, err := svc.VenueStatus(context.Background(), venueID)

	require.NoError(t, err)
	assert.Zero(t, status.ActiveOrders)
	assert.Zero(t, status.TotalTables)
	assert.Zero(t, status.OccupiedTables)
}

func TestVenueStatusService_VenueStatus_RepositoryError(t *testing.T) {
	venueID := uuid.New()

	orders := mocks.NewMockOrderRepository()
	tables := mocks.NewMockTableRepository()

	orders.On("ListByVenue", mock.Anything, venueID).Return(nil, apperrors.ErrInternal)

	svc := services.NewVenueStatusService(orders, tables, testLogger())
	_, err := svc.VenueStatus(context.Background(), venueID)

	assert.ErrorIs(t, err, apperrors.ErrInternal)
	tables.AssertNotCalled(t, "ListByVenue", mock.Anything, mock.Anything)
}
