package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
)

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status domain.OrderStatus
		want   bool
	}{
		{"pending is valid", domain.OrderPending, true},
		{"confirmed is valid", domain.OrderConfirmed, true},
		{"preparing is valid", domain.OrderPreparing, true},
		{"ready is valid", domain.OrderReady, true},
		{"out_for_delivery is valid", domain.OrderOutForDelivery, true},
		{"served is valid", domain.OrderServed, true},
		{"delivered is valid", domain.OrderDelivered, true},
		{"cancelled is valid", domain.OrderCancelled, true},
		{"empty is invalid", domain.OrderStatus(""), false},
		{"uppercase is invalid", domain.OrderStatus("PENDING"), false},
		{"unknown is invalid", domain.OrderStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{"pending to confirmed", domain.OrderPending, domain.OrderConfirmed, true},
		{"pending to cancelled", domain.OrderPending, domain.OrderCancelled, true},
		{"pending to ready skips preparing", domain.OrderPending, domain.OrderReady, false},
		{"confirmed to preparing", domain.OrderConfirmed, domain.OrderPreparing, true},
		{"confirmed to cancelled", domain.OrderConfirmed, domain.OrderCancelled, true},
		{"preparing to ready", domain.OrderPreparing, domain.OrderReady, true},
		{"preparing to cancelled", domain.OrderPreparing, domain.OrderCancelled, true},
		{"ready to served", domain.OrderReady, domain.OrderServed, true},
		{"ready to delivered", domain.OrderReady, domain.OrderDelivered, true},
		{"ready cannot be cancelled", domain.OrderReady, domain.OrderCancelled, false},
		{"out_for_delivery to delivered", domain.OrderOutForDelivery, domain.OrderDelivered, true},
		{"out_for_delivery to cancelled", domain.OrderOutForDelivery, domain.OrderCancelled, true},
		{"backwards confirmed to pending", domain.OrderConfirmed, domain.OrderPending, false},
		{"unknown source", domain.OrderStatus("shipped"), domain.OrderConfirmed, false},
		{"unknown target", domain.OrderPending, domain.OrderStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_NoSelfTransitions(t *testing.T) {
	statuses := []domain.OrderStatus{
		domain.OrderPending,
		domain.OrderConfirmed,
		domain.OrderPreparing,
		domain.OrderReady,
		domain.OrderOutForDelivery,
		domain.OrderServed,
		domain.OrderDelivered,
		domain.OrderCancelled,
	}

	for _, s := range statuses {
		assert.False(t, domain.CanTransition(s, s), "self-transition allowed for %s", s)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	terminal := []domain.OrderStatus{domain.OrderServed, domain.OrderDelivered, domain.OrderCancelled}
	all := []domain.OrderStatus{
		domain.OrderPending,
		domain.OrderConfirmed,
		domain.OrderPreparing,
		domain.OrderReady,
		domain.OrderOutForDelivery,
		domain.OrderServed,
		domain.OrderDelivered,
		domain.OrderCancelled,
	}

	for _, from := range terminal {
		assert.True(t, from.IsTerminal(), "%s should be terminal", from)
		for _, to := range all {
			assert.False(t, domain.CanTransition(from, to),
				"terminal state %s should not transition to %s", from, to)
		}
	}

	assert.False(t, domain.OrderPending.IsTerminal())
	assert.False(t, domain.OrderReady.IsTerminal())
}

func TestNewOrder(t *testing.T) {
	venueID := uuid.New()
	tableID := uuid.New()

	items := []domain.OrderItem{
		{MenuItemID: uuid.New(), MenuItemName: "Margherita", Quantity: 2, UnitPrice: 9.50, TotalPrice: 19.00},
		{MenuItemID: uuid.New(), MenuItemName: "Cola", Quantity: 1, UnitPrice: 2.50, TotalPrice: 2.50},
	}

	tests := []struct {
		name    string
		params  domain.OrderParams
		wantErr error
	}{
		{
			name:   "valid order",
			params: domain.OrderParams{VenueID: venueID, TableID: &tableID, Items: items, CustomerName: "Ada"},
		},
		{
			name:    "missing venue",
			params:  domain.OrderParams{Items: items},
			wantErr: apperrors.ErrVenueIDRequired,
		},
		{
			name:    "no items",
			params:  domain.OrderParams{VenueID: venueID},
			wantErr: apperrors.ErrOrderItemsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := domain.NewOrder(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.OrderPending, order.Status)
			assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
			assert.Equal(t, venueID, order.VenueID)
			assert.InDelta(t, 21.50, order.TotalAmount, 0.001)
			assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
			assert.Nil(t, order.ActualReadyTime)
		})
	}
}

func TestOrder_UpdateStatus_FullLifecycle(t *testing.T) {
	order, err := domain.NewOrder(domain.OrderParams{
		VenueID: uuid.New(),
		Items:   []domain.OrderItem{{MenuItemID: uuid.New(), Quantity: 1, TotalPrice: 5}},
	})
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(domain.OrderConfirmed))
	require.NoError(t, order.UpdateStatus(domain.OrderPreparing))
	assert.Nil(t, order.ActualReadyTime)

	require.NoError(t, order.UpdateStatus(domain.OrderReady))
	require.NotNil(t, order.ActualReadyTime, "entering ready must stamp the ready time")
	readyAt := *order.ActualReadyTime

	require.NoError(t, order.UpdateStatus(domain.OrderServed))
	assert.Equal(t, readyAt, *order.ActualReadyTime, "leaving ready must not touch the ready time")

	// Served is terminal.
	err = order.UpdateStatus(domain.OrderDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Equal(t, domain.OrderServed, order.Status)
}

func TestOrder_UpdateStatus_Rejected(t *testing.T) {
	order, err := domain.NewOrder(domain.OrderParams{
		VenueID: uuid.New(),
		Items:   []domain.OrderItem{{MenuItemID: uuid.New(), Quantity: 1, TotalPrice: 5}},
	})
	require.NoError(t, err)

	err = order.UpdateStatus(domain.OrderReady)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Equal(t, domain.OrderPending, order.Status, "rejected transition must not change the order")
	assert.Nil(t, order.ActualReadyTime)
}
