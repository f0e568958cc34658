package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
)

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	venueA := seedVenue(t, "User Venue A", true)
	venueB := seedVenue(t, "User Venue B", true)
	userID := seedUser(t, domain.RoleOperator, true, venueA, venueB)

	user, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.True(t, user.IsActive)
	assert.ElementsMatch(t, []uuid.UUID{venueA, venueB}, user.VenueIDs,
		"venue scope array must round-trip; access checks depend on it")
}

func TestUserRepository_GetByID_EmptyVenueScope(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	userID := seedUser(t, domain.RoleCustomer, true)

	user, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.VenueIDs)
}

func TestUserRepository_GetByID_Inactive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	userID := seedUser(t, domain.RoleAdmin, false)

	user, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo := NewUserRepository(testPool)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
