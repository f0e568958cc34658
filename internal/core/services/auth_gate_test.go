package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/menulink/emenu-backend/internal/auth"
	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/mocks"
	"github.com/menulink/emenu-backend/internal/core/services"
)

const testSecret = "test-secret-key-for-auth-gate"

func TestAuthGate_Resolve_Enforced(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	venueID := uuid.New()

	activeUser := &domain.User{
		ID:       uuid.New(),
		Email:    "op@example.com",
		Role:     domain.RoleOperator,
		VenueIDs: []uuid.UUID{venueID},
		IsActive: true,
	}

	validToken, err := tokens.GenerateToken(activeUser.ID, string(activeUser.Role))
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		users.On("GetByID", mock.Anything, activeUser.ID).Return(activeUser, nil)

		gate := services.NewAuthGate(tokens, users, true, uuid.Nil, testLogger())
		identity, err := gate.Resolve(context.Background(), validToken)

		require.NoError(t, err)
		assert.Equal(t, activeUser.ID, identity.UserID)
		assert.Equal(t, domain.RoleOperator, identity.Role)
		assert.Equal(t, []uuid.UUID{venueID}, identity.VenueIDs)
	})

	t.Run("empty token", func(t *testing.T) {
		gate := services.NewAuthGate(tokens, mocks.NewMockUserRepository(), true, uuid.Nil, testLogger())
		_, err := gate.Resolve(context.Background(), "")
		assert.ErrorIs(t, err, apperrors.ErrTokenRequired)
	})

	t.Run("garbage token", func(t *testing.T) {
		gate := services.NewAuthGate(tokens, mocks.NewMockUserRepository(), true, uuid.Nil, testLogger())
		_, err := gate.Resolve(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredTokens := auth.NewTokenManager(testSecret, -time.Minute)
		expired, err := expiredTokens.GenerateToken(activeUser.ID, string(activeUser.Role))
		require.NoError(t, err)

		gate := services.NewAuthGate(tokens, mocks.NewMockUserRepository(), true, uuid.Nil, testLogger())
		_, err = gate.Resolve(context.Background(), expired)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("token subject no longer exists", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		users.On("GetByID", mock.Anything, activeUser.ID).Return(nil, apperrors.ErrUserNotFound)

		gate := services.NewAuthGate(tokens, users, true, uuid.Nil, testLogger())
		_, err := gate.Resolve(context.Background(), validToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("deactivated user", func(t *testing.T) {
		inactive := *activeUser
		inactive.IsActive = false

		users := mocks.NewMockUserRepository()
		users.On("GetByID", mock.Anything, activeUser.ID).Return(&inactive, nil)

		gate := services.NewAuthGate(tokens, users, true, uuid.Nil, testLogger())
		_, err := gate.Resolve(context.Background(), validToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestAuthGate_Resolve_DevelopmentMode(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	devUserID := uuid.New()

	t.Run("development user exists", func(t *testing.T) {
		devUser := &domain.User{
			ID:       devUserID,
			Role:     domain.RoleAdmin,
			VenueIDs: []uuid.UUID{uuid.New()},
			IsActive: true,
		}
		users := mocks.NewMockUserRepository()
		users.On("GetByID", mock.Anything, devUserID).Return(devUser, nil)

		gate := services.NewAuthGate(tokens, users, false, devUserID, testLogger())
		identity, err := gate.Resolve(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, devUserID, identity.UserID)
		assert.Equal(t, domain.RoleAdmin, identity.Role)
	})

	t.Run("development user missing falls back to synthetic superadmin", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		users.On("GetByID", mock.Anything, devUserID).Return(nil, apperrors.ErrUserNotFound)

		gate := services.NewAuthGate(tokens, users, false, devUserID, testLogger())
		identity, err := gate.Resolve(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, devUserID, identity.UserID)
		assert.Equal(t, domain.RoleSuperAdmin, identity.Role)
	})

	t.Run("token is ignored entirely", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		users.On("GetByID", mock.Anything, devUserID).Return(nil, apperrors.ErrUserNotFound)

		gate := services.NewAuthGate(tokens, users, false, devUserID, testLogger())
		identity, err := gate.Resolve(context.Background(), "complete-garbage")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleSuperAdmin, identity.Role)
	})
}
