package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staffIdentity(role domain.Role, venueIDs ...uuid.UUID) domain.Identity {
	return domain.Identity{UserID: uuid.New(), Role: role, VenueIDs: venueIDs}
}

// newTestVenueClient builds a venue-bound client without a live socket.
// Registry and dispatcher logic never touch the connection directly.
func newTestVenueClient(registry *Registry, venueID uuid.UUID, identity domain.Identity) *Client {
	return NewVenueClient(nil, venueID, identity, registry, nil, ClientConfig{}, testLogger())
}

func newTestUserClient(registry *Registry, userID uuid.UUID, identity domain.Identity) *Client {
	return NewUserClient(nil, userID, identity, registry, nil, ClientConfig{}, testLogger())
}

// receiveEvent pops one queued message off the client's buffer.
func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case msg := <-client.send:
		var evt Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		return evt
	default:
		t.Fatal("expected a queued message, found none")
		return Event{}
	}
}

func assertNoMessage(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg, ok := <-client.send:
		if ok {
			t.Fatalf("expected no queued message, got %s", msg)
		}
	default:
	}
}

func activeVenueRepo(venueID uuid.UUID) *mocks.MockVenueRepository {
	repo := mocks.NewMockVenueRepository()
	repo.On("GetByID", mock.Anything, venueID).Return(&domain.Venue{
		ID:       venueID,
		Name:     "Trattoria Roma",
		IsActive: true,
	}, nil)
	return repo
}

func TestRegistry_AdmitVenue(t *testing.T) {
	venueID := uuid.New()
	otherVenue := uuid.New()

	tests := []struct {
		name     string
		identity domain.Identity
		setup    func(*mocks.MockVenueRepository)
		wantErr  error
	}{
		{
			name:     "operator with venue in scope",
			identity: staffIdentity(domain.RoleOperator, venueID),
			setup: func(repo *mocks.MockVenueRepository) {
				repo.On("GetByID", mock.Anything, venueID).
					Return(&domain.Venue{ID: venueID, IsActive: true}, nil)
			},
		},
		{
			name:     "superadmin without explicit scope",
			identity: staffIdentity(domain.RoleSuperAdmin),
			setup: func(repo *mocks.MockVenueRepository) {
				repo.On("GetByID", mock.Anything, venueID).
					Return(&domain.Venue{ID: venueID, IsActive: true}, nil)
			},
		},
		{
			name:     "operator scoped to a different venue",
			identity: staffIdentity(domain.RoleOperator, otherVenue),
			setup:    func(repo *mocks.MockVenueRepository) {},
			wantErr:  apperrors.ErrVenueAccessDenied,
		},
		{
			name:     "venue does not exist",
			identity: staffIdentity(domain.RoleSuperAdmin),
			setup: func(repo *mocks.MockVenueRepository) {
				repo.On("GetByID", mock.Anything, venueID).
					Return(nil, apperrors.ErrVenueNotFound)
			},
			wantErr: apperrors.ErrVenueNotFound,
		},
		{
			name:     "venue is inactive",
			identity: staffIdentity(domain.RoleSuperAdmin),
			setup: func(repo *mocks.MockVenueRepository) {
				repo.On("GetByID", mock.Anything, venueID).
					Return(&domain.Venue{ID: venueID, IsActive: false}, nil)
			},
			wantErr: apperrors.ErrVenueInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockVenueRepository()
			tt.setup(repo)

			registry := NewRegistry(repo, testLogger())
			client := newTestVenueClient(registry, venueID, tt.identity)

			err := registry.AdmitVenue(context.Background(), client)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, registry.VenueSnapshot(venueID), "rejected client must not be registered")
				return
			}

			require.NoError(t, err)
			snapshot := registry.VenueSnapshot(venueID)
			require.Len(t, snapshot, 1)
			assert.Same(t, client, snapshot[0])
		})
	}
}

func TestRegistry_AdmitUser(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		identity domain.Identity
		wantErr  error
	}{
		{
			name:     "own personal stream",
			identity: domain.Identity{UserID: userID, Role: domain.RoleCustomer},
		},
		{
			name:     "superadmin joining another user's stream",
			identity: staffIdentity(domain.RoleSuperAdmin),
		},
		{
			name:     "someone else's stream",
			identity: domain.Identity{UserID: uuid.New(), Role: domain.RoleCustomer},
			wantErr:  apperrors.ErrUserAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry(mocks.NewMockVenueRepository(), testLogger())
			client := newTestUserClient(registry, userID, tt.identity)

			err := registry.AdmitUser(context.Background(), client)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, registry.UserConnection(userID))
				return
			}

			require.NoError(t, err)
			assert.Same(t, client, registry.UserConnection(userID))
		})
	}
}

func TestRegistry_AdmitUser_SupersedesPrior(t *testing.T) {
	registry := NewRegistry(mocks.NewMockVenueRepository(), testLogger())
	userID := uuid.New()
	identity := domain.Identity{UserID: userID, Role: domain.RoleCustomer}

	first := newTestUserClient(registry, userID, identity)
	second := newTestUserClient(registry, userID, identity)

	require.NoError(t, registry.AdmitUser(context.Background(), first))
	require.NoError(t, registry.AdmitUser(context.Background(), second))

	assert.Same(t, second, registry.UserConnection(userID), "second admission must supersede the first")

	// When the stale connection finally disconnects it must not evict
	// its successor.
	registry.Remove(first)
	assert.Same(t, second, registry.UserConnection(userID))

	registry.Remove(second)
	assert.Nil(t, registry.UserConnection(userID))
}

func TestRegistry_Remove(t *testing.T) {
	venueID := uuid.New()
	registry := NewRegistry(activeVenueRepo(venueID), testLogger())

	first := newTestVenueClient(registry, venueID, staffIdentity(domain.RoleOperator, venueID))
	second := newTestVenueClient(registry, venueID, staffIdentity(domain.RoleAdmin, venueID))

	require.NoError(t, registry.AdmitVenue(context.Background(), first))
	require.NoError(t, registry.AdmitVenue(context.Background(), second))
	require.Len(t, registry.VenueSnapshot(venueID), 2)

	registry.Remove(first)

	snapshot := registry.VenueSnapshot(venueID)
	require.Len(t, snapshot, 1)
	assert.Same(t, second, snapshot[0], "removed client must be invisible to snapshots")
	assert.False(t, first.enqueue([]byte("{}")), "removed client must not accept messages")

	// Removing the last subscriber deletes the venue channel entirely.
	registry.Remove(second)
	assert.Empty(t, registry.VenueSnapshot(venueID))
	assert.Empty(t, registry.Stats().VenueConnections)
}

func TestRegistry_Remove_Idempotent(t *testing.T) {
	venueID := uuid.New()
	registry := NewRegistry(activeVenueRepo(venueID), testLogger())

	client := newTestVenueClient(registry, venueID, staffIdentity(domain.RoleOperator, venueID))
	require.NoError(t, registry.AdmitVenue(context.Background(), client))

	registry.Remove(client)
	assert.NotPanics(t, func() { registry.Remove(client) })
	assert.Empty(t, registry.VenueSnapshot(venueID))
}

func TestRegistry_VenueSnapshot_RoleFilter(t *testing.T) {
	venueID := uuid.New()
	registry := NewRegistry(activeVenueRepo(venueID), testLogger())

	admin := newTestVenueClient(registry, venueID, staffIdentity(domain.RoleAdmin, venueID))
	operator := newTestVenueClient(registry, venueID, staffIdentity(domain.RoleOperator, venueID))
	customer := newTestVenueClient(registry, venueID, domain.Identity{
		UserID: uuid.New(), Role: domain.RoleCustomer, VenueIDs: []uuid.UUID{venueID},
	})

	ctx := context.Background()
	require.NoError(t, registry.AdmitVenue(ctx, admin))
	require.NoError(t, registry.AdmitVenue(ctx, operator))
	require.NoError(t, registry.AdmitVenue(ctx, customer))

	assert.Len(t, registry.VenueSnapshot(venueID), 3)
	assert.Len(t, registry.VenueSnapshot(venueID, domain.StaffRoles...), 2)
	assert.Empty(t, registry.VenueSnapshot(uuid.New()), "unknown venue yields an empty snapshot")
}

func TestRegistry_Stats(t *testing.T) {
	venueID := uuid.New()
	registry := NewRegistry(activeVenueRepo(venueID), testLogger())
	ctx := context.Background()

	venueClient := newTestVenueClient(registry, venueID, staffIdentity(domain.RoleOperator, venueID))
	require.NoError(t, registry.AdmitVenue(ctx, venueClient))

	userID := uuid.New()
	userClient := newTestUserClient(registry, userID, domain.Identity{UserID: userID, Role: domain.RoleCustomer})
	require.NoError(t, registry.AdmitUser(ctx, userClient))

	stats := registry.Stats()
	assert.Equal(t, 2, stats.TotalConnections)
	assert.Equal(t, 1, stats.UserConnections)
	assert.Equal(t, map[string]int{venueID.String(): 1}, stats.VenueConnections)
}
