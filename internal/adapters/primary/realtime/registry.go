package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// Registry is the single source of truth for who is currently listening,
// and to what. A single mutex guards both indexes: snapshots never observe
// a half-inserted or half-removed connection, and after Remove returns the
// client is unreachable through the registry.
type Registry struct {
	// venues maps venue IDs to the set of venue-bound clients. Channels
	// are created lazily and deleted when the last subscriber leaves.
	venues map[uuid.UUID]map[*Client]bool

	// users maps user IDs to the single indexed personal-stream client.
	// A new admission for the same user supersedes the previous entry.
	users map[uuid.UUID]*Client

	venueRepo ports.VenueRepository

	mu     sync.RWMutex
	logger *slog.Logger
}

// Stats is a diagnostic snapshot of registry occupancy.
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	VenueConnections map[string]int `json:"venue_connections"`
	UserConnections  int            `json:"user_connections"`
}

// NewRegistry creates a connection registry. The venue repository backs the
// existence-and-active check at admission time.
func NewRegistry(venueRepo ports.VenueRepository, logger *slog.Logger) *Registry {
	return &Registry{
		venues:    make(map[uuid.UUID]map[*Client]bool),
		users:     make(map[uuid.UUID]*Client),
		venueRepo: venueRepo,
		logger:    logger.With("component", "connection_registry"),
	}
}

// AdmitVenue validates access and inserts the client into its venue's
// channel. Nothing is registered when any check fails.
func (r *Registry) AdmitVenue(ctx context.Context, client *Client) error {
	venueID := client.VenueID()
	if venueID == uuid.Nil {
		return apperrors.ErrVenueIDRequired
	}

	if !client.Identity().CanAccessVenue(venueID) {
		return apperrors.ErrVenueAccessDenied
	}

	venue, err := r.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return err
	}
	if !venue.IsActive {
		return apperrors.ErrVenueInactive
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.venues[venueID] == nil {
		r.venues[venueID] = make(map[*Client]bool)
	}
	r.venues[venueID][client] = true

	r.logger.Info("client joined venue channel",
		"venue_id", venueID,
		"user_id", client.Identity().UserID,
		"role", client.Identity().Role,
		"subscribers", len(r.venues[venueID]),
	)
	return nil
}

// AdmitUser validates access and indexes the client as the current
// personal-stream connection for its user. A prior entry for the same user
// is dropped from the index; the old socket is not closed here.
func (r *Registry) AdmitUser(ctx context.Context, client *Client) error {
	userID := client.UserID()
	if userID == uuid.Nil {
		return apperrors.ErrUserAccessDenied
	}

	if !client.Identity().CanAccessUser(userID) {
		return apperrors.ErrUserAccessDenied
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.users[userID]; ok && prev != client {
		r.logger.Info("superseding prior user connection", "user_id", userID)
	}
	r.users[userID] = client

	r.logger.Info("client joined personal stream",
		"user_id", userID,
		"requested_by", client.Identity().UserID,
	)
	return nil
}

// Remove takes the client out of whichever index it belongs to and closes
// its send channel. Idempotent: calling it again is a no-op. If removal
// empties a venue channel the channel entry itself is deleted.
func (r *Registry) Remove(client *Client) {
	r.mu.Lock()

	switch client.Mode() {
	case ModeVenue:
		venueID := client.VenueID()
		if channel, ok := r.venues[venueID]; ok {
			if channel[client] {
				delete(channel, client)
				if len(channel) == 0 {
					delete(r.venues, venueID)
				}
				r.logger.Info("client left venue channel", "venue_id", venueID, "user_id", client.Identity().UserID)
			}
		}

	case ModeUser:
		userID := client.UserID()
		// Only unindex if this client is still the current one; a
		// superseded connection must not evict its successor.
		if r.users[userID] == client {
			delete(r.users, userID)
			r.logger.Info("client left personal stream", "user_id", userID)
		}
	}

	r.mu.Unlock()

	client.closeSend()
}

// VenueSnapshot returns a copy of the venue channel's members, optionally
// filtered by role, so a concurrent disconnect cannot corrupt an in-progress
// broadcast.
func (r *Registry) VenueSnapshot(venueID uuid.UUID, roles ...domain.Role) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.venues[venueID]
	if !ok {
		return nil
	}

	clients := make([]*Client, 0, len(channel))
	for client := range channel {
		if len(roles) > 0 && !roleMatches(client.Identity().Role, roles) {
			continue
		}
		clients = append(clients, client)
	}
	return clients
}

// UserConnection returns the current personal-stream client for a user, or
// nil when the user has no indexed connection.
func (r *Registry) UserConnection(userID uuid.UUID) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID]
}

// Stats returns a diagnostic snapshot of the registry.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		VenueConnections: make(map[string]int, len(r.venues)),
		UserConnections:  len(r.users),
	}
	for venueID, channel := range r.venues {
		stats.VenueConnections[venueID.String()] = len(channel)
		stats.TotalConnections += len(channel)
	}
	stats.TotalConnections += len(r.users)
	return stats
}

func roleMatches(role domain.Role, roles []domain.Role) bool {
	for _, candidate := range roles {
		if role == candidate {
			return true
		}
	}
	return false
}
