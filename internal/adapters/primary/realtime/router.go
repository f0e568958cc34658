package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/menulink/emenu-backend/internal/core/ports"
)

// frameKind is the closed set of inbound message types, decoded once at the
// boundary. Anything else maps to frameUnknown.
type frameKind int

const (
	frameUnknown frameKind = iota
	framePing
	frameVenueStatus
	frameNotifications
)

func parseFrameKind(frameType string) frameKind {
	switch frameType {
	case "ping":
		return framePing
	case "get_venue_status":
		return frameVenueStatus
	case "get_notifications":
		return frameNotifications
	default:
		return frameUnknown
	}
}

// clientFrame is the inbound wire shape: {"type": ..., "payload": {...}}.
type clientFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Router interprets inbound frames from already-admitted connections.
// Malformed or unknown frames are logged and ignored, never fatal.
type Router struct {
	status ports.VenueStatusProvider
	logger *slog.Logger
}

// NewRouter creates a message router. The status provider backs the
// get_venue_status reply.
func NewRouter(status ports.VenueStatusProvider, logger *slog.Logger) *Router {
	return &Router{
		status: status,
		logger: logger.With("component", "message_router"),
	}
}

// HandleFrame processes one raw inbound frame from a client.
func (rt *Router) HandleFrame(client *Client, raw []byte) {
	var frame clientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		rt.logger.Warn("discarding malformed frame", "user_id", client.Identity().UserID, "error", err)
		return
	}

	switch parseFrameKind(frame.Type) {
	case framePing:
		rt.reply(client, NewEvent(EventPong, nil))

	case frameVenueStatus:
		rt.handleVenueStatus(client)

	case frameNotifications:
		rt.handleNotifications(client)

	default:
		rt.logger.Debug("ignoring unknown frame type", "type", frame.Type, "user_id", client.Identity().UserID)
	}
}

// handleVenueStatus answers a status pull with a live snapshot computed from
// the order and table collaborators, bypassing any cache. Only valid on
// venue-bound connections.
func (rt *Router) handleVenueStatus(client *Client) {
	if client.Mode() != ModeVenue {
		rt.logger.Debug("get_venue_status on non-venue connection", "user_id", client.Identity().UserID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := rt.status.VenueStatus(ctx, client.VenueID())
	if err != nil {
		rt.logger.Error("failed to compute venue status", "venue_id", client.VenueID(), "error", err)
		return
	}

	rt.reply(client, NewEvent(EventVenueStatus, map[string]interface{}{
		"venue_id":            status.VenueID,
		"active_orders_count": status.ActiveOrders,
		"total_tables":        status.TotalTables,
		"occupied_tables":     status.OccupiedTables,
	}))
}

// handleNotifications answers with the user's notification feed. Only valid
// on user-bound connections. The feed itself is a placeholder: it returns an
// empty list until a persistent notification store exists.
func (rt *Router) handleNotifications(client *Client) {
	if client.Mode() != ModeUser {
		rt.logger.Debug("get_notifications on non-user connection", "user_id", client.Identity().UserID)
		return
	}

	rt.reply(client, NewEvent(EventNotifications, map[string]interface{}{
		"user_id":       client.UserID(),
		"notifications": []interface{}{},
	}))
}

func (rt *Router) reply(client *Client, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		rt.logger.Error("failed to serialize reply", "event_type", event.Type, "error", err)
		return
	}

	if !client.enqueue(message) {
		rt.logger.Debug("reply dropped, send buffer full", "event_type", event.Type, "user_id", client.Identity().UserID)
	}
}
