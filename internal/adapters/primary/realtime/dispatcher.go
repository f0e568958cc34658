package realtime

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/menulink/emenu-backend/internal/core/domain"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// Event type names on the wire.
const (
	EventConnectionEstablished = "connection_established"
	EventOrderCreated          = "order_created"
	EventOrderStatusUpdated    = "order_status_updated"
	EventTableStatusUpdated    = "table_status_updated"
	EventSystemNotification    = "system_notification"
	EventPong                  = "pong"
	EventVenueStatus           = "venue_status"
	EventNotifications         = "notifications"
)

// Event is the outbound wire envelope. Constructed fresh per emission and
// never mutated.
type Event struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// NewEvent builds an event envelope stamped with the current UTC time.
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Dispatcher turns domain events into wire messages and fans them out to
// the right audience. Publishing is fire-and-forget: failures prune the
// offending connection and are never surfaced to the caller.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.With("component", "notification_dispatcher"),
	}
}

// PublishOrderCreated announces a new order to the venue's staff. Customer
// connections are excluded from creation alerts.
func (d *Dispatcher) PublishOrderCreated(order *domain.Order, tableNumber string) {
	data := map[string]interface{}{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"venue_id":       order.VenueID,
		"total_amount":   order.TotalAmount,
		"table_id":       order.TableID,
		"table_number":   tableNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"customer_name":  order.CustomerName,
		"items_count":    len(order.Items),
		"created_at":     order.CreatedAt.Format(time.RFC3339),
	}

	d.broadcast(order.VenueID, NewEvent(EventOrderCreated, data), domain.StaffRoles...)
}

// PublishOrderStatusChanged announces a status transition to everyone on the
// venue's channel: dashboards and customer-facing widgets alike.
func (d *Dispatcher) PublishOrderStatusChanged(order *domain.Order, oldStatus, newStatus domain.OrderStatus, tableNumber string) {
	data := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"venue_id":     order.VenueID,
		"old_status":   oldStatus,
		"new_status":   newStatus,
		"table_number": tableNumber,
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	}

	d.broadcast(order.VenueID, NewEvent(EventOrderStatusUpdated, data))
}

// PublishTableStatusChanged announces a table status change to everyone on
// the venue's channel.
func (d *Dispatcher) PublishTableStatusChanged(table *domain.Table, oldStatus, newStatus domain.TableStatus) {
	data := map[string]interface{}{
		"table_id":     table.ID,
		"table_number": table.Number,
		"venue_id":     table.VenueID,
		"old_status":   oldStatus,
		"new_status":   newStatus,
		"capacity":     table.Capacity,
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	}

	d.broadcast(table.VenueID, NewEvent(EventTableStatusUpdated, data))
}

// PublishSystemNotice broadcasts an operational notice to a venue.
func (d *Dispatcher) PublishSystemNotice(venueID uuid.UUID, title, body string, extra map[string]interface{}) {
	if extra == nil {
		extra = map[string]interface{}{}
	}
	data := map[string]interface{}{
		"title":    title,
		"message":  body,
		"venue_id": venueID,
		"data":     extra,
	}

	d.broadcast(venueID, NewEvent(EventSystemNotification, data))
}

// SendDirect delivers a payload to a user's personal connection. A logged
// no-op when the user has no indexed connection.
func (d *Dispatcher) SendDirect(userID uuid.UUID, payload interface{}) {
	client := d.registry.UserConnection(userID)
	if client == nil {
		d.logger.Debug("no active connection for user", "user_id", userID)
		return
	}

	message, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("failed to serialize direct payload", "user_id", userID, "error", err)
		return
	}

	if !client.enqueue(message) {
		d.logger.Warn("direct send failed, pruning connection", "user_id", userID)
		d.registry.Remove(client)
	}
}

// broadcast serializes the event once and attempts delivery to each
// matching connection independently. A failed delivery prunes that
// connection from the registry and never aborts delivery to the others.
func (d *Dispatcher) broadcast(venueID uuid.UUID, event Event, roles ...domain.Role) {
	message, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to serialize event", "event_type", event.Type, "error", err)
		return
	}

	clients := d.registry.VenueSnapshot(venueID, roles...)
	if len(clients) == 0 {
		d.logger.Debug("no recipients for event", "event_type", event.Type, "venue_id", venueID)
		return
	}

	delivered := 0
	for _, client := range clients {
		if client.enqueue(message) {
			delivered++
			continue
		}

		d.logger.Warn("delivery failed, pruning connection",
			"event_type", event.Type,
			"venue_id", venueID,
			"user_id", client.Identity().UserID,
		)
		d.registry.Remove(client)
	}

	d.logger.Debug("event broadcast",
		"event_type", event.Type,
		"venue_id", venueID,
		"recipients", len(clients),
		"delivered", delivered,
	)
}
