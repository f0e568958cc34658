package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/menulink/emenu-backend/internal/core/domain"
)

const (
	defaultWriteWait      = 10 * time.Second
	defaultPongWait       = 60 * time.Second
	defaultPingInterval   = 54 * time.Second
	defaultMaxMessageSize = 1024
	defaultSendBuffer     = 256
)

// Mode distinguishes what stream a connection is bound to.
type Mode string

const (
	// ModeVenue subscribes the connection to one venue's event stream.
	ModeVenue Mode = "venue"
	// ModeUser subscribes the connection to one user's personal stream.
	ModeUser Mode = "user"
)

// ClientConfig carries the transport tuning for a connection. Zero values
// fall back to defaults.
type ClientConfig struct {
	SendBuffer     int
	WriteWait      time.Duration
	PongWait       time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

func (c *ClientConfig) applyDefaults() {
	if c.SendBuffer <= 0 {
		c.SendBuffer = defaultSendBuffer
	}
	if c.WriteWait <= 0 {
		c.WriteWait = defaultWriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = defaultPongWait
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}
}

// Client is one admitted real-time session. The websocket connection itself
// is the identity; the resolved session identity is immutable for the
// client's lifetime.
type Client struct {
	conn     *websocket.Conn
	registry *Registry
	router   *Router

	identity    domain.Identity
	mode        Mode
	scopeID     uuid.UUID // venue ID or subscribed user ID, depending on mode
	connectedAt time.Time

	cfg    ClientConfig
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	send   chan []byte
}

// NewVenueClient creates a client bound to one venue's event stream.
func NewVenueClient(conn *websocket.Conn, venueID uuid.UUID, identity domain.Identity, registry *Registry, router *Router, cfg ClientConfig, logger *slog.Logger) *Client {
	return newClient(conn, ModeVenue, venueID, identity, registry, router, cfg, logger)
}

// NewUserClient creates a client bound to one user's personal stream.
func NewUserClient(conn *websocket.Conn, userID uuid.UUID, identity domain.Identity, registry *Registry, router *Router, cfg ClientConfig, logger *slog.Logger) *Client {
	return newClient(conn, ModeUser, userID, identity, registry, router, cfg, logger)
}

func newClient(conn *websocket.Conn, mode Mode, scopeID uuid.UUID, identity domain.Identity, registry *Registry, router *Router, cfg ClientConfig, logger *slog.Logger) *Client {
	cfg.applyDefaults()
	return &Client{
		conn:        conn,
		registry:    registry,
		router:      router,
		identity:    identity,
		mode:        mode,
		scopeID:     scopeID,
		connectedAt: time.Now().UTC(),
		cfg:         cfg,
		logger:      logger.With("user_id", identity.UserID.String(), "mode", string(mode)),
		send:        make(chan []byte, cfg.SendBuffer),
	}
}

// Identity returns the session identity resolved at admission time.
func (c *Client) Identity() domain.Identity { return c.identity }

// Mode returns whether the client is venue-bound or user-bound.
func (c *Client) Mode() Mode { return c.mode }

// VenueID returns the subscribed venue for venue-bound clients, uuid.Nil
// otherwise.
func (c *Client) VenueID() uuid.UUID {
	if c.mode == ModeVenue {
		return c.scopeID
	}
	return uuid.Nil
}

// UserID returns the subscribed user stream for user-bound clients, uuid.Nil
// otherwise.
func (c *Client) UserID() uuid.UUID {
	if c.mode == ModeUser {
		return c.scopeID
	}
	return uuid.Nil
}

// ConnectedAt returns when the client was created. Informational only.
func (c *Client) ConnectedAt() time.Time { return c.connectedAt }

// enqueue attempts to queue a pre-serialized message for delivery. It
// reports false when the client is closed or its send buffer is full; the
// caller decides whether that prunes the connection.
func (c *Client) enqueue(message []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// SendEvent serializes an event and queues it for delivery to this client.
// It reports false when the client is closed or its buffer is full.
func (c *Client) SendEvent(event Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to serialize event", "event_type", event.Type, "error", err)
		return false
	}
	return c.enqueue(payload)
}

// closeSend marks the client closed and closes the send channel exactly
// once. Safe to call concurrently with enqueue.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump pumps inbound frames from the websocket connection to the router.
// It runs in its own goroutine; every exit path removes the client from the
// registry.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.router.HandleFrame(c, message)
	}
}

// WritePump pumps queued messages to the websocket connection and keeps the
// peer alive with periodic pings. It runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The registry closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}
