package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/menulink/emenu-backend/internal/adapters/primary/realtime"
	"github.com/menulink/emenu-backend/internal/config"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// WebSocketHandler upgrades HTTP requests into real-time connections and
// runs admission. Every rejection happens after the upgrade, as a policy
// violation close frame with a human-readable reason, so browser clients
// can read why they were turned away.
type WebSocketHandler struct {
	registry *realtime.Registry
	router   *realtime.Router
	authn    ports.Authenticator
	upgrader websocket.Upgrader
	cliCfg   realtime.ClientConfig
	logger   *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	registry *realtime.Registry,
	router *realtime.Router,
	authn ports.Authenticator,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		registry: registry,
		router:   router,
		authn:    authn,
		cliCfg: realtime.ClientConfig{
			SendBuffer:   cfg.WebSocket.SendBufferSize,
			PongWait:     cfg.WebSocket.PongWait,
			PingInterval: cfg.WebSocket.PingInterval,
		},
		logger: logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:] // Remove the "*", keep ".example.com"
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeCombined handles the combined endpoint where the connection scope
// comes from mutually exclusive venue_id / user_id query parameters.
func (h *WebSocketHandler) ServeCombined(w http.ResponseWriter, r *http.Request) {
	venueParam := r.URL.Query().Get("venue_id")
	userParam := r.URL.Query().Get("user_id")

	conn, ok := h.upgrade(w, r)
	if !ok {
		return
	}

	if (venueParam == "") == (userParam == "") {
		h.reject(conn, r, apperrors.ErrMissingConnectionScope)
		return
	}

	if venueParam != "" {
		venueID, err := uuid.Parse(venueParam)
		if err != nil {
			h.reject(conn, r, apperrors.ErrVenueNotFound)
			return
		}
		h.admitVenue(conn, r, venueID)
		return
	}

	userID, err := uuid.Parse(userParam)
	if err != nil {
		h.reject(conn, r, apperrors.ErrUserAccessDenied)
		return
	}
	h.admitUser(conn, r, userID)
}

// ServeVenue handles venue stream connections at /ws/venue/{venueID}.
func (h *WebSocketHandler) ServeVenue(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "venueID"))
	if err != nil {
		conn, ok := h.upgrade(w, r)
		if ok {
			h.reject(conn, r, apperrors.ErrVenueNotFound)
		}
		return
	}

	conn, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	h.admitVenue(conn, r, venueID)
}

// ServeUser handles personal stream connections at /ws/user/{userID}.
func (h *WebSocketHandler) ServeUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		conn, ok := h.upgrade(w, r)
		if ok {
			h.reject(conn, r, apperrors.ErrUserAccessDenied)
		}
		return
	}

	conn, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	h.admitUser(conn, r, userID)
}

func (h *WebSocketHandler) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", GetRequestID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		return nil, false
	}
	return conn, true
}

func (h *WebSocketHandler) admitVenue(conn *websocket.Conn, r *http.Request, venueID uuid.UUID) {
	identity, err := h.authn.Resolve(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.reject(conn, r, err)
		return
	}

	client := realtime.NewVenueClient(conn, venueID, identity, h.registry, h.router, h.cliCfg, h.logger)
	if err := h.registry.AdmitVenue(r.Context(), client); err != nil {
		h.reject(conn, r, err)
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", GetRequestID(r.Context()),
		"user_id", identity.UserID,
		"venue_id", venueID,
		"remote_addr", r.RemoteAddr,
	)

	client.SendEvent(realtime.NewEvent(realtime.EventConnectionEstablished, map[string]interface{}{
		"venue_id": venueID.String(),
		"user_id":  identity.UserID.String(),
		"role":     string(identity.Role),
	}))

	go client.WritePump()
	go client.ReadPump()
}

func (h *WebSocketHandler) admitUser(conn *websocket.Conn, r *http.Request, userID uuid.UUID) {
	identity, err := h.authn.Resolve(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.reject(conn, r, err)
		return
	}

	client := realtime.NewUserClient(conn, userID, identity, h.registry, h.router, h.cliCfg, h.logger)
	if err := h.registry.AdmitUser(r.Context(), client); err != nil {
		h.reject(conn, r, err)
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", GetRequestID(r.Context()),
		"user_id", userID,
		"remote_addr", r.RemoteAddr,
	)

	client.SendEvent(realtime.NewEvent(realtime.EventConnectionEstablished, map[string]interface{}{
		"user_id": userID.String(),
		"role":    string(identity.Role),
	}))

	go client.WritePump()
	go client.ReadPump()
}

// reject closes an already-upgraded connection with a policy violation
// frame carrying a human-readable reason. Nothing gets registered.
func (h *WebSocketHandler) reject(conn *websocket.Conn, r *http.Request, err error) {
	reason := closeReason(err)

	h.logger.Warn("websocket connection rejected",
		"request_id", GetRequestID(r.Context()),
		"remote_addr", r.RemoteAddr,
		"reason", reason,
	)

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		deadline,
	)
	_ = conn.Close()
}

// closeReason maps admission errors to the reason text sent in the close frame.
func closeReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTokenRequired):
		return "Authentication token required"
	case errors.Is(err, apperrors.ErrInvalidToken):
		return "Invalid authentication token"
	case errors.Is(err, apperrors.ErrVenueAccessDenied):
		return "Access denied to this venue"
	case errors.Is(err, apperrors.ErrUserAccessDenied):
		return "Access denied"
	case errors.Is(err, apperrors.ErrVenueNotFound):
		return "Venue not found"
	case errors.Is(err, apperrors.ErrVenueInactive):
		return "Venue is not active"
	case errors.Is(err, apperrors.ErrMissingConnectionScope):
		return "Either venue_id or user_id must be provided"
	default:
		return "Connection rejected"
	}
}
