package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/menulink/emenu-backend/internal/adapters/primary/http/middleware"
	"github.com/menulink/emenu-backend/internal/adapters/primary/realtime"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// WSAdminHandler exposes the registry's observability surface and manual
// publish endpoints used by venue dashboards and during rollout testing.
type WSAdminHandler struct {
	registry     *realtime.Registry
	publisher    ports.EventPublisher
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewWSAdminHandler creates a new websocket admin handler
func NewWSAdminHandler(
	registry *realtime.Registry,
	publisher ports.EventPublisher,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *WSAdminHandler {
	return &WSAdminHandler{
		registry:     registry,
		publisher:    publisher,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes registers the websocket admin routes
func (h *WSAdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.HandleStats)
	r.Post("/venue/{venueID}/notify", h.HandleNotifyVenue)
	r.Post("/user/{userID}/notify", h.HandleNotifyUser)
}

// HandleStats returns current connection counts.
func (h *WSAdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := mw.GetIdentity(r.Context())
	if !ok || !identity.Role.IsStaff() {
		h.errorHandler.Handle(w, r, apperrors.ErrForbidden)
		return
	}

	WriteSuccess(w, h.registry.Stats())
}

// NotifyVenueRequest is the body for a manual venue broadcast.
type NotifyVenueRequest struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// HandleNotifyVenue broadcasts a system notification to every connection on
// a venue channel.
func (h *WSAdminHandler) HandleNotifyVenue(w http.ResponseWriter, r *http.Request) {
	identity, ok := mw.GetIdentity(r.Context())
	if !ok || !identity.Role.IsStaff() {
		h.errorHandler.Handle(w, r, apperrors.ErrForbidden)
		return
	}

	venueID, err := uuid.Parse(chi.URLParam(r, "venueID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrVenueNotFound)
		return
	}

	if !identity.CanAccessVenue(venueID) {
		h.errorHandler.Handle(w, r, apperrors.ErrVenueAccessDenied)
		return
	}

	var req NotifyVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}
	if req.Title == "" {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Title is required"))
		return
	}

	h.publisher.PublishSystemNotice(venueID, req.Title, req.Body, req.Extra)

	WriteJSON(w, http.StatusAccepted, SuccessResponse{Message: "notification dispatched"})
}

// NotifyUserRequest is the body for a direct user message.
type NotifyUserRequest struct {
	Payload map[string]interface{} `json:"payload"`
}

// HandleNotifyUser sends a payload to one user's personal connection, if any.
func (h *WSAdminHandler) HandleNotifyUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := mw.GetIdentity(r.Context())
	if !ok || !identity.Role.IsStaff() {
		h.errorHandler.Handle(w, r, apperrors.ErrForbidden)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrUserNotFound)
		return
	}

	var req NotifyUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	h.publisher.SendDirect(userID, req.Payload)

	WriteJSON(w, http.StatusAccepted, SuccessResponse{Message: "message dispatched"})
}
