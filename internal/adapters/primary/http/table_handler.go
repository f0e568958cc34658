package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/menulink/emenu-backend/internal/adapters/primary/http/middleware"
	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// TableHandler handles table status changes.
type TableHandler struct {
	service      ports.TableService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewTableHandler creates a new table handler
func NewTableHandler(service ports.TableService, errorHandler *ErrorHandler, logger *slog.Logger) *TableHandler {
	return &TableHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes registers the table routes
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Patch("/{tableID}/status", h.HandleUpdateStatus)
}

// UpdateTableStatusRequest is the body for a table status change.
type UpdateTableStatusRequest struct {
	Status string `json:"status"`
}

// TableResponse is the wire shape of a table.
type TableResponse struct {
	ID      uuid.UUID `json:"id"`
	VenueID uuid.UUID `json:"venue_id"`
	Number  string    `json:"number"`
	Status  string    `json:"status"`
}

// HandleUpdateStatus changes a table's occupancy status and notifies the venue.
func (h *TableHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := mw.GetIdentity(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return
	}

	tableID, err := uuid.Parse(chi.URLParam(r, "tableID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrTableNotFound)
		return
	}

	var req UpdateTableStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	table, err := h.service.UpdateTableStatus(r.Context(), ports.UpdateTableStatusParams{
		TableID: tableID,
		Status:  domain.TableStatus(req.Status),
		Actor:   identity,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteSuccess(w, TableResponse{
		ID:      table.ID,
		VenueID: table.VenueID,
		Number:  table.Number,
		Status:  string(table.Status),
	})
}
