package http

import (
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
)

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperrors.ErrTokenRequired, stdhttp.StatusUnauthorized, "TOKEN_REQUIRED"},
		{apperrors.ErrInvalidToken, stdhttp.StatusUnauthorized, "INVALID_TOKEN"},
		{apperrors.ErrVenueAccessDenied, stdhttp.StatusForbidden, "VENUE_ACCESS_DENIED"},
		{apperrors.ErrForbidden, stdhttp.StatusForbidden, "FORBIDDEN"},
		{apperrors.ErrVenueNotFound, stdhttp.StatusNotFound, "VENUE_NOT_FOUND"},
		{apperrors.ErrOrderNotFound, stdhttp.StatusNotFound, "ORDER_NOT_FOUND"},
		{apperrors.ErrNotFound, stdhttp.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("loading widget: %w", apperrors.ErrNotFound), stdhttp.StatusNotFound, "NOT_FOUND"},
		{apperrors.ErrInvalidStatusTransition, stdhttp.StatusBadRequest, "INVALID_STATUS_TRANSITION"},
		{apperrors.ErrVenueInactive, stdhttp.StatusBadRequest, "VENUE_INACTIVE"},
		{apperrors.ErrMissingConnectionScope, stdhttp.StatusBadRequest, "VALIDATION_ERROR"},
		{apperrors.ErrRateLimited, stdhttp.StatusTooManyRequests, "RATE_LIMITED"},
		{errors.New("disk on fire"), stdhttp.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	handler := NewErrorHandler(testLogger())

	for _, tt := range tests {
		t.Run(tt.wantCode+"/"+tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Handle(rec, httptest.NewRequest(stdhttp.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestErrorHandler_AppErrorPassesThrough(t *testing.T) {
	handler := NewErrorHandler(testLogger())

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(stdhttp.MethodGet, "/", nil),
		apperrors.NewInvalidTransitionError("pending", "served"))

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_TRANSITION", resp.Code)
	assert.Equal(t, "pending", resp.Details["from"])
	assert.Equal(t, "served", resp.Details["to"])
}
