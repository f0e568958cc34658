package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("action forbidden")
	ErrTokenRequired = errors.New("authentication token required")
	ErrInvalidToken  = errors.New("invalid authentication token")

	// Real-time admission
	ErrVenueAccessDenied      = errors.New("access denied to this venue")
	ErrUserAccessDenied       = errors.New("access denied")
	ErrVenueInactive          = errors.New("venue is not active")
	ErrMissingConnectionScope = errors.New("either venue_id or user_id must be provided")

	// Venue / table validation
	ErrVenueNotFound      = errors.New("venue not found")
	ErrVenueIDRequired    = errors.New("venue ID is required")
	ErrTableNotFound      = errors.New("table not found")
	ErrInvalidTableStatus = errors.New("invalid table status")
	ErrTableVenueMismatch = errors.New("table does not belong to the specified venue")

	// Order validation
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderItemsRequired      = errors.New("order must contain at least one item")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// User validation
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is not active")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Message:    message,
		Code:       "FORBIDDEN",
		StatusCode: 403,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

// NewInvalidTransitionError reports an order status transition rejected by
// the lifecycle table.
func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Err:        ErrInvalidStatusTransition,
		Message:    fmt.Sprintf("Invalid status transition from %s to %s", from, to),
		Code:       "INVALID_TRANSITION",
		StatusCode: 400,
		Details:    map[string]interface{}{"from": from, "to": to},
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}
