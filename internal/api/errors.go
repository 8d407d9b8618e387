package api

import (
	"errors"
	"net/http"

	"github.com/visitly/visitly/internal/api/shared"
	"github.com/visitly/visitly/internal/domain"
	"github.com/visitly/visitly/internal/ledger"
	"github.com/visitly/visitly/internal/service"
	"github.com/visitly/visitly/internal/service/auth"
	"github.com/visitly/visitly/internal/store"
	"github.com/visitly/visitly/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrBanned),
		errors.Is(err, task.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyProcessed):
		return http.StatusConflict

	// Admission errors
	case errors.Is(err, task.ErrServerBusy):
		return http.StatusServiceUnavailable

	// Bad request errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, ledger.ErrInsufficientCoins),
		errors.Is(err, task.ErrUserTaskLimit),
		errors.Is(err, domain.ErrNonPositiveVisits),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrBanned):
		return "Account banned"

	case errors.Is(err, task.ErrForbidden):
		return "Forbidden"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrRedemptionNotFound):
		return "Redemption not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username exists"

	case errors.Is(err, store.ErrSignupOriginExists):
		return "One account per ip/device allowed"

	case errors.Is(err, ledger.ErrInsufficientCoins):
		return "Insufficient coins"

	case errors.Is(err, task.ErrUserTaskLimit):
		return "Max concurrent tasks reached"

	case errors.Is(err, task.ErrServerBusy):
		return "Server busy"

	case errors.Is(err, service.ErrAlreadyProcessed):
		return "Already processed"

	case errors.Is(err, domain.ErrNonPositiveVisits):
		return "Visits must be positive"

	case errors.Is(err, domain.ErrNonPositiveAmount):
		return "Amount must be positive"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// respondMappedError maps err through the taxonomy and writes the response.
func respondMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
}
