package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"busbook/internal/pricing"
	"busbook/internal/repository"
	"busbook/internal/service"
)

// ErrorResponse represents an error response. Redirect names the stage
// the client should show when the booking flow was sent back.
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	resp := ErrorResponse{Error: err.Error()}
	if errors.Is(err, service.ErrStagePrerequisite) {
		resp.Redirect = "home"
	}
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		resp.Error = "internal server error"
	}
	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// badRequest sends a 400 with a fixed message.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrPromoNotFound),
		errors.Is(err, service.ErrSeatNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidSearch),
		errors.Is(err, service.ErrBusNotInResults),
		errors.Is(err, service.ErrInvalidPickupDrop),
		errors.Is(err, service.ErrNoSeatsSelected),
		errors.Is(err, service.ErrPassengerCountMismatch),
		errors.Is(err, service.ErrInvalidPassenger),
		errors.Is(err, service.ErrInvalidPromo),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidBus),
		errors.Is(err, service.ErrInvalidTrip),
		errors.Is(err, pricing.ErrPromoInactive),
		errors.Is(err, pricing.ErrPromoNotStarted),
		errors.Is(err, pricing.ErrPromoExpired),
		errors.Is(err, pricing.ErrPromoUsageExceeded),
		errors.Is(err, pricing.ErrPromoBelowMinimum):
		return http.StatusBadRequest

	// Auth errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrStagePrerequisite),
		errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrSeatUnavailable),
		errors.Is(err, service.ErrSeatLimitReached),
		errors.Is(err, service.ErrTripCancelled),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrInUse):
		return http.StatusConflict

	// Payment declined
	case errors.Is(err, service.ErrPaymentFailed):
		return http.StatusPaymentRequired

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
