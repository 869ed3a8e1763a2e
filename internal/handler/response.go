package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrRideNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrOriginRequired),
		errors.Is(err, service.ErrDestinationRequired),
		errors.Is(err, service.ErrAddressRequired),
		errors.Is(err, service.ErrAddressTooShort),
		errors.Is(err, service.ErrSameOriginDestination),
		errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrEmailAlreadyUsed),
		errors.Is(err, service.ErrRideNotAvailable),
		errors.Is(err, service.ErrRideNotUpdatable),
		errors.Is(err, service.ErrInvalidRideState),
		errors.Is(err, service.ErrRideCannotBeCancelled),
		errors.Is(err, service.ErrDriverNotAvailable),
		errors.Is(err, service.ErrCategoryMismatch),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrMissingData):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotAPassenger),
		errors.Is(err, service.ErrNotADriver),
		errors.Is(err, service.ErrDriverNotAssigned):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
