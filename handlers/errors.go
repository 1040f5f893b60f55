package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/database/repository"
	"atlastours/services/booking"
	"atlastours/utils"
)

// respondServiceError translates service-layer errors into HTTP responses.
// Unrecognized errors become a generic 500 so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *booking.ValidationError
	var notFoundErr *booking.NotFoundError
	var conflictErr *booking.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repository.ErrDuplicateBooking):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already exists"})
	case errors.Is(err, utils.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		zap.L().Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
