package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/database/repository"
)

// AnalyticsHandler serves the admin dashboard aggregates.
type AnalyticsHandler struct {
	Store repository.Storage
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(store repository.Storage) *AnalyticsHandler {
	return &AnalyticsHandler{Store: store}
}

// Earnings returns current-month and last-month paid revenue.
func (h *AnalyticsHandler) Earnings(c *gin.Context) {
	earnings, err := h.Store.GetEarningsAnalytics(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to compute earnings analytics", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}

// Activities returns per-activity booking counts.
func (h *AnalyticsHandler) Activities(c *gin.Context) {
	analytics, err := h.Store.GetActivityAnalytics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// Bookings returns booking counts grouped by status.
func (h *AnalyticsHandler) Bookings(c *gin.Context) {
	analytics, err := h.Store.GetBookingAnalytics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// PriceComparison returns activities alongside their GetYourGuide reference
// prices.
func (h *AnalyticsHandler) PriceComparison(c *gin.Context) {
	activities, err := h.Store.GetPriceComparison(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}
