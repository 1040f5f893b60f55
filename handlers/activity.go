package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/database/repository"
)

// ActivityHandler serves the public activity catalog.
type ActivityHandler struct {
	Store repository.Storage
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(store repository.Storage) *ActivityHandler {
	return &ActivityHandler{Store: store}
}

// ListActivities returns the active catalog.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	activities, err := h.Store.GetActivities(c.Request.Context(), false)
	if err != nil {
		zap.L().Error("Failed to fetch activities", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// GetActivity returns a single activity. Inactive activities are hidden from
// the public catalog.
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activity, err := h.Store.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !activity.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// GetActivityRating returns the aggregate over approved reviews.
func (h *ActivityHandler) GetActivityRating(c *gin.Context) {
	rating, err := h.Store.GetActivityRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
