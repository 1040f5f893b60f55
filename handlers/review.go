package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/database/repository"
	"atlastours/models"
)

// ReviewHandler serves public review listing and submission. Submitted
// reviews stay hidden until an admin approves them.
type ReviewHandler struct {
	Store repository.Storage
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(store repository.Storage) *ReviewHandler {
	return &ReviewHandler{Store: store}
}

// ListReviews returns approved reviews, optionally filtered by activity.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.Store.GetReviews(c.Request.Context(), c.Query("activityId"), true)
	if err != nil {
		zap.L().Error("Failed to fetch reviews", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type createReviewInput struct {
	ActivityID    string `json:"activityId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// CreateReview stores a pending review for an existing activity.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var input createReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	fields := make(map[string]string)
	if input.ActivityID == "" {
		fields["activityId"] = "activity is required"
	}
	if len(strings.TrimSpace(input.CustomerName)) < 2 {
		fields["customerName"] = "name is required (minimum 2 characters)"
	}
	if input.Rating < 1 || input.Rating > 5 {
		fields["rating"] = "rating must be between 1 and 5"
	}
	if strings.TrimSpace(input.Comment) == "" {
		fields["comment"] = "comment is required"
	} else if len(input.Comment) > 1000 {
		fields["comment"] = "comment must be at most 1000 characters"
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
		return
	}

	if _, err := h.Store.GetActivity(c.Request.Context(), input.ActivityID); err != nil {
		respondServiceError(c, err)
		return
	}

	created, err := h.Store.CreateReview(c.Request.Context(), models.Review{
		ActivityID:    input.ActivityID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: input.CustomerEmail,
		Rating:        input.Rating,
		Comment:       strings.TrimSpace(input.Comment),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
