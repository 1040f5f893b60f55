package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/database/repository"
	"atlastours/middleware"
	"atlastours/models"
	"atlastours/services/booking"
)

// AdminHandler encapsulates the back-office mutations. Every successful
// mutation appends an audit entry attributed to the acting admin.
type AdminHandler struct {
	Store    repository.Storage
	Bookings booking.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store repository.Storage, bookings booking.BookingService) *AdminHandler {
	return &AdminHandler{Store: store, Bookings: bookings}
}

// audit appends an entry after a successful mutation. Audit failures are
// logged, never surfaced to the caller.
func (h *AdminHandler) audit(c *gin.Context, action, details string) {
	session := middleware.CurrentSession(c)
	userID := ""
	if session != nil {
		userID = session.UserID
	}
	if _, err := h.Store.CreateAuditLog(c.Request.Context(), models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}); err != nil {
		zap.L().Warn("Failed to record audit entry",
			zap.String("action", action), zap.Error(err))
	}
}

// ListBookings returns all bookings joined with their activities.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Store.GetBookings(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch bookings", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking returns a single booking with its activity.
func (h *AdminHandler) GetBooking(c *gin.Context) {
	booked, err := h.Store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booked)
}

type statusInput struct {
	Status string `json:"status"`
}

// UpdateBookingStatus applies a lifecycle transition to a booking.
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	updated, err := h.Bookings.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "update_booking_status",
		fmt.Sprintf("booking %s set to %s", updated.ID, updated.Status))
	c.JSON(http.StatusOK, updated)
}

// UpdateBookingPayment records a payment against a booking.
func (h *AdminHandler) UpdateBookingPayment(c *gin.Context) {
	var input models.PaymentUpdate
	if err := c.ShouldBindJSON(&input); err != nil || input.PaymentStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentStatus is required"})
		return
	}

	updated, err := h.Bookings.UpdatePayment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "update_booking_payment",
		fmt.Sprintf("booking %s payment set to %s", updated.ID, updated.PaymentStatus))
	c.JSON(http.StatusOK, updated)
}

// ListAllActivities returns the catalog including inactive activities.
func (h *AdminHandler) ListAllActivities(c *gin.Context) {
	activities, err := h.Store.GetActivities(c.Request.Context(), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func validateActivity(activity models.Activity) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(activity.Name) == "" {
		fields["name"] = "name is required"
	}
	if activity.Price <= 0 {
		fields["price"] = "price must be positive"
	}
	return fields
}

// CreateActivity adds a catalog entry.
func (h *AdminHandler) CreateActivity(c *gin.Context) {
	var input models.Activity
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if fields := validateActivity(input); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
		return
	}

	created, err := h.Store.CreateActivity(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "create_activity", fmt.Sprintf("created activity %q (%s)", created.Name, created.ID))
	c.JSON(http.StatusCreated, created)
}

// UpdateActivity replaces a catalog entry.
func (h *AdminHandler) UpdateActivity(c *gin.Context) {
	var input models.Activity
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if fields := validateActivity(input); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
		return
	}

	updated, err := h.Store.UpdateActivity(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "update_activity", fmt.Sprintf("updated activity %q (%s)", updated.Name, updated.ID))
	c.JSON(http.StatusOK, updated)
}

// DeleteActivity removes a catalog entry. Superadmin only.
func (h *AdminHandler) DeleteActivity(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.DeleteActivity(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "delete_activity", fmt.Sprintf("deleted activity %s", id))
	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted"})
}

type gygPriceInput struct {
	Price float64 `json:"price"`
}

// UpdateGetYourGuidePrice stores the competitor reference price used by the
// price comparison view.
func (h *AdminHandler) UpdateGetYourGuidePrice(c *gin.Context) {
	var input gygPriceInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a non-negative price is required"})
		return
	}

	updated, err := h.Store.UpdateActivityGetYourGuidePrice(c.Request.Context(), c.Param("id"), input.Price)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "update_gyg_price",
		fmt.Sprintf("activity %s GetYourGuide price set to %.2f", updated.ID, input.Price))
	c.JSON(http.StatusOK, updated)
}

// ListAllReviews returns every review, approved or not.
func (h *AdminHandler) ListAllReviews(c *gin.Context) {
	reviews, err := h.Store.GetReviews(c.Request.Context(), c.Query("activityId"), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type approvalInput struct {
	Approved *bool `json:"approved"`
}

// UpdateReviewApproval publishes or hides a review.
func (h *AdminHandler) UpdateReviewApproval(c *gin.Context) {
	var input approvalInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Approved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved is required"})
		return
	}

	updated, err := h.Store.UpdateReviewApproval(c.Request.Context(), c.Param("id"), *input.Approved)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	verb := "hid"
	if updated.Approved {
		verb = "approved"
	}
	h.audit(c, "update_review_approval", fmt.Sprintf("%s review %s", verb, updated.ID))
	c.JSON(http.StatusOK, updated)
}

// ListAuditLogs returns the most recent audit entries.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	logs, err := h.Store.GetAuditLogs(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
