package repository

import (
	"context"
	"errors"
	"time"

	"atlastours/models"
)

// ErrNotFound signals an unknown entity id. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateBooking signals that a booking with the same
// (activityId, customerPhone, preferredDate) triple already exists.
var ErrDuplicateBooking = errors.New("booking already exists")

// Storage is the single gateway between the API layer and persistence. No
// other component writes to the database directly.
type Storage interface {
	// Users (admin accounts).
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, password, role string) (*models.User, error)

	// Activities. Public reads see only active activities.
	GetActivities(ctx context.Context, includeInactive bool) ([]models.Activity, error)
	GetActivity(ctx context.Context, id string) (*models.Activity, error)
	CreateActivity(ctx context.Context, activity models.Activity) (*models.Activity, error)
	UpdateActivity(ctx context.Context, id string, activity models.Activity) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	UpdateActivityGetYourGuidePrice(ctx context.Context, id string, price float64) (*models.Activity, error)

	// Bookings.
	GetBookings(ctx context.Context) ([]models.BookingWithActivity, error)
	GetBooking(ctx context.Context, id string) (*models.BookingWithActivity, error)
	FindBookingByDetails(ctx context.Context, activityID, customerPhone string, preferredDate time.Time) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error)
	UpdateBookingPayment(ctx context.Context, id string, payment models.PaymentUpdate) (*models.Booking, error)

	// Reviews.
	GetReviews(ctx context.Context, activityID string, approvedOnly bool) ([]models.ReviewWithActivity, error)
	GetReview(ctx context.Context, id string) (*models.Review, error)
	CreateReview(ctx context.Context, review models.Review) (*models.Review, error)
	UpdateReviewApproval(ctx context.Context, id string, approved bool) (*models.Review, error)
	GetActivityRating(ctx context.Context, activityID string) (models.ActivityRating, error)

	// Audit log (append-only).
	CreateAuditLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error)
	GetAuditLogs(ctx context.Context) ([]models.AuditLog, error)

	// Analytics.
	GetEarningsAnalytics(ctx context.Context) (models.EarningsAnalytics, error)
	GetActivityAnalytics(ctx context.Context) ([]models.ActivityAnalytics, error)
	GetBookingAnalytics(ctx context.Context) (models.BookingAnalytics, error)
	GetPriceComparison(ctx context.Context) ([]models.Activity, error)

	// SeedInitialData creates the default admin accounts and catalog when
	// the store is empty.
	SeedInitialData(ctx context.Context) error
}
