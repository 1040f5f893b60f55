package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"atlastours/models"
	"atlastours/utils"
)

// FailoverStorage routes calls to the primary storage through a circuit
// breaker and degrades to the in-memory fallback when the primary becomes
// unreachable. A transient primary failure is served from the fallback for
// that call only; once the breaker opens the switch is permanent for the
// process lifetime: durability is traded for availability, and a restart is
// required to return to the primary. Domain errors (not found, duplicate)
// pass through without counting as failures.
type FailoverStorage struct {
	primary  Storage
	fallback Storage
	breaker  *utils.CircuitBreaker
	logger   *zap.Logger
	degraded atomic.Bool
	seedOnce sync.Once
}

func NewFailoverStorage(primary, fallback Storage, breaker *utils.CircuitBreaker, logger *zap.Logger) *FailoverStorage {
	return &FailoverStorage{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

// Degraded reports whether the fallback dataset is serving.
func (f *FailoverStorage) Degraded() bool {
	return f.degraded.Load()
}

// Breaker exposes the guard for health reporting.
func (f *FailoverStorage) Breaker() *utils.CircuitBreaker {
	return f.breaker
}

// call runs op against the primary under the breaker, or against the
// fallback once degraded. A failed primary call is answered from the
// fallback either way; the permanent switch happens only when the breaker
// has opened, so a single transient failure does not abandon the primary.
func (f *FailoverStorage) call(op func(Storage) error) error {
	if !f.degraded.Load() {
		var domainErr error
		err := f.breaker.Execute(func() error {
			err := op(f.primary)
			if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateBooking) {
				domainErr = err
				return nil
			}
			return err
		})
		if err == nil {
			return domainErr
		}
		if errors.Is(err, utils.ErrCircuitOpen) || f.breaker.State() == utils.BreakerOpen {
			f.degrade(err)
		} else {
			f.logger.Warn("Primary storage call failed, serving from in-memory fallback",
				zap.Error(err),
				zap.Int("failures", f.breaker.FailureCount()))
			f.seedFallback()
		}
	}
	return op(f.fallback)
}

func (f *FailoverStorage) degrade(cause error) {
	if f.degraded.CompareAndSwap(false, true) {
		f.logger.Error("Primary storage unavailable, switching to in-memory fallback for the remainder of the process",
			zap.Error(cause))
		f.seedFallback()
	}
}

func (f *FailoverStorage) seedFallback() {
	f.seedOnce.Do(func() {
		if err := f.fallback.SeedInitialData(context.Background()); err != nil {
			f.logger.Error("Failed to seed fallback dataset", zap.Error(err))
		}
	})
}

// failover adapts call for operations returning a value.
func failover[T any](f *FailoverStorage, op func(Storage) (T, error)) (T, error) {
	var out T
	err := f.call(func(s Storage) error {
		var opErr error
		out, opErr = op(s)
		return opErr
	})
	return out, err
}

func (f *FailoverStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	return failover(f, func(s Storage) (*models.User, error) { return s.GetUser(ctx, id) })
}

func (f *FailoverStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return failover(f, func(s Storage) (*models.User, error) { return s.GetUserByUsername(ctx, username) })
}

func (f *FailoverStorage) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	return failover(f, func(s Storage) (*models.User, error) { return s.CreateUser(ctx, username, password, role) })
}

func (f *FailoverStorage) GetActivities(ctx context.Context, includeInactive bool) ([]models.Activity, error) {
	return failover(f, func(s Storage) ([]models.Activity, error) { return s.GetActivities(ctx, includeInactive) })
}

func (f *FailoverStorage) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	return failover(f, func(s Storage) (*models.Activity, error) { return s.GetActivity(ctx, id) })
}

func (f *FailoverStorage) CreateActivity(ctx context.Context, activity models.Activity) (*models.Activity, error) {
	return failover(f, func(s Storage) (*models.Activity, error) { return s.CreateActivity(ctx, activity) })
}

func (f *FailoverStorage) UpdateActivity(ctx context.Context, id string, activity models.Activity) (*models.Activity, error) {
	return failover(f, func(s Storage) (*models.Activity, error) { return s.UpdateActivity(ctx, id, activity) })
}

func (f *FailoverStorage) DeleteActivity(ctx context.Context, id string) error {
	return f.call(func(s Storage) error { return s.DeleteActivity(ctx, id) })
}

func (f *FailoverStorage) UpdateActivityGetYourGuidePrice(ctx context.Context, id string, price float64) (*models.Activity, error) {
	return failover(f, func(s Storage) (*models.Activity, error) {
		return s.UpdateActivityGetYourGuidePrice(ctx, id, price)
	})
}

func (f *FailoverStorage) GetBookings(ctx context.Context) ([]models.BookingWithActivity, error) {
	return failover(f, func(s Storage) ([]models.BookingWithActivity, error) { return s.GetBookings(ctx) })
}

func (f *FailoverStorage) GetBooking(ctx context.Context, id string) (*models.BookingWithActivity, error) {
	return failover(f, func(s Storage) (*models.BookingWithActivity, error) { return s.GetBooking(ctx, id) })
}

func (f *FailoverStorage) FindBookingByDetails(ctx context.Context, activityID, customerPhone string, preferredDate time.Time) (*models.Booking, error) {
	return failover(f, func(s Storage) (*models.Booking, error) {
		return s.FindBookingByDetails(ctx, activityID, customerPhone, preferredDate)
	})
}

func (f *FailoverStorage) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	return failover(f, func(s Storage) (*models.Booking, error) { return s.CreateBooking(ctx, booking) })
}

func (f *FailoverStorage) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	return failover(f, func(s Storage) (*models.Booking, error) { return s.UpdateBookingStatus(ctx, id, status) })
}

func (f *FailoverStorage) UpdateBookingPayment(ctx context.Context, id string, payment models.PaymentUpdate) (*models.Booking, error) {
	return failover(f, func(s Storage) (*models.Booking, error) { return s.UpdateBookingPayment(ctx, id, payment) })
}

func (f *FailoverStorage) GetReviews(ctx context.Context, activityID string, approvedOnly bool) ([]models.ReviewWithActivity, error) {
	return failover(f, func(s Storage) ([]models.ReviewWithActivity, error) {
		return s.GetReviews(ctx, activityID, approvedOnly)
	})
}

func (f *FailoverStorage) GetReview(ctx context.Context, id string) (*models.Review, error) {
	return failover(f, func(s Storage) (*models.Review, error) { return s.GetReview(ctx, id) })
}

func (f *FailoverStorage) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	return failover(f, func(s Storage) (*models.Review, error) { return s.CreateReview(ctx, review) })
}

func (f *FailoverStorage) UpdateReviewApproval(ctx context.Context, id string, approved bool) (*models.Review, error) {
	return failover(f, func(s Storage) (*models.Review, error) { return s.UpdateReviewApproval(ctx, id, approved) })
}

func (f *FailoverStorage) GetActivityRating(ctx context.Context, activityID string) (models.ActivityRating, error) {
	return failover(f, func(s Storage) (models.ActivityRating, error) { return s.GetActivityRating(ctx, activityID) })
}

func (f *FailoverStorage) CreateAuditLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error) {
	return failover(f, func(s Storage) (*models.AuditLog, error) { return s.CreateAuditLog(ctx, entry) })
}

func (f *FailoverStorage) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	return failover(f, func(s Storage) ([]models.AuditLog, error) { return s.GetAuditLogs(ctx) })
}

func (f *FailoverStorage) GetEarningsAnalytics(ctx context.Context) (models.EarningsAnalytics, error) {
	return failover(f, func(s Storage) (models.EarningsAnalytics, error) { return s.GetEarningsAnalytics(ctx) })
}

func (f *FailoverStorage) GetActivityAnalytics(ctx context.Context) ([]models.ActivityAnalytics, error) {
	return failover(f, func(s Storage) ([]models.ActivityAnalytics, error) { return s.GetActivityAnalytics(ctx) })
}

func (f *FailoverStorage) GetBookingAnalytics(ctx context.Context) (models.BookingAnalytics, error) {
	return failover(f, func(s Storage) (models.BookingAnalytics, error) { return s.GetBookingAnalytics(ctx) })
}

func (f *FailoverStorage) GetPriceComparison(ctx context.Context) ([]models.Activity, error) {
	return failover(f, func(s Storage) ([]models.Activity, error) { return s.GetPriceComparison(ctx) })
}

func (f *FailoverStorage) SeedInitialData(ctx context.Context) error {
	return f.call(func(s Storage) error { return s.SeedInitialData(ctx) })
}
