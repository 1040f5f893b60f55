package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"atlastours/models"
)

func newSeededMemory(t *testing.T) Storage {
	t.Helper()
	store := NewMemoryStorage()
	require.NoError(t, store.SeedInitialData(context.Background()))
	return store
}

func createTestActivity(t *testing.T, store Storage, name string, price float64) *models.Activity {
	t.Helper()
	activity, err := store.CreateActivity(context.Background(), models.Activity{
		Name:     name,
		Price:    price,
		Category: "Adventure",
		IsActive: true,
	})
	require.NoError(t, err)
	return activity
}

func createTestBooking(t *testing.T, store Storage, activityID, phone string, date time.Time) *models.Booking {
	t.Helper()
	booked, err := store.CreateBooking(context.Background(), models.Booking{
		ActivityID:     activityID,
		CustomerName:   "Fatima Zahra",
		CustomerPhone:  phone,
		NumberOfPeople: 2,
		PreferredDate:  date,
		Status:         models.BookingPending,
		PaymentStatus:  models.PaymentUnpaid,
		TotalAmount:    900,
	})
	require.NoError(t, err)
	return booked
}

func TestSeedInitialData(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()

	activities, err := store.GetActivities(ctx, false)
	require.NoError(t, err)
	assert.Len(t, activities, 5)

	superadmin, err := store.GetUserByUsername(ctx, "nadia")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperadmin, superadmin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(superadmin.Password), []byte("changeme")))

	// Seeding again must not duplicate anything.
	require.NoError(t, store.SeedInitialData(ctx))
	activities, err = store.GetActivities(ctx, false)
	require.NoError(t, err)
	assert.Len(t, activities, 5)
}

func TestActivityVisibility(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()

	activity := createTestActivity(t, store, "Chez Ali Fantasia Show", 350)
	activity.IsActive = false
	_, err := store.UpdateActivity(ctx, activity.ID, *activity)
	require.NoError(t, err)

	public, err := store.GetActivities(ctx, false)
	require.NoError(t, err)
	all, err := store.GetActivities(ctx, true)
	require.NoError(t, err)
	assert.Len(t, public, 5)
	assert.Len(t, all, 6)
}

func TestUpdateActivityGetYourGuidePrice(t *testing.T) {
	store := newSeededMemory(t)
	activity := createTestActivity(t, store, "Majorelle Garden Tour", 120)

	updated, err := store.UpdateActivityGetYourGuidePrice(context.Background(), activity.ID, 180)
	require.NoError(t, err)
	assert.Equal(t, 180.0, updated.GetYourGuidePrice)

	_, err = store.UpdateActivityGetYourGuidePrice(context.Background(), "missing", 180)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingRejectsDuplicateTriple(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()
	activity := createTestActivity(t, store, "Atlas Mountains Trek", 300)
	date := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	createTestBooking(t, store, activity.ID, "+212612345678", date)

	_, err := store.CreateBooking(ctx, models.Booking{
		ActivityID:     activity.ID,
		CustomerName:   "Fatima Zahra",
		CustomerPhone:  "+212612345678",
		NumberOfPeople: 4,
		PreferredDate:  date,
		Status:         models.BookingPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	// Same customer on another date is a different reservation.
	_, err = store.CreateBooking(ctx, models.Booking{
		ActivityID:     activity.ID,
		CustomerName:   "Fatima Zahra",
		CustomerPhone:  "+212612345678",
		NumberOfPeople: 4,
		PreferredDate:  date.AddDate(0, 0, 1),
		Status:         models.BookingPending,
	})
	assert.NoError(t, err)
}

func TestFindBookingByDetails(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()
	activity := createTestActivity(t, store, "Palmeraie Camel Ride", 250)
	date := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	created := createTestBooking(t, store, activity.ID, "+212612345678", date)

	found, err := store.FindBookingByDetails(ctx, activity.ID, "+212612345678", date)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.FindBookingByDetails(ctx, activity.ID, "+212600000000", date)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookingsJoinsActivity(t *testing.T) {
	store := newSeededMemory(t)
	activity := createTestActivity(t, store, "Marrakech Food Tour", 280)
	createTestBooking(t, store, activity.ID, "+212612345678", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	bookings, err := store.GetBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.NotNil(t, bookings[0].Activity)
	assert.Equal(t, "Marrakech Food Tour", bookings[0].Activity.Name)
}

func TestUpdateBookingPayment(t *testing.T) {
	store := newSeededMemory(t)
	activity := createTestActivity(t, store, "Quad Biking Agafay", 400)
	booked := createTestBooking(t, store, activity.ID, "+212612345678", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	updated, err := store.UpdateBookingPayment(context.Background(), booked.ID, models.PaymentUpdate{
		PaymentStatus: models.PaymentDepositPaid,
		PaidAmount:    200,
		PaymentMethod: models.PaymentMethodCashDeposit,
		DepositAmount: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentDepositPaid, updated.PaymentStatus)
	assert.Equal(t, 200.0, updated.PaidAmount)
	assert.Equal(t, 200.0, updated.DepositAmount)
}

func TestReviewApprovalGating(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()
	activity := createTestActivity(t, store, "Bahia Palace Visit", 80)

	review, err := store.CreateReview(ctx, models.Review{
		ActivityID:   activity.ID,
		CustomerName: "Youssef",
		Rating:       5,
		Comment:      "Unforgettable experience",
		Approved:     true, // must be ignored on create
	})
	require.NoError(t, err)
	assert.False(t, review.Approved)

	public, err := store.GetReviews(ctx, activity.ID, true)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := store.GetReviews(ctx, activity.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = store.UpdateReviewApproval(ctx, review.ID, true)
	require.NoError(t, err)

	public, err = store.GetReviews(ctx, activity.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.NotNil(t, public[0].Activity)
	assert.Equal(t, "Bahia Palace Visit", public[0].Activity.Name)
}

func TestActivityRatingMeanOverApprovedOnly(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()
	activity := createTestActivity(t, store, "Saadian Tombs Tour", 60)

	for _, rating := range []int{4, 5, 3} {
		review, err := store.CreateReview(ctx, models.Review{
			ActivityID:   activity.ID,
			CustomerName: "Visitor",
			Rating:       rating,
			Comment:      "Great",
		})
		require.NoError(t, err)
		_, err = store.UpdateReviewApproval(ctx, review.ID, true)
		require.NoError(t, err)
	}
	// A pending review must not move the average.
	_, err := store.CreateReview(ctx, models.Review{
		ActivityID:   activity.ID,
		CustomerName: "Visitor",
		Rating:       1,
		Comment:      "Bad",
	})
	require.NoError(t, err)

	rating, err := store.GetActivityRating(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rating.AverageRating)
	assert.Equal(t, 3, rating.TotalReviews)

	empty, err := store.GetActivityRating(ctx, "no-reviews")
	require.NoError(t, err)
	assert.Zero(t, empty.AverageRating)
	assert.Zero(t, empty.TotalReviews)
}

func TestAuditLogOrderingAndCap(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()

	for i := 0; i < 105; i++ {
		_, err := store.CreateAuditLog(ctx, models.AuditLog{
			UserID:  "686000f2f5c4d141c7e87101",
			Action:  "update_booking_status",
			Details: fmt.Sprintf("entry %d", i),
		})
		require.NoError(t, err)
	}

	logs, err := store.GetAuditLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 100)
	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i-1].CreatedAt.Before(logs[i].CreatedAt), "logs must be newest first")
	}
}

func TestBookingAnalyticsCountsByStatus(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()
	activity := createTestActivity(t, store, "Menara Gardens Walk", 50)
	date := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	first := createTestBooking(t, store, activity.ID, "+212611111111", date)
	second := createTestBooking(t, store, activity.ID, "+212622222222", date)
	createTestBooking(t, store, activity.ID, "+212633333333", date)

	_, err := store.UpdateBookingStatus(ctx, first.ID, models.BookingConfirmed)
	require.NoError(t, err)
	_, err = store.UpdateBookingStatus(ctx, second.ID, models.BookingCancelled)
	require.NoError(t, err)

	analytics, err := store.GetBookingAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, analytics.Total)
	assert.Equal(t, 1, analytics.Pending)
	assert.Equal(t, 1, analytics.Confirmed)
	assert.Equal(t, 1, analytics.Cancelled)
	assert.Equal(t, 0, analytics.Completed)
}

func TestEarningsAnalyticsOnlyPaidBookings(t *testing.T) {
	store := newSeededMemory(t)
	ctx := context.Background()
	activity := createTestActivity(t, store, "Koutoubia Walking Tour", 90)
	date := time.Now().UTC().AddDate(0, 0, 7)

	paid := createTestBooking(t, store, activity.ID, "+212611111111", date)
	createTestBooking(t, store, activity.ID, "+212622222222", date)

	_, err := store.UpdateBookingPayment(ctx, paid.ID, models.PaymentUpdate{
		PaymentStatus: models.PaymentFullyPaid,
		PaidAmount:    900,
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	earnings, err := store.GetEarningsAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900.0, earnings.CurrentMonth)
	assert.Equal(t, 0.0, earnings.LastMonth)
	assert.Equal(t, "MAD", earnings.Currency)
}

func TestActivityAnalyticsBookingCounts(t *testing.T) {
	store := newSeededMemory(t)
	activity := createTestActivity(t, store, "Anima Garden Visit", 130)
	date := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	createTestBooking(t, store, activity.ID, "+212611111111", date)
	createTestBooking(t, store, activity.ID, "+212622222222", date)

	analytics, err := store.GetActivityAnalytics(context.Background())
	require.NoError(t, err)

	found := false
	for _, entry := range analytics {
		if entry.ID == activity.ID {
			found = true
			assert.Equal(t, 2, entry.BookingCount)
		} else {
			assert.Equal(t, 0, entry.BookingCount)
		}
	}
	assert.True(t, found)
}
