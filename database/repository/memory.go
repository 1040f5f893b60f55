package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"atlastours/models"
)

// memoryStorage is the process-local fallback dataset. It honors the same
// contract as the MongoDB storage; durability is lost on restart.
type memoryStorage struct {
	mu         sync.RWMutex
	users      map[string]models.User
	activities map[string]models.Activity
	bookings   map[string]models.Booking
	reviews    map[string]models.Review
	auditLogs  []models.AuditLog
}

// NewMemoryStorage returns an empty in-memory storage. Call SeedInitialData
// to load the default catalog and admin accounts.
func NewMemoryStorage() Storage {
	return &memoryStorage{
		users:      make(map[string]models.User),
		activities: make(map[string]models.Activity),
		bookings:   make(map[string]models.Booking),
		reviews:    make(map[string]models.Review),
	}
}

func (m *memoryStorage) SeedInitialData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if len(m.users) == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword()), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		for _, su := range seedUsers() {
			m.users[su.ID] = models.User{
				ID:        su.ID,
				Username:  su.Username,
				Password:  string(hash),
				Role:      su.Role,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
	}
	if len(m.activities) == 0 {
		for _, a := range seedActivities(now) {
			m.activities[a.ID] = a
		}
	}
	return nil
}

// Users

func (m *memoryStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *memoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryStorage) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Password:  string(hash),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users[user.ID] = user
	return &user, nil
}

// Activities

func (m *memoryStorage) GetActivities(ctx context.Context, includeInactive bool) ([]models.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	activities := make([]models.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		if includeInactive || a.IsActive {
			activities = append(activities, a)
		}
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].Name < activities[j].Name })
	return activities, nil
}

func (m *memoryStorage) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	activity, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &activity, nil
}

func (m *memoryStorage) CreateActivity(ctx context.Context, activity models.Activity) (*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.Currency == "" {
		activity.Currency = "MAD"
	}
	activity.CreatedAt = now
	activity.UpdatedAt = now
	m.activities[activity.ID] = activity
	return &activity, nil
}

func (m *memoryStorage) UpdateActivity(ctx context.Context, id string, activity models.Activity) (*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	activity.ID = id
	activity.CreatedAt = existing.CreatedAt
	activity.UpdatedAt = time.Now().UTC()
	if activity.Currency == "" {
		activity.Currency = existing.Currency
	}
	m.activities[id] = activity
	return &activity, nil
}

func (m *memoryStorage) DeleteActivity(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activities[id]; !ok {
		return ErrNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *memoryStorage) UpdateActivityGetYourGuidePrice(ctx context.Context, id string, price float64) (*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	activity, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	activity.GetYourGuidePrice = price
	activity.UpdatedAt = time.Now().UTC()
	m.activities[id] = activity
	return &activity, nil
}

// Bookings

func (m *memoryStorage) GetBookings(ctx context.Context) ([]models.BookingWithActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bookings := make([]models.BookingWithActivity, 0, len(m.bookings))
	for _, b := range m.bookings {
		joined := models.BookingWithActivity{Booking: b}
		if activity, ok := m.activities[b.ActivityID]; ok {
			a := activity
			joined.Activity = &a
		}
		bookings = append(bookings, joined)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (m *memoryStorage) GetBooking(ctx context.Context, id string) (*models.BookingWithActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	joined := models.BookingWithActivity{Booking: booking}
	if activity, ok := m.activities[booking.ActivityID]; ok {
		a := activity
		joined.Activity = &a
	}
	return &joined, nil
}

func (m *memoryStorage) FindBookingByDetails(ctx context.Context, activityID, customerPhone string, preferredDate time.Time) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b := m.findByDetailsLocked(activityID, customerPhone, preferredDate); b != nil {
		return b, nil
	}
	return nil, ErrNotFound
}

func (m *memoryStorage) findByDetailsLocked(activityID, customerPhone string, preferredDate time.Time) *models.Booking {
	for _, b := range m.bookings {
		if b.ActivityID == activityID && b.CustomerPhone == customerPhone && b.PreferredDate.Equal(preferredDate) {
			found := b
			return &found
		}
	}
	return nil
}

func (m *memoryStorage) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// The lock is held across check and insert, so the in-process path
	// cannot produce duplicate triples.
	if m.findByDetailsLocked(booking.ActivityID, booking.CustomerPhone, booking.PreferredDate) != nil {
		return nil, ErrDuplicateBooking
	}
	now := time.Now().UTC()
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	m.bookings[booking.ID] = booking
	return &booking, nil
}

func (m *memoryStorage) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	m.bookings[id] = booking
	return &booking, nil
}

func (m *memoryStorage) UpdateBookingPayment(ctx context.Context, id string, payment models.PaymentUpdate) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	booking.PaymentStatus = payment.PaymentStatus
	booking.PaidAmount = payment.PaidAmount
	booking.PaymentMethod = payment.PaymentMethod
	if payment.DepositAmount > 0 {
		booking.DepositAmount = payment.DepositAmount
	}
	booking.UpdatedAt = time.Now().UTC()
	m.bookings[id] = booking
	return &booking, nil
}

// Reviews

func (m *memoryStorage) GetReviews(ctx context.Context, activityID string, approvedOnly bool) ([]models.ReviewWithActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reviews := make([]models.ReviewWithActivity, 0)
	for _, r := range m.reviews {
		if approvedOnly && !r.Approved {
			continue
		}
		if activityID != "" && r.ActivityID != activityID {
			continue
		}
		joined := models.ReviewWithActivity{Review: r}
		if activity, ok := m.activities[r.ActivityID]; ok {
			a := activity
			joined.Activity = &a
		}
		reviews = append(reviews, joined)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

func (m *memoryStorage) GetReview(ctx context.Context, id string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &review, nil
}

func (m *memoryStorage) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.Approved = false
	review.CreatedAt = now
	review.UpdatedAt = now
	m.reviews[review.ID] = review
	return &review, nil
}

func (m *memoryStorage) UpdateReviewApproval(ctx context.Context, id string, approved bool) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	review.Approved = approved
	review.UpdatedAt = time.Now().UTC()
	m.reviews[id] = review
	return &review, nil
}

func (m *memoryStorage) GetActivityRating(ctx context.Context, activityID string) (models.ActivityRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total, count int
	for _, r := range m.reviews {
		if r.ActivityID == activityID && r.Approved {
			total += r.Rating
			count++
		}
	}
	if count == 0 {
		return models.ActivityRating{}, nil
	}
	return models.ActivityRating{
		AverageRating: float64(total) / float64(count),
		TotalReviews:  count,
	}, nil
}

// Audit log

func (m *memoryStorage) CreateAuditLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()
	m.auditLogs = append(m.auditLogs, entry)
	return &entry, nil
}

func (m *memoryStorage) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	logs := make([]models.AuditLog, len(m.auditLogs))
	copy(logs, m.auditLogs)
	sort.Slice(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if len(logs) > 100 {
		logs = logs[:100]
	}
	return logs, nil
}

// Analytics

func (m *memoryStorage) GetEarningsAnalytics(ctx context.Context) (models.EarningsAnalytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := currentMonth.AddDate(0, -1, 0)

	analytics := models.EarningsAnalytics{Currency: "MAD"}
	for _, b := range m.bookings {
		if b.PaymentStatus != models.PaymentDepositPaid && b.PaymentStatus != models.PaymentFullyPaid {
			continue
		}
		switch {
		case !b.CreatedAt.Before(currentMonth):
			analytics.CurrentMonth += b.PaidAmount
		case !b.CreatedAt.Before(lastMonth):
			analytics.LastMonth += b.PaidAmount
		}
	}
	return analytics, nil
}

func (m *memoryStorage) GetActivityAnalytics(ctx context.Context) ([]models.ActivityAnalytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, b := range m.bookings {
		counts[b.ActivityID]++
	}
	analytics := make([]models.ActivityAnalytics, 0, len(m.activities))
	for _, a := range m.activities {
		if !a.IsActive {
			continue
		}
		analytics = append(analytics, models.ActivityAnalytics{
			Activity:     a,
			BookingCount: counts[a.ID],
		})
	}
	sort.Slice(analytics, func(i, j int) bool { return analytics[i].Name < analytics[j].Name })
	return analytics, nil
}

func (m *memoryStorage) GetBookingAnalytics(ctx context.Context) (models.BookingAnalytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var analytics models.BookingAnalytics
	for _, b := range m.bookings {
		analytics.Total++
		switch b.Status {
		case models.BookingPending:
			analytics.Pending++
		case models.BookingConfirmed:
			analytics.Confirmed++
		case models.BookingCompleted:
			analytics.Completed++
		case models.BookingCancelled:
			analytics.Cancelled++
		}
	}
	return analytics, nil
}

func (m *memoryStorage) GetPriceComparison(ctx context.Context) ([]models.Activity, error) {
	return m.GetActivities(ctx, false)
}
