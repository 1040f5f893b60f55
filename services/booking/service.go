package booking

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"atlastours/database/repository"
	"atlastours/metrics"
	"atlastours/models"
	"atlastours/services/notification"
)

// CreateBookingInput is the public booking request before validation.
type CreateBookingInput struct {
	CustomerName   string `json:"customerName"`
	CustomerPhone  string `json:"customerPhone"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
	ActivityID     string `json:"activityId"`
	NumberOfPeople int    `json:"numberOfPeople"`
	PreferredDate  string `json:"preferredDate"`
	TimeSlotID     string `json:"timeSlotId,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// BookingService owns the booking lifecycle: creation with duplicate
// prevention, status changes, and payment-state transitions.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error)
	UpdatePayment(ctx context.Context, id string, payment models.PaymentUpdate) (*models.Booking, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Store    repository.Storage
	Notifier notification.Notifier
	Logger   *zap.Logger
}

var phonePattern = regexp.MustCompile(`^\+\d{8,15}$`)
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ParsePreferredDate accepts RFC 3339 timestamps or plain dates. Plain dates
// normalize to midnight UTC so the duplicate-triple comparison is stable.
func ParsePreferredDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (s *DefaultBookingService) validate(input CreateBookingInput) (time.Time, error) {
	problems := make(map[string]string)

	if len(strings.TrimSpace(input.CustomerName)) < 2 {
		problems["customerName"] = "full name is required (minimum 2 characters)"
	}
	if !phonePattern.MatchString(input.CustomerPhone) {
		problems["customerPhone"] = "a valid international phone number is required"
	}
	if input.CustomerEmail != "" && !emailPattern.MatchString(input.CustomerEmail) {
		problems["customerEmail"] = "a valid email address is required"
	}
	if input.ActivityID == "" {
		problems["activityId"] = "activity is required"
	}
	if input.NumberOfPeople < 1 {
		problems["numberOfPeople"] = "at least 1 person is required"
	} else if input.NumberOfPeople > 20 {
		problems["numberOfPeople"] = "maximum 20 people per booking"
	}
	if len(input.Notes) > 500 {
		problems["notes"] = "notes cannot exceed 500 characters"
	}

	var preferredDate time.Time
	if input.PreferredDate == "" {
		problems["preferredDate"] = "date is required"
	} else {
		parsed, err := ParsePreferredDate(input.PreferredDate)
		if err != nil {
			problems["preferredDate"] = "date must be RFC 3339 or YYYY-MM-DD"
		} else {
			preferredDate = parsed
		}
	}

	if len(problems) > 0 {
		return time.Time{}, &ValidationError{Fields: problems}
	}
	return preferredDate, nil
}

// CreateBooking runs the full creation flow. The duplicate check and insert
// are two steps; the storage layer additionally rejects concurrent
// duplicates, so a race surfaces as the same conflict error.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	preferredDate, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	activity, err := s.Store.GetActivity(ctx, input.ActivityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "activity", ID: input.ActivityID}
		}
		return nil, err
	}
	if !activity.IsActive {
		return nil, &NotFoundError{Resource: "activity", ID: input.ActivityID}
	}

	existing, err := s.Store.FindBookingByDetails(ctx, input.ActivityID, input.CustomerPhone, preferredDate)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		metrics.IncBookingConflict()
		return nil, newConflictError()
	}

	// totalAmount is always computed here; a client-supplied total is
	// never trusted.
	unitPrice := activity.SlotPrice(input.TimeSlotID)
	total := unitPrice * float64(input.NumberOfPeople)

	created, err := s.Store.CreateBooking(ctx, models.Booking{
		ActivityID:     input.ActivityID,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerPhone:  input.CustomerPhone,
		CustomerEmail:  input.CustomerEmail,
		NumberOfPeople: input.NumberOfPeople,
		PreferredDate:  preferredDate,
		TimeSlotID:     input.TimeSlotID,
		Notes:          input.Notes,
		Status:         models.BookingPending,
		TotalAmount:    total,
		PaymentStatus:  models.PaymentUnpaid,
		PaidAmount:     0,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			metrics.IncBookingConflict()
			return nil, newConflictError()
		}
		return nil, err
	}
	metrics.IncBookingCreated()

	n := notificationFor(*created, activity)
	notification.Dispatch(s.Logger, "booking created", func(ctx context.Context) error {
		err := s.Notifier.SendBookingNotification(ctx, n)
		if err != nil {
			metrics.IncNotificationFailure()
		}
		return err
	})

	return created, nil
}

func (s *DefaultBookingService) UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	current, err := s.Store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}
	if !models.ValidStatusTransition(current.Status, status) {
		return nil, &ValidationError{Fields: map[string]string{
			"status": "cannot change status from " + current.Status + " to " + status,
		}}
	}
	updated, err := s.Store.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}
	return updated, nil
}

// UpdatePayment applies a payment-state transition and dispatches a
// best-effort confirmation distinguishing deposit vs full payment.
func (s *DefaultBookingService) UpdatePayment(ctx context.Context, id string, payment models.PaymentUpdate) (*models.Booking, error) {
	current, err := s.Store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}
	if !models.ValidPaymentTransition(current.PaymentStatus, payment.PaymentStatus) {
		return nil, &ValidationError{Fields: map[string]string{
			"paymentStatus": "cannot change payment status from " + current.PaymentStatus + " to " + payment.PaymentStatus,
		}}
	}

	updated, err := s.Store.UpdateBookingPayment(ctx, id, payment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}

	paymentType := notification.PaymentTypeDeposit
	if updated.PaymentStatus == models.PaymentFullyPaid {
		paymentType = notification.PaymentTypeFull
	}
	n := notificationFor(*updated, current.Activity)
	notification.Dispatch(s.Logger, "payment confirmed", func(ctx context.Context) error {
		err := s.Notifier.SendPaymentConfirmation(ctx, n, paymentType)
		if err != nil {
			metrics.IncNotificationFailure()
		}
		return err
	})

	return updated, nil
}

func notificationFor(b models.Booking, activity *models.Activity) notification.BookingNotification {
	n := notification.BookingNotification{
		BookingID:      b.ID,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		NumberOfPeople: b.NumberOfPeople,
		PreferredDate:  b.PreferredDate,
		TotalAmount:    b.TotalAmount,
		Currency:       "MAD",
		PaymentStatus:  b.PaymentStatus,
		PaymentMethod:  b.PaymentMethod,
		Status:         b.Status,
		Notes:          b.Notes,
	}
	if activity != nil {
		n.ActivityName = activity.Name
		if activity.Currency != "" {
			n.Currency = activity.Currency
		}
	}
	return n
}
