package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BookingNotification carries the details sent to admins when a booking is
// created or its payment state changes.
type BookingNotification struct {
	BookingID      string
	CustomerName   string
	CustomerPhone  string
	ActivityName   string
	NumberOfPeople int
	PreferredDate  time.Time
	TotalAmount    float64
	Currency       string
	PaymentStatus  string
	PaymentMethod  string
	Status         string
	Notes          string
}

// Payment confirmation wording.
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeFull    = "full"
)

// Notifier sends best-effort admin notifications. Implementations must never
// be relied on for correctness of the booking flow.
type Notifier interface {
	SendBookingNotification(ctx context.Context, n BookingNotification) error
	SendPaymentConfirmation(ctx context.Context, n BookingNotification, paymentType string) error
}

// dispatchTimeout bounds a best-effort send so a slow gateway cannot hold a
// goroutine indefinitely.
const dispatchTimeout = 5 * time.Second

// Dispatch runs send in a detached goroutine with its own deadline. Failures
// are logged and never reach the caller.
func Dispatch(logger *zap.Logger, what string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			logger.Warn("Notification delivery failed",
				zap.String("notification", what),
				zap.Error(err))
		}
	}()
}
