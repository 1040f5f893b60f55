package models

import "time"

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment sub-states, independent of the booking status.
const (
	PaymentUnpaid      = "unpaid"
	PaymentDepositPaid = "deposit_paid"
	PaymentFullyPaid   = "fully_paid"
)

// Payment methods recorded by admins.
const (
	PaymentMethodCash        = "cash"
	PaymentMethodCashDeposit = "cash_deposit"
)

// Booking is a customer's reservation request for an activity on a date.
// The triple (ActivityID, CustomerPhone, PreferredDate) uniquely identifies
// a reservation attempt.
type Booking struct {
	ID             string    `bson:"id" json:"id"`
	ActivityID     string    `bson:"activity_id" json:"activityId"`
	CustomerName   string    `bson:"customer_name" json:"customerName"`
	CustomerPhone  string    `bson:"customer_phone" json:"customerPhone"`
	CustomerEmail  string    `bson:"customer_email,omitempty" json:"customerEmail,omitempty"`
	NumberOfPeople int       `bson:"number_of_people" json:"numberOfPeople"`
	PreferredDate  time.Time `bson:"preferred_date" json:"preferredDate"`
	TimeSlotID     string    `bson:"time_slot_id,omitempty" json:"timeSlotId,omitempty"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         string    `bson:"status" json:"status"`
	TotalAmount    float64   `bson:"total_amount" json:"totalAmount"` // always computed server-side
	PaymentStatus  string    `bson:"payment_status" json:"paymentStatus"`
	PaymentMethod  string    `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	PaidAmount     float64   `bson:"paid_amount" json:"paidAmount"`
	DepositAmount  float64   `bson:"deposit_amount,omitempty" json:"depositAmount,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// BookingWithActivity joins a booking with its activity for admin listings.
type BookingWithActivity struct {
	Booking  `bson:",inline"`
	Activity *Activity `bson:"activity,omitempty" json:"activity,omitempty"`
}

// PaymentUpdate is the admin payment mutation payload.
type PaymentUpdate struct {
	PaymentStatus string  `json:"paymentStatus"`
	PaidAmount    float64 `json:"paidAmount"`
	PaymentMethod string  `json:"paymentMethod"`
	DepositAmount float64 `json:"depositAmount,omitempty"`
}

// ValidStatusTransition reports whether a booking status change is allowed:
// pending may move to confirmed or cancelled, confirmed to completed or
// cancelled. Terminal states never change.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}

// ValidPaymentTransition reports whether a payment sub-state change is
// allowed: unpaid to deposit_paid or straight to fully_paid, deposit_paid to
// fully_paid.
func ValidPaymentTransition(from, to string) bool {
	switch from {
	case PaymentUnpaid:
		return to == PaymentDepositPaid || to == PaymentFullyPaid
	case PaymentDepositPaid:
		return to == PaymentFullyPaid
	default:
		return false
	}
}
