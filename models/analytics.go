package models

// EarningsAnalytics compares collected payments for the current month against
// the prior month. Only deposit_paid and fully_paid bookings count.
type EarningsAnalytics struct {
	CurrentMonth float64 `json:"currentMonth"`
	LastMonth    float64 `json:"lastMonth"`
	Currency     string  `json:"currency"`
}

// ActivityAnalytics is an activity with its total booking count.
type ActivityAnalytics struct {
	Activity     `bson:",inline"`
	BookingCount int `json:"bookingCount"`
}

// BookingAnalytics totals bookings by lifecycle status.
type BookingAnalytics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
