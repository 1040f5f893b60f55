package models

import "time"

// Review is a customer rating for an activity. Reviews are invisible to the
// public until an admin approves them.
type Review struct {
	ID            string    `bson:"id" json:"id"`
	ActivityID    string    `bson:"activity_id" json:"activityId"`
	CustomerName  string    `bson:"customer_name" json:"customerName"`
	CustomerEmail string    `bson:"customer_email" json:"customerEmail"`
	Rating        int       `bson:"rating" json:"rating"` // 1..5
	Comment       string    `bson:"comment" json:"comment"`
	Approved      bool      `bson:"approved" json:"approved"`
	Verified      bool      `bson:"verified,omitempty" json:"verified,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// ReviewWithActivity joins a review with its activity for listings.
type ReviewWithActivity struct {
	Review   `bson:",inline"`
	Activity *Activity `bson:"activity,omitempty" json:"activity,omitempty"`
}

// ActivityRating is the aggregate over approved reviews for one activity.
type ActivityRating struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}
