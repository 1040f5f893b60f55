package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"atlastours/models"
)

func (s *mongoStorage) GetBookings(ctx context.Context) ([]models.BookingWithActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.bookings.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return s.joinActivities(ctx, bookings)
}

func (s *mongoStorage) GetBooking(ctx context.Context, id string) (*models.BookingWithActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	if err := s.bookings.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, mapMongoErr(err)
	}
	joined := models.BookingWithActivity{Booking: booking}
	var activity models.Activity
	if err := s.activities.FindOne(ctx, bson.M{"id": booking.ActivityID}).Decode(&activity); err == nil {
		joined.Activity = &activity
	}
	return &joined, nil
}

func (s *mongoStorage) FindBookingByDetails(ctx context.Context, activityID, customerPhone string, preferredDate time.Time) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"activity_id":    activityID,
		"customer_phone": customerPhone,
		"preferred_date": preferredDate,
	}
	var booking models.Booking
	if err := s.bookings.FindOne(ctx, filter).Decode(&booking); err != nil {
		return nil, mapMongoErr(err)
	}
	return &booking, nil
}

func (s *mongoStorage) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if _, err := s.bookings.InsertOne(ctx, booking); err != nil {
		// The unique triple index reports concurrent duplicates the
		// pre-check could not see.
		return nil, mapMongoErr(err)
	}
	return &booking, nil
}

func (s *mongoStorage) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	return s.findBookingAndUpdate(ctx, id, update)
}

func (s *mongoStorage) UpdateBookingPayment(ctx context.Context, id string, payment models.PaymentUpdate) (*models.Booking, error) {
	set := bson.M{
		"payment_status": payment.PaymentStatus,
		"paid_amount":    payment.PaidAmount,
		"payment_method": payment.PaymentMethod,
		"updated_at":     time.Now().UTC(),
	}
	if payment.DepositAmount > 0 {
		set["deposit_amount"] = payment.DepositAmount
	}
	return s.findBookingAndUpdate(ctx, id, bson.M{"$set": set})
}

func (s *mongoStorage) findBookingAndUpdate(ctx context.Context, id string, update bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	if err := s.bookings.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&booking); err != nil {
		return nil, mapMongoErr(err)
	}
	return &booking, nil
}

// joinActivities resolves the referenced activities in one query.
func (s *mongoStorage) joinActivities(ctx context.Context, bookings []models.Booking) ([]models.BookingWithActivity, error) {
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool)
	for _, b := range bookings {
		if !seen[b.ActivityID] {
			seen[b.ActivityID] = true
			ids = append(ids, b.ActivityID)
		}
	}

	byID := make(map[string]models.Activity, len(ids))
	if len(ids) > 0 {
		cursor, err := s.activities.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		var activities []models.Activity
		if err := cursor.All(ctx, &activities); err != nil {
			return nil, err
		}
		for _, a := range activities {
			byID[a.ID] = a
		}
	}

	joined := make([]models.BookingWithActivity, 0, len(bookings))
	for _, b := range bookings {
		bw := models.BookingWithActivity{Booking: b}
		if a, ok := byID[b.ActivityID]; ok {
			activity := a
			bw.Activity = &activity
		}
		joined = append(joined, bw)
	}
	return joined, nil
}

// Reviews

func (s *mongoStorage) GetReviews(ctx context.Context, activityID string, approvedOnly bool) ([]models.ReviewWithActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if approvedOnly {
		filter["approved"] = true
	}
	if activityID != "" {
		filter["activity_id"] = activityID
	}
	cursor, err := s.reviews.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}

	joined := make([]models.ReviewWithActivity, 0, len(reviews))
	for _, r := range reviews {
		rw := models.ReviewWithActivity{Review: r}
		var activity models.Activity
		if err := s.activities.FindOne(ctx, bson.M{"id": r.ActivityID}).Decode(&activity); err == nil {
			rw.Activity = &activity
		}
		joined = append(joined, rw)
	}
	return joined, nil
}

func (s *mongoStorage) GetReview(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var review models.Review
	if err := s.reviews.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		return nil, mapMongoErr(err)
	}
	return &review, nil
}

func (s *mongoStorage) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.Approved = false
	review.CreatedAt = now
	review.UpdatedAt = now
	if _, err := s.reviews.InsertOne(ctx, review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *mongoStorage) UpdateReviewApproval(ctx context.Context, id string, approved bool) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"approved":   approved,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	if err := s.reviews.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&review); err != nil {
		return nil, mapMongoErr(err)
	}
	return &review, nil
}

func (s *mongoStorage) GetActivityRating(ctx context.Context, activityID string) (models.ActivityRating, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"activity_id": activityID, "approved": true}},
		{"$group": bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}},
	}
	cursor, err := s.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ActivityRating{}, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return models.ActivityRating{}, err
	}
	if len(results) == 0 {
		return models.ActivityRating{}, nil
	}
	return models.ActivityRating{
		AverageRating: results[0].Average,
		TotalReviews:  results[0].Count,
	}, nil
}

// Audit log

func (s *mongoStorage) CreateAuditLog(ctx context.Context, entry models.AuditLog) (*models.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()
	if _, err := s.auditLogs.InsertOne(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *mongoStorage) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cursor, err := s.auditLogs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
