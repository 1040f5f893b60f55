package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"atlastours/models"
)

func (s *mongoStorage) GetEarningsAnalytics(ctx context.Context) (models.EarningsAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := currentMonth.AddDate(0, -1, 0)

	current, err := s.sumPaidAmounts(ctx, bson.M{"created_at": bson.M{"$gte": currentMonth}})
	if err != nil {
		return models.EarningsAnalytics{}, err
	}
	previous, err := s.sumPaidAmounts(ctx, bson.M{"created_at": bson.M{"$gte": lastMonth, "$lt": currentMonth}})
	if err != nil {
		return models.EarningsAnalytics{}, err
	}
	return models.EarningsAnalytics{
		CurrentMonth: current,
		LastMonth:    previous,
		Currency:     "MAD",
	}, nil
}

func (s *mongoStorage) sumPaidAmounts(ctx context.Context, match bson.M) (float64, error) {
	match["payment_status"] = bson.M{"$in": []string{models.PaymentDepositPaid, models.PaymentFullyPaid}}
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$paid_amount"}}},
	}
	cursor, err := s.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (s *mongoStorage) GetActivityAnalytics(ctx context.Context) ([]models.ActivityAnalytics, error) {
	activities, err := s.GetActivities(ctx, false)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$activity_id", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := s.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []struct {
		ActivityID string `bson:"_id"`
		Count      int    `bson:"count"`
	}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	byActivity := make(map[string]int, len(counts))
	for _, c := range counts {
		byActivity[c.ActivityID] = c.Count
	}

	analytics := make([]models.ActivityAnalytics, 0, len(activities))
	for _, a := range activities {
		analytics = append(analytics, models.ActivityAnalytics{
			Activity:     a,
			BookingCount: byActivity[a.ID],
		})
	}
	return analytics, nil
}

func (s *mongoStorage) GetBookingAnalytics(ctx context.Context) (models.BookingAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := s.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return models.BookingAnalytics{}, err
	}
	defer cursor.Close(ctx)

	var counts []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &counts); err != nil {
		return models.BookingAnalytics{}, err
	}

	var analytics models.BookingAnalytics
	for _, c := range counts {
		analytics.Total += c.Count
		switch c.Status {
		case models.BookingPending:
			analytics.Pending = c.Count
		case models.BookingConfirmed:
			analytics.Confirmed = c.Count
		case models.BookingCompleted:
			analytics.Completed = c.Count
		case models.BookingCancelled:
			analytics.Cancelled = c.Count
		}
	}
	return analytics, nil
}

func (s *mongoStorage) GetPriceComparison(ctx context.Context) ([]models.Activity, error) {
	return s.GetActivities(ctx, false)
}
