package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"atlastours/models"
)

const opTimeout = 5 * time.Second

var _ Storage = (*mongoStorage)(nil)

// mongoStorage is the MongoDB-backed storage implementation.
type mongoStorage struct {
	users      *mongo.Collection
	activities *mongo.Collection
	bookings   *mongo.Collection
	reviews    *mongo.Collection
	auditLogs  *mongo.Collection
}

// NewMongoStorage wires the storage façade to a connected client. It also
// ensures the unique booking-triple index, which closes the duplicate
// check-then-insert race at the database level.
func NewMongoStorage(client *mongo.Client, dbName string) (Storage, error) {
	db := client.Database(dbName)
	s := &mongoStorage{
		users:      db.Collection("users"),
		activities: db.Collection("activities"),
		bookings:   db.Collection("bookings"),
		reviews:    db.Collection("reviews"),
		auditLogs:  db.Collection("audit_logs"),
	}
	if err := s.ensureIndexes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *mongoStorage) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "activity_id", Value: 1},
			{Key: "customer_phone", Value: 1},
			{Key: "preferred_date", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_booking_triple"),
	})
	if err != nil {
		return err
	}
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *mongoStorage) SeedInitialData(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	now := time.Now().UTC()
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword()), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	for _, su := range seedUsers() {
		count, err := s.users.CountDocuments(ctx, bson.M{"username": su.Username})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		user := models.User{
			ID:        su.ID,
			Username:  su.Username,
			Password:  string(hash),
			Role:      su.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.users.InsertOne(ctx, user); err != nil {
			return err
		}
	}

	count, err := s.activities.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count == 0 {
		docs := make([]interface{}, 0, 5)
		for _, a := range seedActivities(now) {
			docs = append(docs, a)
		}
		if _, err := s.activities.InsertMany(ctx, docs); err != nil {
			return err
		}
	}
	return nil
}

// Users

func (s *mongoStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (s *mongoStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (s *mongoStorage) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Password:  string(hash),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Activities

func (s *mongoStorage) GetActivities(ctx context.Context, includeInactive bool) ([]models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if !includeInactive {
		filter["is_active"] = true
	}
	cursor, err := s.activities.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *mongoStorage) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var activity models.Activity
	if err := s.activities.FindOne(ctx, bson.M{"id": id}).Decode(&activity); err != nil {
		return nil, mapMongoErr(err)
	}
	return &activity, nil
}

func (s *mongoStorage) CreateActivity(ctx context.Context, activity models.Activity) (*models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.Currency == "" {
		activity.Currency = "MAD"
	}
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if _, err := s.activities.InsertOne(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *mongoStorage) UpdateActivity(ctx context.Context, id string, activity models.Activity) (*models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":               activity.Name,
		"description":        activity.Description,
		"price":              activity.Price,
		"currency":           activity.Currency,
		"image":              activity.Image,
		"photos":             activity.Photos,
		"category":           activity.Category,
		"is_active":          activity.IsActive,
		"availability":       activity.Availability,
		"duration":           activity.Duration,
		"time_slots":         activity.TimeSlots,
		"getyourguide_price": activity.GetYourGuidePrice,
		"updated_at":         time.Now().UTC(),
	}}
	return s.findActivityAndUpdate(ctx, id, update)
}

func (s *mongoStorage) DeleteActivity(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.activities.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStorage) UpdateActivityGetYourGuidePrice(ctx context.Context, id string, price float64) (*models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"getyourguide_price": price,
		"updated_at":         time.Now().UTC(),
	}}
	return s.findActivityAndUpdate(ctx, id, update)
}

func (s *mongoStorage) findActivityAndUpdate(ctx context.Context, id string, update bson.M) (*models.Activity, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var activity models.Activity
	if err := s.activities.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&activity); err != nil {
		return nil, mapMongoErr(err)
	}
	return &activity, nil
}

// mapMongoErr translates driver errors to the storage error taxonomy.
func mapMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateBooking
	}
	return err
}
