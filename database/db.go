package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"atlastours/config"
)

// maxConnectionAttempts bounds startup retries before the storage layer
// degrades to the in-memory fallback.
const maxConnectionAttempts = 3

// Connect dials MongoDB with bounded retries. A nil error guarantees the
// server answered a ping.
func Connect(logger *zap.Logger) (*mongo.Client, error) {
	var lastErr error
	for attempt := 1; attempt <= maxConnectionAttempts; attempt++ {
		client, err := tryConnect()
		if err == nil {
			logger.Info("Connected to MongoDB", zap.Int("attempt", attempt))
			return client, nil
		}
		lastErr = err
		logger.Warn("MongoDB connection failed",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxConnectionAttempts),
			zap.Error(err))
		if attempt < maxConnectionAttempts {
			time.Sleep(5 * time.Second)
		}
	}
	return nil, lastErr
}

func tryConnect() (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetMaxPoolSize(10)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
