package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"atlastours/config"
)

const AdminSessionPrefix = "adminSession:"

// SessionCookieName is the cookie carrying the opaque session id.
const SessionCookieName = "atlastours_session"

// ErrSessionNotFound is returned when a key is missing or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is a server-side TTL key/value store. Redis backs it in
// normal operation; an in-process store serves as fallback when Redis is
// unreachable at startup.
type SessionStore interface {
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// AdminSession is the authenticated admin identity held server-side; the
// client only ever sees the opaque session id.
type AdminSession struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedisSessionStore stores sessions in Redis.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore is the process-local fallback store.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]memoryEntry)}
}

func (s *MemorySessionStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrSessionNotFound
	}
	return entry.data, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// NewSessionStore connects to Redis and falls back to the in-process store
// when Redis does not answer within 2 seconds.
func NewSessionStore(logger *zap.Logger) SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, using in-memory session store", zap.Error(err))
		return NewMemorySessionStore()
	}
	return NewRedisSessionStore(client)
}

// SaveAdminSession stores the admin session under its id with a TTL.
func SaveAdminSession(ctx context.Context, store SessionStore, sessionID string, session AdminSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal admin session: %w", err)
	}
	return store.Save(ctx, AdminSessionPrefix+sessionID, data, ttl)
}

// GetAdminSession retrieves an admin session by id.
func GetAdminSession(ctx context.Context, store SessionStore, sessionID string) (*AdminSession, error) {
	data, err := store.Get(ctx, AdminSessionPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	var session AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin session: %w", err)
	}
	return &session, nil
}

// DeleteAdminSession removes an admin session.
func DeleteAdminSession(ctx context.Context, store SessionStore, sessionID string) error {
	return store.Delete(ctx, AdminSessionPrefix+sessionID)
}
