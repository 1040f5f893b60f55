package models

import "time"

// AuditLog is an append-only record of an admin action. Entries are never
// updated or deleted.
type AuditLog struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Action    string    `bson:"action" json:"action"`
	Details   string    `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
