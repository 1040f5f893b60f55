package models

import "time"

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User is an admin back-office account. Public visitors never have accounts.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role      string    `bson:"role" json:"role"`  // "admin" or "superadmin"
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
