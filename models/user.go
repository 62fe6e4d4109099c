package models

import "time"

const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// User is the casefile-independent identity record, keyed by username in the
// "users" collection. Role is the global role; "admin" bypasses per-casefile
// ACL checks.
type User struct {
	Username  string    `bson:"_id" json:"username"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
