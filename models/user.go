// models/user.go
package models

import "time"

// User represents a caller identified by phone number. Users are created on
// first identification and are never deleted.
type User struct {
	Phone       string         `bson:"phone" json:"phone"` // normalized, unique
	Name        string         `bson:"name,omitempty" json:"name,omitempty"`
	Preferences map[string]any `bson:"preferences,omitempty" json:"preferences,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`
}
